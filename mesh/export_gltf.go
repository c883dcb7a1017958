package mesh

import (
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/meshview/utils/gltfutils"
)

// ExportGLB writes g as a single-node binary glTF with one material of
// the given base color.
func (g *Geometry) ExportGLB(w io.Writer, name string, color [4]float32) error {
	doc := gltfutils.NewDocument()

	positions := make([][3]float32, len(g.Positions))
	for i, p := range g.Positions {
		positions[i] = p
	}

	attributes := make(map[string]uint32)
	attributes["POSITION"] = modeler.WritePosition(doc, positions)

	if len(g.Normals) == len(g.Positions) {
		normals := make([][3]float32, len(g.Normals))
		for i, n := range g.Normals {
			if n.Len() > 0.5 {
				n = n.Normalize()
			}
			normals[i] = n
		}
		attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	}

	indicesAccessor := modeler.WriteIndices(doc, g.Indices)

	baseColor := new([4]float32)
	*baseColor = color
	material := &gltf.Material{
		Name:        name,
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: baseColor,
		},
	}
	// alpha of the base color is ignored by viewers in opaque mode
	if color[3] < 1 {
		material.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = append(doc.Materials, material)

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{
			{
				Indices:    &indicesAccessor,
				Attributes: attributes,
				Material:   gltf.Index(0),
			},
		},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
	})

	return gltfutils.ExportBinary(w, doc)
}
