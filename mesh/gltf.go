package mesh

import (
	"bytes"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// DecodeGLTF merges every triangle primitive of a glTF or GLB document.
// Buffers must be embedded (GLB chunk or data URI); node transforms are
// not applied.
func DecodeGLTF(name string, data []byte) (*Geometry, error) {
	doc := &gltf.Document{}
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, errors.Wrapf(err, "Failed to read gltf")
	}

	g := &Geometry{}
	for _, mesh := range doc.Meshes {
		for iPrimitive, primitive := range mesh.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				log.Printf("[mesh] %q: mesh %q primitive %d is not a triangle list, skipping", name, mesh.Name, iPrimitive)
				continue
			}
			part, err := readPrimitive(doc, primitive)
			if err != nil {
				return nil, errors.Wrapf(err, "Mesh %q primitive %d", mesh.Name, iPrimitive)
			}
			g.Append(part)
		}
	}
	return g, nil
}

func readPrimitive(doc *gltf.Document, primitive *gltf.Primitive) (*Geometry, error) {
	positionAccessor, ok := primitive.Attributes["POSITION"]
	if !ok {
		return nil, errors.Errorf("No POSITION attribute")
	}
	if int(positionAccessor) >= len(doc.Accessors) {
		return nil, errors.Errorf("POSITION accessor %d out of range", positionAccessor)
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[positionAccessor], make([][3]float32, 0))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read mesh vertices")
	}

	part := &Geometry{Positions: make([]mgl32.Vec3, len(positions))}
	for i, p := range positions {
		part.Positions[i] = mgl32.Vec3(p)
	}

	if primitive.Indices != nil {
		if int(*primitive.Indices) >= len(doc.Accessors) {
			return nil, errors.Errorf("Indices accessor %d out of range", *primitive.Indices)
		}
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], make([]uint32, 0))
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to read mesh indices")
		}
		for _, index := range indices {
			if int(index) >= len(positions) {
				return nil, errors.Errorf("Index %d out of %d vertices", index, len(positions))
			}
		}
		part.Indices = indices
	} else {
		part.Indices = make([]uint32, len(positions))
		for i := range part.Indices {
			part.Indices[i] = uint32(i)
		}
	}
	return part, nil
}
