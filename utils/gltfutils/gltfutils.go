package gltfutils

import (
	"io"

	"github.com/qmuntal/gltf"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

// ExportBinary attaches every root node to the default scene and writes
// the document as a single GLB stream.
func ExportBinary(w io.Writer, doc *gltf.Document) error {
	doc.Scenes[0].Nodes = doc.Scenes[0].Nodes[:0]
	for iNode := range doc.Nodes {
		if isChild(doc, uint32(iNode)) {
			continue
		}
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(iNode))
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

func isChild(doc *gltf.Document, iNode uint32) bool {
	for _, node := range doc.Nodes {
		for _, child := range node.Children {
			if child == iNode {
				return true
			}
		}
	}
	return false
}
