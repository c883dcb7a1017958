package mesh

import (
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/meshview/utils"
)

// Decoder turns the raw bytes of a mesh file into geometry.
type Decoder func(name string, data []byte) (*Geometry, error)

var gDecoders = make(map[string]Decoder)

func SetDecoder(ext string, d Decoder) {
	gDecoders[strings.ToUpper(ext)] = d
}

func init() {
	SetDecoder(".obj", DecodeObj)
	SetDecoder(".gltf", DecodeGLTF)
	SetDecoder(".glb", DecodeGLTF)
}

// Extensions lists the registered file extensions.
func Extensions() []string {
	list := make([]string, 0, len(gDecoders))
	for ext := range gDecoders {
		list = append(list, strings.ToLower(ext))
	}
	return list
}

// Decode picks the decoder by the extension of name. Query strings and
// fragments of URLs are ignored.
func Decode(name string, data []byte) (*Geometry, error) {
	ext := strings.ToUpper(path.Ext(utils.StripQuery(name)))

	d, found := gDecoders[ext]
	if !found {
		return nil, errors.Errorf("[mesh] Cannot find decoder for '%s' extension", ext)
	}
	g, err := d(name, data)
	if err != nil {
		return nil, errors.Wrapf(err, "[mesh] Failed to decode %q", name)
	}
	if g.Empty() {
		return nil, errors.Errorf("[mesh] %q contains no geometry", name)
	}
	return g, nil
}
