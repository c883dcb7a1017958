// Package catalog holds the static, ordered list of mesh resources the
// viewer loads at startup.
package catalog

import (
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/meshview/utils"
)

// Descriptor identifies one mesh resource. Index is its position in the
// catalog and is the key shared by the scene registry and the panel.
type Descriptor struct {
	Index int            `json:"index"`
	URL   string         `json:"url"`
	Color utils.ColorRGB `json:"color"`
}

// Label is the final path segment of the descriptor URL.
func (d Descriptor) Label() string {
	return Label(d.URL)
}

type Catalog []Descriptor

type fileEntry struct {
	URL   string    `yaml:"url"`
	Color []float32 `yaml:"color"`
}

type file struct {
	Resources []fileEntry `yaml:"resources"`
}

// New builds a catalog from url/color pairs, assigning indices in order.
func New(urls []string, colors []utils.ColorRGB) (Catalog, error) {
	if len(urls) != len(colors) {
		return nil, errors.Errorf("Got %d urls and %d colors", len(urls), len(colors))
	}
	c := make(Catalog, len(urls))
	for i := range urls {
		c[i] = Descriptor{Index: i, URL: urls[i], Color: colors[i]}
	}
	return c, nil
}

func Parse(data []byte) (Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal catalog")
	}

	c := make(Catalog, 0, len(f.Resources))
	for i, e := range f.Resources {
		if e.URL == "" {
			return nil, errors.Errorf("Resource %d has no url", i)
		}
		if len(e.Color) != 3 {
			return nil, errors.Errorf("Resource %d (%q) color must have 3 components, got %d", i, e.URL, len(e.Color))
		}
		c = append(c, Descriptor{
			Index: i,
			URL:   e.URL,
			Color: utils.NewColorRGB(e.Color),
		})
	}
	return c, nil
}

func Load(path string) (Catalog, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read catalog %q", path)
	}
	return Parse(data)
}

// Get returns the descriptor at index.
func (c Catalog) Get(index int) (Descriptor, bool) {
	if index < 0 || index >= len(c) {
		return Descriptor{}, false
	}
	return c[index], true
}

// Label is the final path segment of url, without query or fragment.
func Label(url string) string {
	parts := strings.Split(utils.StripQuery(url), "/")
	return parts[len(parts)-1]
}
