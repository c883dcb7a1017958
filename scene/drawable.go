package scene

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mogaika/meshview/mesh"
	"github.com/mogaika/meshview/utils"
)

type Representation int

const (
	Points Representation = iota
	Wireframe
	Surface
)

func (r Representation) String() string {
	switch r {
	case Points:
		return "points"
	case Wireframe:
		return "wireframe"
	case Surface:
		return "surface"
	}
	return "unknown"
}

func (r Representation) Valid() bool {
	return r >= Points && r <= Surface
}

// Drawable is a loaded mesh with its visual properties. Only the scene
// goroutine mutates it.
type Drawable struct {
	ID       uuid.UUID
	Index    int
	Name     string
	Geometry *mesh.Geometry

	Color          utils.ColorRGB
	Opacity        float32
	Representation Representation

	visible bool
}

// Visible reports membership in the active scene.
func (d *Drawable) Visible() bool {
	return d.visible
}

func (d *Drawable) State() DrawableState {
	return DrawableState{
		ID:             d.ID,
		Index:          d.Index,
		Name:           d.Name,
		Color:          d.Color,
		Opacity:        d.Opacity,
		Representation: d.Representation,
		Visible:        d.visible,
		Triangles:      d.Geometry.TrianglesCount(),
		Geometry:       d.Geometry,
	}
}

// DrawableState is a copy of drawable properties safe to hand to other
// goroutines.
type DrawableState struct {
	ID             uuid.UUID      `json:"id"`
	Index          int            `json:"index"`
	Name           string         `json:"name"`
	Color          utils.ColorRGB `json:"color"`
	Opacity        float32        `json:"opacity"`
	Representation Representation `json:"representation"`
	Visible        bool           `json:"visible"`
	Triangles      int            `json:"triangles"`

	// Geometry is shared, it never changes after load.
	Geometry *mesh.Geometry `json:"-"`
}

// ParseRepresentation accepts a representation name or its numeric value.
func ParseRepresentation(s string) (Representation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if v, err := strconv.Atoi(s); err == nil {
		r := Representation(v)
		if !r.Valid() {
			return 0, errors.Errorf("Invalid representation %d", v)
		}
		return r, nil
	}
	for r := Points; r <= Surface; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, errors.Errorf("Unknown representation %q", s)
}
