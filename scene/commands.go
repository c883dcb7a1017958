package scene

import (
	"github.com/mogaika/meshview/catalog"
	"github.com/mogaika/meshview/mesh"
)

// Command is a scene mutation consumed by Scene.Apply.
type Command interface {
	command()
}

// Loaded inserts a successfully decoded resource.
type Loaded struct {
	Descriptor catalog.Descriptor
	Geometry   *mesh.Geometry
}

// LoadFailed records that a resource will never be available.
type LoadFailed struct {
	Descriptor catalog.Descriptor
	Err        error
}

type SetVisibility struct {
	Index   int
	Visible bool
}

type SetOpacity struct {
	Index   int
	Opacity float32
}

// SetRepresentation applies to every drawable, present and future.
type SetRepresentation struct {
	Representation Representation
}

type barrier chan struct{}

func (Loaded) command()            {}
func (LoadFailed) command()        {}
func (SetVisibility) command()     {}
func (SetOpacity) command()        {}
func (SetRepresentation) command() {}
func (barrier) command()           {}
