// Package scene owns the loaded drawables and is the only place that
// changes what the renderer shows.
package scene

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Renderer is the drawing collaborator.
type Renderer interface {
	AddDrawable(d *Drawable)
	RemoveDrawable(d *Drawable)
	// ResetView frames the camera around the visible drawables.
	ResetView()
	RenderFrame()
}

// intent keeps UI changes that arrived before the drawable existed
type intent struct {
	visible *bool
	opacity *float32
}

type Scene struct {
	registry       *Registry
	renderer       Renderer
	representation Representation
	intents        map[int]*intent

	commands chan Command
	done     chan struct{}
}

func New(size int, renderer Renderer) *Scene {
	return &Scene{
		registry:       NewRegistry(size),
		renderer:       renderer,
		representation: Surface,
		intents:        make(map[int]*intent),
		commands:       make(chan Command, 64),
		done:           make(chan struct{}),
	}
}

func (s *Scene) Registry() *Registry {
	return s.registry
}

// Apply performs one command. It must only be called from a single
// goroutine, normally the one running Run.
func (s *Scene) Apply(cmd Command) error {
	switch c := cmd.(type) {
	case Loaded:
		return s.loaded(c)
	case LoadFailed:
		return s.loadFailed(c)
	case SetVisibility:
		s.setVisibility(c)
	case SetOpacity:
		s.setOpacity(c)
	case SetRepresentation:
		return s.setRepresentation(c)
	case barrier:
		close(c)
	default:
		return errors.Errorf("Unknown command %T", cmd)
	}
	return nil
}

func (s *Scene) loaded(c Loaded) error {
	if c.Geometry == nil {
		return errors.Errorf("Resource %d (%q) loaded without geometry", c.Descriptor.Index, c.Descriptor.URL)
	}

	d := &Drawable{
		ID:             uuid.New(),
		Index:          c.Descriptor.Index,
		Name:           c.Descriptor.Label(),
		Geometry:       c.Geometry,
		Color:          c.Descriptor.Color,
		Opacity:        1.0,
		Representation: s.representation,
	}

	visible := true
	if in, ok := s.intents[d.Index]; ok {
		if in.visible != nil {
			visible = *in.visible
		}
		if in.opacity != nil {
			d.Opacity = *in.opacity
		}
		delete(s.intents, d.Index)
	}

	d.visible = visible
	if err := s.registry.insert(d); err != nil {
		return err
	}

	if visible {
		s.renderer.AddDrawable(d)
	}
	s.renderer.ResetView()
	s.renderer.RenderFrame()
	return nil
}

func (s *Scene) loadFailed(c LoadFailed) error {
	delete(s.intents, c.Descriptor.Index)
	err := c.Err
	if err == nil {
		err = errors.New("unknown failure")
	}
	return s.registry.fail(c.Descriptor.Index, err)
}

func (s *Scene) intentFor(index int) *intent {
	if s.registry.Slot(index).State != SlotPending {
		return nil
	}
	in, ok := s.intents[index]
	if !ok {
		in = &intent{}
		s.intents[index] = in
	}
	return in
}

func (s *Scene) setVisibility(c SetVisibility) {
	var d *Drawable
	var changed bool
	ready := s.registry.update(c.Index, func(dr *Drawable) {
		d = dr
		changed = dr.visible != c.Visible
		dr.visible = c.Visible
	})
	if !ready {
		if in := s.intentFor(c.Index); in != nil {
			visible := c.Visible
			in.visible = &visible
		}
		return
	}
	if !changed {
		return
	}

	if c.Visible {
		s.renderer.AddDrawable(d)
	} else {
		s.renderer.RemoveDrawable(d)
	}
	s.renderer.ResetView()
	s.renderer.RenderFrame()
}

func (s *Scene) setOpacity(c SetOpacity) {
	ready := s.registry.update(c.Index, func(d *Drawable) {
		d.Opacity = c.Opacity
	})
	if !ready {
		if in := s.intentFor(c.Index); in != nil {
			opacity := c.Opacity
			in.opacity = &opacity
		}
		return
	}
	s.renderer.RenderFrame()
}

func (s *Scene) setRepresentation(c SetRepresentation) error {
	if !c.Representation.Valid() {
		return errors.Errorf("Invalid representation %d", c.Representation)
	}
	s.representation = c.Representation
	s.registry.updateAll(func(d *Drawable) {
		d.Representation = c.Representation
	})
	s.renderer.RenderFrame()
	return nil
}

// Run applies dispatched commands until ctx is done.
func (s *Scene) Run(ctx context.Context) error {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-s.commands:
			if err := s.Apply(cmd); err != nil {
				log.Printf("[scene] %v", err)
			}
		}
	}
}

// Dispatch queues cmd for Run. It returns false once Run has stopped.
func (s *Scene) Dispatch(cmd Command) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.commands <- cmd:
		return true
	case <-s.done:
		return false
	}
}

// Flush waits until every command dispatched before it has been applied.
func (s *Scene) Flush(ctx context.Context) error {
	b := make(barrier)
	if !s.Dispatch(b) {
		return errors.New("scene stopped")
	}
	select {
	case <-b:
		return nil
	case <-s.done:
		return errors.New("scene stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}
