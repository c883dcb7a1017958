// Package view is a headless renderer: it tracks which drawables are in
// the scene, frames the camera around them and publishes a snapshot of
// every rendered frame to the browser viewers.
package view

import (
	"strconv"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/meshview/mesh"
	"github.com/mogaika/meshview/scene"
	"github.com/mogaika/meshview/utils"
)

const (
	FieldOfView  = 30
	defaultPitch = 20
	defaultYaw   = 0
)

// FrameSink receives rendered frames.
type FrameSink interface {
	PublishFrame(f *Frame)
}

type FrameCamera struct {
	Target   mgl32.Vec3 `json:"target"`
	Position mgl32.Vec3 `json:"position"`
	Distance float32    `json:"distance"`
	FovY     float32    `json:"fovY"`
	View     mgl32.Mat4 `json:"view"`
}

type FrameDrawable struct {
	ID             string               `json:"id"`
	Index          int                  `json:"index"`
	Name           string               `json:"name"`
	Mesh           string               `json:"mesh"`
	Color          utils.ColorRGB       `json:"color"`
	Opacity        float32              `json:"opacity"`
	Representation scene.Representation `json:"representation"`
}

type Frame struct {
	Seq       uint64          `json:"seq"`
	Camera    FrameCamera     `json:"camera"`
	Drawables []FrameDrawable `json:"drawables"`
}

// Renderer is called from the scene goroutine only; Latest may be called
// from anywhere.
type Renderer struct {
	members []*scene.Drawable
	camera  *Orbit
	sink    FrameSink

	mu     sync.Mutex
	seq    uint64
	latest *Frame
}

func NewRenderer(sink FrameSink) *Renderer {
	return &Renderer{
		camera: NewOrbit(mgl32.Vec3{}, 1, defaultPitch, defaultYaw),
		sink:   sink,
	}
}

func (r *Renderer) indexOf(d *scene.Drawable) int {
	for i, m := range r.members {
		if m == d {
			return i
		}
	}
	return -1
}

func (r *Renderer) AddDrawable(d *scene.Drawable) {
	if r.indexOf(d) < 0 {
		r.members = append(r.members, d)
	}
}

func (r *Renderer) RemoveDrawable(d *scene.Drawable) {
	if i := r.indexOf(d); i >= 0 {
		r.members = append(r.members[:i], r.members[i+1:]...)
	}
}

// Members returns the drawables currently in the scene in insertion order.
func (r *Renderer) Members() []*scene.Drawable {
	return append([]*scene.Drawable(nil), r.members...)
}

func (r *Renderer) Camera() Orbit {
	return *r.camera
}

func (r *Renderer) ResetView() {
	var bbox mesh.BBox
	found := false
	for _, d := range r.members {
		b, ok := d.Geometry.Bounds()
		if !ok {
			continue
		}
		if !found {
			bbox = b
			found = true
		} else {
			bbox.Expand(b)
		}
	}
	if !found {
		r.camera.Fit(mgl32.Vec3{}, 1, FieldOfView)
		return
	}
	r.camera.Fit(bbox.Center(), bbox.Radius(), FieldOfView)
}

func (r *Renderer) RenderFrame() {
	f := &Frame{
		Camera: FrameCamera{
			Target:   r.camera.Target,
			Position: r.camera.Position(),
			Distance: r.camera.Distance,
			FovY:     FieldOfView,
			View:     r.camera.ViewMatrix(),
		},
		Drawables: make([]FrameDrawable, 0, len(r.members)),
	}
	for _, d := range r.members {
		f.Drawables = append(f.Drawables, FrameDrawable{
			ID:             d.ID.String(),
			Index:          d.Index,
			Name:           d.Name,
			Mesh:           MeshPath(d.Index),
			Color:          d.Color,
			Opacity:        d.Opacity,
			Representation: d.Representation,
		})
	}

	r.mu.Lock()
	r.seq++
	f.Seq = r.seq
	r.latest = f
	r.mu.Unlock()

	if r.sink != nil {
		r.sink.PublishFrame(f)
	}
}

// Latest returns the last rendered frame, nil before the first one.
func (r *Renderer) Latest() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

// MeshPath is where the viewer downloads geometry of a drawable.
func MeshPath(index int) string {
	return "/mesh/" + strconv.Itoa(index)
}
