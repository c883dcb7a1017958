package view

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/meshview/mesh"
	"github.com/mogaika/meshview/scene"
)

type frameCollector struct {
	frames []*Frame
}

func (fc *frameCollector) PublishFrame(f *Frame) {
	fc.frames = append(fc.frames, f)
}

func box(index int, min, max mgl32.Vec3) *scene.Drawable {
	return &scene.Drawable{
		ID:      uuid.New(),
		Index:   index,
		Opacity: 1,
		Geometry: &mesh.Geometry{
			Positions: []mgl32.Vec3{min, max, {min[0], max[1], min[2]}},
			Indices:   []uint32{0, 1, 2},
		},
	}
}

func TestMembershipIsUnique(t *testing.T) {
	r := NewRenderer(nil)
	a := box(0, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	b := box(1, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})

	r.AddDrawable(a)
	r.AddDrawable(b)
	r.AddDrawable(a)
	assert.Equal(t, []*scene.Drawable{a, b}, r.Members())

	r.RemoveDrawable(a)
	r.RemoveDrawable(a)
	assert.Equal(t, []*scene.Drawable{b}, r.Members())
}

func TestResetViewFitsVisibleBounds(t *testing.T) {
	r := NewRenderer(nil)
	r.AddDrawable(box(0, mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))
	r.AddDrawable(box(1, mgl32.Vec3{3, -1, -1}, mgl32.Vec3{5, 1, 1}))
	r.ResetView()

	cam := r.Camera()
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, cam.Target)
	radius := mgl32.Vec3{6, 2, 2}.Len() * 0.5
	assert.InDelta(t, radius/0.258819, cam.Distance, 0.01)
	assert.InDelta(t, cam.Distance, cam.Position().Sub(cam.Target).Len(), 0.01)

	empty := NewRenderer(nil)
	empty.ResetView()
	assert.Equal(t, mgl32.Vec3{}, empty.Camera().Target)
}

func TestRenderFramePublishesSnapshot(t *testing.T) {
	fc := &frameCollector{}
	r := NewRenderer(fc)
	assert.Nil(t, r.Latest())

	d := box(3, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	d.Opacity = 0.3
	d.Representation = scene.Wireframe
	r.AddDrawable(d)
	r.RenderFrame()
	r.RenderFrame()

	require.Len(t, fc.frames, 2)
	f := r.Latest()
	assert.Equal(t, uint64(2), f.Seq)
	require.Len(t, f.Drawables, 1)
	assert.Equal(t, "/mesh/3", f.Drawables[0].Mesh)
	assert.Equal(t, float32(0.3), f.Drawables[0].Opacity)
	assert.Equal(t, scene.Wireframe, f.Drawables[0].Representation)
	assert.Equal(t, d.ID.String(), f.Drawables[0].ID)
}

func TestFrameViewLooksAtTarget(t *testing.T) {
	r := NewRenderer(nil)
	r.AddDrawable(box(0, mgl32.Vec3{2, 2, 2}, mgl32.Vec3{4, 4, 4}))
	r.ResetView()
	r.RenderFrame()

	f := r.Latest()
	eye := f.Camera.View.Mul4x1(f.Camera.Target.Vec4(1))
	assert.InDelta(t, 0, eye.X(), 0.01)
	assert.InDelta(t, 0, eye.Y(), 0.01)
	assert.InDelta(t, -f.Camera.Distance, eye.Z(), 0.01)
}
