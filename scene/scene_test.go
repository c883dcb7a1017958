package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/meshview/catalog"
	"github.com/mogaika/meshview/mesh"
	"github.com/mogaika/meshview/utils"
)

type recordingRenderer struct {
	members map[uuid.UUID]int
	adds    int
	removes int
	resets  int
	renders int
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{members: make(map[uuid.UUID]int)}
}

func (r *recordingRenderer) AddDrawable(d *Drawable)    { r.adds++; r.members[d.ID]++ }
func (r *recordingRenderer) RemoveDrawable(d *Drawable) { r.removes++; r.members[d.ID]-- }
func (r *recordingRenderer) ResetView()                 { r.resets++ }
func (r *recordingRenderer) RenderFrame()               { r.renders++ }

func testCatalog(n int) catalog.Catalog {
	c := make(catalog.Catalog, n)
	for i := range c {
		c[i] = catalog.Descriptor{
			Index: i,
			URL:   fmt.Sprintf("meshes/part%d.obj", i),
			Color: utils.ColorRGB{1, float32(i) / 10, 0},
		}
	}
	return c
}

func testGeometry() *mesh.Geometry {
	return &mesh.Geometry{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:   []uint32{0, 1, 2},
	}
}

func TestRegistryHoldsExactlySuccessfulLoads(t *testing.T) {
	for n := 0; n <= 6; n++ {
		ren := newRecordingRenderer()
		s := New(n, ren)
		c := testCatalog(n)

		expected := []int{}
		for _, d := range c {
			if d.Index%3 == 1 {
				require.NoError(t, s.Apply(LoadFailed{Descriptor: d, Err: errors.New("404")}))
			} else {
				require.NoError(t, s.Apply(Loaded{Descriptor: d, Geometry: testGeometry()}))
				expected = append(expected, d.Index)
			}
		}

		assert.Equal(t, expected, s.Registry().Indices(), "n=%d", n)
		assert.Equal(t, len(expected), ren.renders, "one render per successful load")
		for _, slot := range s.Registry().Slots() {
			if slot.Index%3 == 1 {
				assert.Equal(t, SlotFailed, slot.State)
				assert.Nil(t, slot.Drawable)
			} else {
				assert.Equal(t, SlotReady, slot.State)
			}
		}
	}
}

func TestLoadedDrawableProperties(t *testing.T) {
	ren := newRecordingRenderer()
	s := New(1, ren)
	d := catalog.Descriptor{Index: 0, URL: "a/b/vessels.glb", Color: utils.ColorRGB{1.2, 0.1, 0.1}}
	require.NoError(t, s.Apply(Loaded{Descriptor: d, Geometry: testGeometry()}))

	dr, ok := s.Registry().Get(0)
	require.True(t, ok)
	assert.Equal(t, "vessels.glb", dr.Name)
	assert.Equal(t, utils.ColorRGB{1.2, 0.1, 0.1}, dr.Color)
	assert.Equal(t, float32(1), dr.Opacity)
	assert.Equal(t, Surface, dr.Representation)
	assert.True(t, dr.Visible())
	assert.Equal(t, 1, ren.members[dr.ID])
	assert.Equal(t, 1, ren.resets)
}

func TestDuplicateLoadRejected(t *testing.T) {
	s := New(1, newRecordingRenderer())
	d := testCatalog(1)[0]
	require.NoError(t, s.Apply(Loaded{Descriptor: d, Geometry: testGeometry()}))
	assert.Error(t, s.Apply(Loaded{Descriptor: d, Geometry: testGeometry()}))
	assert.Error(t, s.Apply(LoadFailed{Descriptor: d, Err: errors.New("late")}))
	assert.Equal(t, 1, s.Registry().Len())
}

func TestToggleMissingEntryIsNoop(t *testing.T) {
	ren := newRecordingRenderer()
	s := New(2, ren)
	require.NoError(t, s.Apply(LoadFailed{Descriptor: testCatalog(2)[1], Err: errors.New("decode")}))

	for _, index := range []int{0, 1, 7, -1} {
		assert.NoError(t, s.Apply(SetVisibility{Index: index, Visible: false}))
		assert.NoError(t, s.Apply(SetOpacity{Index: index, Opacity: 0.3}))
	}
	assert.Equal(t, 0, ren.adds+ren.removes+ren.resets+ren.renders)
	assert.Equal(t, 0, s.Registry().Len())
}

func TestVisibilityOffThenOnRestoresOnce(t *testing.T) {
	ren := newRecordingRenderer()
	s := New(1, ren)
	require.NoError(t, s.Apply(Loaded{Descriptor: testCatalog(1)[0], Geometry: testGeometry()}))
	d, _ := s.Registry().Get(0)

	require.NoError(t, s.Apply(SetVisibility{Index: 0, Visible: false}))
	assert.Equal(t, 0, ren.members[d.ID])
	assert.False(t, d.Visible())

	require.NoError(t, s.Apply(SetVisibility{Index: 0, Visible: true}))
	require.NoError(t, s.Apply(SetVisibility{Index: 0, Visible: true}))
	assert.Equal(t, 1, ren.members[d.ID])
	assert.Equal(t, 2, ren.adds)
	assert.Equal(t, 1, ren.removes)
	// load + off + on
	assert.Equal(t, 3, ren.resets)
	assert.Equal(t, 3, ren.renders)
}

func TestOpacityIsPerDrawable(t *testing.T) {
	ren := newRecordingRenderer()
	s := New(3, ren)
	for _, d := range testCatalog(3) {
		require.NoError(t, s.Apply(Loaded{Descriptor: d, Geometry: testGeometry()}))
	}

	for i := 0; i <= 10; i++ {
		v := float32(i) / 10
		before := ren.renders
		require.NoError(t, s.Apply(SetOpacity{Index: 1, Opacity: v}))
		assert.Equal(t, before+1, ren.renders)

		d1, _ := s.Registry().Get(1)
		assert.Equal(t, v, d1.Opacity)
		for _, other := range []int{0, 2} {
			d, _ := s.Registry().Get(other)
			assert.Equal(t, float32(1), d.Opacity)
		}
	}
}

func TestScenarioOneSucceedsOneFails(t *testing.T) {
	ren := newRecordingRenderer()
	s := New(2, ren)
	c := testCatalog(2)

	require.NoError(t, s.Apply(Loaded{Descriptor: c[0], Geometry: testGeometry()}))
	require.NoError(t, s.Apply(LoadFailed{Descriptor: c[1], Err: errors.New("404")}))

	assert.Equal(t, []int{0}, s.Registry().Indices())
	_, ok := s.Registry().Get(1)
	assert.False(t, ok)

	renders := ren.renders
	require.NoError(t, s.Apply(SetVisibility{Index: 1, Visible: false}))
	assert.Equal(t, renders, ren.renders)

	handleA, _ := s.Registry().Get(0)
	require.NoError(t, s.Apply(SetVisibility{Index: 0, Visible: false}))
	assert.Equal(t, 0, ren.members[handleA.ID])
	require.NoError(t, s.Apply(SetVisibility{Index: 0, Visible: true}))
	assert.Equal(t, 1, ren.members[handleA.ID])
}

func TestReverseCompletionOrder(t *testing.T) {
	s := New(2, newRecordingRenderer())
	c := testCatalog(2)

	require.NoError(t, s.Apply(Loaded{Descriptor: c[1], Geometry: testGeometry()}))
	require.NoError(t, s.Apply(Loaded{Descriptor: c[0], Geometry: testGeometry()}))

	for _, d := range c {
		dr, ok := s.Registry().Get(d.Index)
		require.True(t, ok)
		assert.Equal(t, d.Index, dr.Index)
		assert.Equal(t, d.Color, dr.Color)
	}
}

func TestIntentBeforeLoadIsApplied(t *testing.T) {
	ren := newRecordingRenderer()
	s := New(2, ren)
	c := testCatalog(2)

	require.NoError(t, s.Apply(SetVisibility{Index: 0, Visible: false}))
	require.NoError(t, s.Apply(SetOpacity{Index: 1, Opacity: 0.4}))
	assert.Equal(t, SlotPending, s.Registry().Slot(0).State)

	require.NoError(t, s.Apply(Loaded{Descriptor: c[0], Geometry: testGeometry()}))
	require.NoError(t, s.Apply(Loaded{Descriptor: c[1], Geometry: testGeometry()}))

	d0, _ := s.Registry().Get(0)
	d1, _ := s.Registry().Get(1)
	assert.False(t, d0.Visible())
	assert.Equal(t, 0, ren.members[d0.ID])
	assert.Equal(t, float32(0.4), d1.Opacity)
	assert.Equal(t, 1, ren.members[d1.ID])

	require.NoError(t, s.Apply(SetVisibility{Index: 0, Visible: true}))
	assert.Equal(t, 1, ren.members[d0.ID])
}

func TestRepresentation(t *testing.T) {
	ren := newRecordingRenderer()
	s := New(2, ren)
	c := testCatalog(2)
	require.NoError(t, s.Apply(Loaded{Descriptor: c[0], Geometry: testGeometry()}))

	require.NoError(t, s.Apply(SetRepresentation{Representation: Wireframe}))
	d0, _ := s.Registry().Get(0)
	assert.Equal(t, Wireframe, d0.Representation)

	require.NoError(t, s.Apply(Loaded{Descriptor: c[1], Geometry: testGeometry()}))
	d1, _ := s.Registry().Get(1)
	assert.Equal(t, Wireframe, d1.Representation)

	assert.Error(t, s.Apply(SetRepresentation{Representation: Representation(9)}))
	assert.Equal(t, "points", Points.String())
}

func TestRunDispatchFlush(t *testing.T) {
	ren := newRecordingRenderer()
	s := New(1, ren)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	assert.True(t, s.Dispatch(Loaded{Descriptor: testCatalog(1)[0], Geometry: testGeometry()}))
	assert.True(t, s.Dispatch(SetOpacity{Index: 0, Opacity: 0.5}))

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	require.NoError(t, s.Flush(flushCtx))

	states := s.Registry().States()
	require.Len(t, states, 1)
	assert.Equal(t, float32(0.5), states[0].Opacity)
	assert.True(t, states[0].Visible)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	assert.False(t, s.Dispatch(SetOpacity{Index: 0, Opacity: 1}))
	assert.Error(t, s.Flush(context.Background()))
}

func TestParseRepresentation(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Representation
		ok   bool
	}{
		{"points", Points, true},
		{"Wireframe", Wireframe, true},
		{"2", Surface, true},
		{"0", Points, true},
		{"3", 0, false},
		{"-1", 0, false},
		{"mesh", 0, false},
	} {
		got, err := ParseRepresentation(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("ParseRepresentation(%q) error = %v", tc.in, err)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseRepresentation(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSlotStateJSON(t *testing.T) {
	for _, state := range []SlotState{SlotUnknown, SlotPending, SlotReady, SlotFailed} {
		data, err := json.Marshal(Slot{Index: 3, State: state})
		require.NoError(t, err)

		var out Slot
		require.NoError(t, json.Unmarshal(data, &out))
		if out.State != state || out.Index != 3 {
			t.Errorf("%s decoded as %+v", data, out)
		}
	}

	var out SlotState
	assert.Error(t, out.UnmarshalText([]byte("loading")))
}
