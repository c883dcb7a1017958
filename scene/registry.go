package scene

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

type SlotState int

const (
	SlotUnknown SlotState = iota
	SlotPending
	SlotReady
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotPending:
		return "pending"
	case SlotReady:
		return "ready"
	case SlotFailed:
		return "failed"
	}
	return "unknown"
}

func (s SlotState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SlotState) UnmarshalText(text []byte) error {
	for state := SlotUnknown; state <= SlotFailed; state++ {
		if state.String() == string(text) {
			*s = state
			return nil
		}
	}
	return errors.Errorf("Unknown slot state %q", text)
}

// Slot describes one catalog index from the registry point of view.
type Slot struct {
	Index    int       `json:"index"`
	State    SlotState `json:"state"`
	Drawable *Drawable `json:"-"`
	Err      error     `json:"-"`
}

// Registry maps catalog indices to loaded drawables. An index has an
// entry only after its load succeeded; failed and pending indices are
// absent.
type Registry struct {
	mu        sync.RWMutex
	size      int
	drawables map[int]*Drawable
	failures  map[int]error
}

func NewRegistry(size int) *Registry {
	return &Registry{
		size:      size,
		drawables: make(map[int]*Drawable),
		failures:  make(map[int]error),
	}
}

// Size is the catalog length the registry was created for.
func (r *Registry) Size() int {
	return r.size
}

func (r *Registry) Get(index int) (*Drawable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drawables[index]
	return d, ok
}

func (r *Registry) Slot(index int) Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slot(index)
}

func (r *Registry) slot(index int) Slot {
	if index < 0 || index >= r.size {
		return Slot{Index: index, State: SlotUnknown}
	}
	if d, ok := r.drawables[index]; ok {
		return Slot{Index: index, State: SlotReady, Drawable: d}
	}
	if err, ok := r.failures[index]; ok {
		return Slot{Index: index, State: SlotFailed, Err: err}
	}
	return Slot{Index: index, State: SlotPending}
}

// Slots returns every catalog index in order.
func (r *Registry) Slots() []Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slots := make([]Slot, r.size)
	for i := range slots {
		slots[i] = r.slot(i)
	}
	return slots
}

// Len is the number of ready entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drawables)
}

// Indices of ready entries in ascending order.
func (r *Registry) Indices() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	indices := make([]int, 0, len(r.drawables))
	for index := range r.drawables {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

// State copies the drawable at index if it is ready.
func (r *Registry) State(index int) (DrawableState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drawables[index]
	if !ok {
		return DrawableState{}, false
	}
	return d.State(), true
}

// States copies ready drawables in index order.
func (r *Registry) States() []DrawableState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	states := make([]DrawableState, 0, len(r.drawables))
	for _, d := range r.drawables {
		states = append(states, d.State())
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Index < states[j].Index
	})
	return states
}

func (r *Registry) insert(d *Drawable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch s := r.slot(d.Index); s.State {
	case SlotPending:
		r.drawables[d.Index] = d
		return nil
	default:
		return errors.Errorf("Cannot insert drawable %d: slot is %v", d.Index, s.State)
	}
}

func (r *Registry) fail(index int, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch s := r.slot(index); s.State {
	case SlotPending:
		r.failures[index] = err
		return nil
	default:
		return errors.Errorf("Cannot mark %d failed: slot is %v", index, s.State)
	}
}

// update runs fn on a ready drawable under the write lock.
func (r *Registry) update(index int, fn func(d *Drawable)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drawables[index]
	if ok {
		fn(d)
	}
	return ok
}

func (r *Registry) updateAll(fn func(d *Drawable)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drawables {
		fn(d)
	}
}
