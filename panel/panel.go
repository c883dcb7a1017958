// Package panel generates the per-resource controls of the viewer and
// relays their events to the scene.
package panel

import (
	"sync"

	"github.com/mogaika/meshview/catalog"
	"github.com/mogaika/meshview/scene"
	"github.com/mogaika/meshview/xr"
)

const (
	OpacityMin  = 0.0
	OpacityMax  = 1.0
	OpacityStep = 0.1
)

// ControlGroup is the visibility checkbox and opacity slider of one
// catalog resource.
type ControlGroup struct {
	Index   int     `json:"index"`
	Label   string  `json:"label"`
	Visible bool    `json:"visible"`
	Opacity float64 `json:"opacity"`
}

type Panel struct {
	mu             sync.Mutex
	groups         []ControlGroup
	representation scene.Representation

	AR *xr.Toggle
	VR *xr.Toggle
}

// Generate builds one control group per descriptor, in catalog order. It
// only needs the catalog, so the panel exists before any load finished.
func Generate(c catalog.Catalog) *Panel {
	p := &Panel{
		groups:         make([]ControlGroup, len(c)),
		representation: scene.Surface,
	}
	for i, d := range c {
		p.groups[i] = ControlGroup{
			Index:   d.Index,
			Label:   d.Label(),
			Visible: true,
			Opacity: OpacityMax,
		}
	}
	return p
}

// SetXR attaches the session buttons.
func (p *Panel) SetXR(ar, vr *xr.Toggle) {
	p.AR = ar
	p.VR = vr
}

func (p *Panel) Len() int {
	return len(p.groups)
}

func (p *Panel) Groups() []ControlGroup {
	p.mu.Lock()
	defer p.mu.Unlock()
	groups := make([]ControlGroup, len(p.groups))
	copy(groups, p.groups)
	return groups
}

func (p *Panel) Group(index int) (ControlGroup, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.groups) {
		return ControlGroup{}, false
	}
	return p.groups[index], true
}

func (p *Panel) Representation() scene.Representation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.representation
}

func (p *Panel) setVisible(index int, v bool) {
	p.mu.Lock()
	p.groups[index].Visible = v
	p.mu.Unlock()
}

func (p *Panel) setOpacity(index int, v float64) {
	p.mu.Lock()
	p.groups[index].Opacity = v
	p.mu.Unlock()
}

func (p *Panel) setRepresentation(r scene.Representation) {
	p.mu.Lock()
	p.representation = r
	p.mu.Unlock()
}

type State struct {
	Groups         []ControlGroup       `json:"groups"`
	Representation scene.Representation `json:"representation"`
	AR             *xr.State            `json:"ar,omitempty"`
	VR             *xr.State            `json:"vr,omitempty"`
}

func (p *Panel) State() State {
	st := State{
		Groups:         p.Groups(),
		Representation: p.Representation(),
	}
	if p.AR != nil {
		ar := p.AR.State()
		st.AR = &ar
	}
	if p.VR != nil {
		vr := p.VR.State()
		st.VR = &vr
	}
	return st
}
