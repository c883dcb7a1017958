package panel

import (
	"log"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/meshview/scene"
)

const (
	EventVisibility     = "visibility"
	EventOpacity        = "opacity"
	EventRepresentation = "representation"
	EventAR             = "ar"
	EventVR             = "vr"
	EventXRSupport      = "xr-support"
)

var ErrUnknownControl = errors.New("Unknown control")

// Event is a user interaction reported by a viewer.
type Event struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Value string `json:"value"`
}

type Dispatcher interface {
	Dispatch(cmd scene.Command) bool
}

// SupportReporter receives xr support reported by viewers.
type SupportReporter interface {
	SetSupported(v bool)
}

type controlHandlers struct {
	visibility func(v bool) error
	opacity    func(v float64) error
}

// Binder turns panel events into scene commands. It holds no scene state
// of its own.
type Binder struct {
	panel      *Panel
	dispatcher Dispatcher
	handlers   map[int]controlHandlers
	support    SupportReporter
}

// Bind attaches a visibility and an opacity handler to every control group
// of p.
func Bind(p *Panel, d Dispatcher) *Binder {
	b := &Binder{
		panel:      p,
		dispatcher: d,
		handlers:   make(map[int]controlHandlers, p.Len()),
	}
	for _, g := range p.Groups() {
		index := g.Index
		b.handlers[index] = controlHandlers{
			visibility: func(v bool) error {
				p.setVisible(index, v)
				return b.dispatch(scene.SetVisibility{Index: index, Visible: v})
			},
			opacity: func(v float64) error {
				p.setOpacity(index, v)
				return b.dispatch(scene.SetOpacity{Index: index, Opacity: float32(v)})
			},
		}
	}
	return b
}

func (b *Binder) SetSupportReporter(r SupportReporter) {
	b.support = r
}

func (b *Binder) dispatch(cmd scene.Command) error {
	if !b.dispatcher.Dispatch(cmd) {
		return errors.New("Scene is not running")
	}
	return nil
}

func (b *Binder) control(index int) (controlHandlers, error) {
	h, ok := b.handlers[index]
	if !ok {
		return h, errors.Wrapf(ErrUnknownControl, "index %d", index)
	}
	return h, nil
}

func ParseOpacity(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "Invalid opacity %q", s)
	}
	if !(v >= OpacityMin && v <= OpacityMax) {
		return 0, errors.Errorf("Opacity %v out of range [%v, %v]", v, OpacityMin, OpacityMax)
	}
	return v, nil
}

func (b *Binder) Handle(ev Event) error {
	switch ev.Type {
	case EventVisibility:
		h, err := b.control(ev.Index)
		if err != nil {
			return err
		}
		v, err := strconv.ParseBool(strings.TrimSpace(ev.Value))
		if err != nil {
			return errors.Wrapf(err, "Invalid visibility %q", ev.Value)
		}
		return h.visibility(v)
	case EventOpacity:
		h, err := b.control(ev.Index)
		if err != nil {
			return err
		}
		v, err := ParseOpacity(ev.Value)
		if err != nil {
			return err
		}
		return h.opacity(v)
	case EventRepresentation:
		r, err := scene.ParseRepresentation(ev.Value)
		if err != nil {
			return err
		}
		b.panel.setRepresentation(r)
		return b.dispatch(scene.SetRepresentation{Representation: r})
	case EventAR:
		if b.panel.AR == nil {
			return errors.Wrap(ErrUnknownControl, "ar")
		}
		return b.panel.AR.Click()
	case EventVR:
		if b.panel.VR == nil {
			return errors.Wrap(ErrUnknownControl, "vr")
		}
		return b.panel.VR.Click()
	case EventXRSupport:
		v, err := strconv.ParseBool(strings.TrimSpace(ev.Value))
		if err != nil {
			return errors.Wrapf(err, "Invalid xr support %q", ev.Value)
		}
		if b.support != nil {
			b.support.SetSupported(v)
		}
		log.Printf("[panel] viewer reports xr support: %v", v)
		return nil
	}
	return errors.Errorf("Unknown event type %q", ev.Type)
}
