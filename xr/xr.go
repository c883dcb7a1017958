// Package xr drives the AR and VR session buttons of the viewer.
package xr

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type SessionType int

const (
	HmdVR SessionType = iota
	MobileAR
	LookingGlassVR
	HmdAR
)

var sessionNames = map[SessionType]string{
	HmdVR:          "hmd-vr",
	MobileAR:       "mobile-ar",
	LookingGlassVR: "lookingglass-vr",
	HmdAR:          "hmd-ar",
}

func (t SessionType) String() string {
	if name, ok := sessionNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t SessionType) IsAR() bool {
	return t == MobileAR || t == HmdAR
}

func (t SessionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *SessionType) UnmarshalText(text []byte) error {
	v, err := ParseSessionType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func ParseSessionType(s string) (SessionType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range sessionNames {
		if name == s {
			return t, nil
		}
	}
	return 0, errors.Errorf("Unknown xr session type %q", s)
}

// Helper starts and stops immersive sessions on the viewing device.
type Helper interface {
	Supported() bool
	StartXR(t SessionType) error
	StopXR() error
}

type labels struct {
	start string
	stop  string
}

// Toggle is one session button. Its label flips with the session state.
type Toggle struct {
	mu      sync.Mutex
	helper  Helper
	session SessionType
	labels  labels
	gated   bool
	active  bool
}

// NewARToggle returns the AR button for the requested session type. It is
// disabled while the helper reports no XR support.
func NewARToggle(h Helper, requested SessionType) *Toggle {
	return &Toggle{
		helper:  h,
		session: requested,
		labels:  labels{start: "Start AR", stop: "Exit AR"},
		gated:   true,
	}
}

func NewVRToggle(h Helper) *Toggle {
	return &Toggle{
		helper:  h,
		session: HmdVR,
		labels:  labels{start: "Send To VR", stop: "Return From VR"},
	}
}

func (t *Toggle) Label() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		return t.labels.stop
	}
	return t.labels.start
}

func (t *Toggle) Enabled() bool {
	if !t.gated {
		return true
	}
	return t.helper.Supported()
}

func (t *Toggle) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Toggle) Session() SessionType {
	return t.session
}

// Click starts the session when inactive and stops it otherwise. The state
// only flips when the helper succeeds.
func (t *Toggle) Click() error {
	if !t.Enabled() {
		return errors.Errorf("%s session is not supported", t.session)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		if err := t.helper.StopXR(); err != nil {
			return errors.Wrapf(err, "Failed to stop %s session", t.session)
		}
	} else {
		if err := t.helper.StartXR(t.session); err != nil {
			return errors.Wrapf(err, "Failed to start %s session", t.session)
		}
	}
	t.active = !t.active
	return nil
}

// State is the button as shown to viewers.
type State struct {
	Label   string      `json:"label"`
	Enabled bool        `json:"enabled"`
	Active  bool        `json:"active"`
	Session SessionType `json:"session"`
}

func (t *Toggle) State() State {
	return State{
		Label:   t.Label(),
		Enabled: t.Enabled(),
		Active:  t.Active(),
		Session: t.session,
	}
}
