package xr

import (
	"sync"
)

// Publisher broadcasts a message of the given kind to connected viewers.
type Publisher interface {
	Publish(kind string, v interface{})
}

// Request is what viewers receive when a session must start or stop.
type Request struct {
	Action  string      `json:"action"`
	Session SessionType `json:"session"`
}

// RemoteHelper forwards session requests to the browsers. Support is
// whatever the last viewer reported.
type RemoteHelper struct {
	mu        sync.Mutex
	publisher Publisher
	kind      string
	supported bool
}

func NewRemoteHelper(p Publisher, kind string) *RemoteHelper {
	return &RemoteHelper{publisher: p, kind: kind}
}

func (h *RemoteHelper) SetSupported(v bool) {
	h.mu.Lock()
	h.supported = v
	h.mu.Unlock()
}

func (h *RemoteHelper) Supported() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.supported
}

func (h *RemoteHelper) StartXR(t SessionType) error {
	h.publisher.Publish(h.kind, &Request{Action: "start", Session: t})
	return nil
}

func (h *RemoteHelper) StopXR() error {
	h.publisher.Publish(h.kind, &Request{Action: "stop"})
	return nil
}
