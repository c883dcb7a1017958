package web

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/meshview/panel"
	"github.com/mogaika/meshview/scene"
	"github.com/mogaika/meshview/utils"
	"github.com/mogaika/meshview/webutils"
)

func (s *Server) HandlerAjaxCatalog(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.Catalog)
}

func (s *Server) HandlerAjaxPanel(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.Panel.State())
}

type sceneSlot struct {
	Index int             `json:"index"`
	State scene.SlotState `json:"state"`
	Error string          `json:"error,omitempty"`
}

type sceneResult struct {
	Slots     []sceneSlot           `json:"slots"`
	Drawables []scene.DrawableState `json:"drawables"`
}

func (s *Server) sceneSnapshot() *sceneResult {
	slots := s.Registry.Slots()
	res := &sceneResult{
		Slots:     make([]sceneSlot, len(slots)),
		Drawables: s.Registry.States(),
	}
	for i, slot := range slots {
		res.Slots[i] = sceneSlot{Index: slot.Index, State: slot.State}
		if slot.Err != nil {
			res.Slots[i].Error = slot.Err.Error()
		}
	}
	return res
}

func (s *Server) HandlerAjaxScene(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.sceneSnapshot())
}

func (s *Server) HandlerAjaxFrame(w http.ResponseWriter, r *http.Request) {
	f := s.Renderer.Latest()
	if f == nil {
		webutils.WriteErrorStatus(w, http.StatusNotFound, errors.New("Nothing rendered yet"))
		return
	}
	webutils.WriteJson(w, f)
}

func (s *Server) HandlerMesh(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Invalid index"))
		return
	}
	st, ok := s.Registry.State(index)
	if !ok {
		webutils.WriteErrorStatus(w, http.StatusNotFound,
			errors.Errorf("Mesh %d is %v", index, s.Registry.Slot(index).State))
		return
	}

	var buf bytes.Buffer
	if err := st.Geometry.ExportGLB(&buf, st.Name, st.Color.RGBA(st.Opacity)); err != nil {
		webutils.WriteErrorStatus(w, http.StatusInternalServerError, errors.Wrapf(err, "Failed to export mesh %d", index))
		return
	}
	webutils.WriteFile(w, &buf, st.Name+".glb", "model/gltf-binary")
}

func (s *Server) handleEvent(w http.ResponseWriter, ev panel.Event) {
	if err := s.Binder.Handle(ev); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, panel.ErrUnknownControl) {
			code = http.StatusNotFound
		}
		webutils.WriteErrorStatus(w, code, err)
		return
	}
	webutils.WriteJson(w, s.Panel.State())
}

func (s *Server) HandlerActionControl(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Invalid index"))
		return
	}

	var evType string
	switch vars["control"] {
	case "visibility":
		evType = panel.EventVisibility
	case "opacity":
		evType = panel.EventOpacity
	default:
		webutils.WriteErrorStatus(w, http.StatusNotFound, errors.Errorf("Unknown control %q", vars["control"]))
		return
	}
	s.handleEvent(w, panel.Event{Type: evType, Index: index, Value: r.URL.Query().Get("value")})
}

func (s *Server) HandlerActionRepresentation(w http.ResponseWriter, r *http.Request) {
	s.handleEvent(w, panel.Event{Type: panel.EventRepresentation, Value: r.URL.Query().Get("value")})
}

func (s *Server) HandlerActionXR(w http.ResponseWriter, r *http.Request) {
	switch kind := mux.Vars(r)["kind"]; kind {
	case panel.EventAR, panel.EventVR:
		s.handleEvent(w, panel.Event{Type: kind})
	default:
		webutils.WriteErrorStatus(w, http.StatusNotFound, errors.Errorf("Unknown xr session kind %q", kind))
	}
}

func (s *Server) HandlerActionEvent(w http.ResponseWriter, r *http.Request) {
	var ev panel.Event
	if err := webutils.ReadJson(r, &ev); err != nil {
		webutils.WriteError(w, err)
		return
	}
	s.handleEvent(w, ev)
}

func (s *Server) HandlerDumpScene(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	snapshot := s.sceneSnapshot()
	for i := range snapshot.Drawables {
		snapshot.Drawables[i].Geometry = nil
	}
	utils.FDump(w, snapshot)
}

func (s *Server) HandlerWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] Websocket upgrade failed: %v", err)
		return
	}
	s.Hub.Serve(conn, s.onViewerMessage)
}

func (s *Server) onViewerMessage(client string, data []byte) {
	var ev panel.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Printf("[web] Bad event from %s: %v", client, err)
		return
	}
	if err := s.Binder.Handle(ev); err != nil {
		log.Printf("[web] Event %+v from %s: %v", ev, client, err)
		s.Hub.Error("%s event failed: %v", ev.Type, err)
	}
}
