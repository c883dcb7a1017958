package web

import (
	"context"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/meshview/catalog"
	"github.com/mogaika/meshview/panel"
	"github.com/mogaika/meshview/scene"
	"github.com/mogaika/meshview/status"
	"github.com/mogaika/meshview/view"
)

type Server struct {
	Catalog  catalog.Catalog
	Registry *scene.Registry
	Panel    *panel.Panel
	Binder   *panel.Binder
	Renderer *view.Renderer
	Hub      *status.Hub
	WebPath  string

	upgrader websocket.Upgrader
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/json/catalog", s.HandlerAjaxCatalog).Methods(http.MethodGet)
	r.HandleFunc("/json/panel", s.HandlerAjaxPanel).Methods(http.MethodGet)
	r.HandleFunc("/json/scene", s.HandlerAjaxScene).Methods(http.MethodGet)
	r.HandleFunc("/json/frame", s.HandlerAjaxFrame).Methods(http.MethodGet)
	r.HandleFunc("/mesh/{index:[0-9]+}", s.HandlerMesh).Methods(http.MethodGet)
	r.HandleFunc("/action/event", s.HandlerActionEvent).Methods(http.MethodPost)
	r.HandleFunc("/action/representation", s.HandlerActionRepresentation).Methods(http.MethodPost)
	r.HandleFunc("/action/xr/{kind}", s.HandlerActionXR).Methods(http.MethodPost)
	r.HandleFunc("/action/{index:[0-9]+}/{control}", s.HandlerActionControl).Methods(http.MethodPost)
	r.HandleFunc("/dump/scene", s.HandlerDumpScene).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.HandlerWebsocket)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(s.WebPath, "data"))))

	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
	return handlers.LoggingHandler(os.Stdout, h)
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[web] Shutdown error: %v", err)
		}
	}()

	log.Printf("[web] Starting server %v", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
