package devtool

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/statesync/pkg/statesync"
)

// SnapshotFunc produces the current mapping states, typically
// Handle.Snapshot.
type SnapshotFunc func() []statesync.MappingState

// Server is the diagnostic HTTP surface for a running engine.
type Server struct {
	hub      *Hub
	snapshot SnapshotFunc
}

// NewServer creates a diagnostic server around an event hub and a
// snapshot source. Either may be nil; the corresponding endpoint then
// reports empty data.
func NewServer(hub *Hub, snapshot SnapshotFunc) *Server {
	return &Server{
		hub:      hub,
		snapshot: snapshot,
	}
}

// Routes returns the server's handler:
//
//	GET /healthz  - liveness
//	GET /snapshot - JSON array of active mapping states
//	GET /events   - websocket stream of update events
//	GET /metrics  - Prometheus metrics
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	if s.hub != nil {
		r.Get("/events", s.hub.HandleWebSocket)
	}

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	states := []statesync.MappingState{}
	if s.snapshot != nil {
		states = s.snapshot()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(states); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
