package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gilhq/coach/core"
	"github.com/gilhq/coach/logging"
	"github.com/gilhq/coach/turn"
)

// Options configure the HTTP server.
type Options struct {
	Logger logging.Logger
}

// Server routes API requests to the orchestrator and stores. Construct once
// and mount via Handler.
type Server struct {
	orchestrator *turn.Orchestrator
	memories     core.MemoryStore
	messages     core.MessageStore
	logger       logging.Logger
	mux          *http.ServeMux
}

// NewServer constructs a Server with optional overrides.
func NewServer(
	orchestrator *turn.Orchestrator,
	memories core.MemoryStore,
	messages core.MessageStore,
	optFns ...func(o *Options),
) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	s := &Server{
		orchestrator: orchestrator,
		memories:     memories,
		messages:     messages,
		logger:       opts.Logger,
		mux:          http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/chat/{userId}", s.handleChatHistory)
	s.mux.HandleFunc("POST /api/chat", s.handleChatTurn)

	s.mux.HandleFunc("GET /api/memories/{userId}", s.handleListMemories)
	s.mux.HandleFunc("POST /api/memories", s.handleCreateMemory)
	s.mux.HandleFunc("POST /api/memories/agent", s.handleCreateAgentMemory)
	s.mux.HandleFunc("PATCH /api/memories/{id}", s.handleUpdateMemory)
	s.mux.HandleFunc("DELETE /api/memories/{id}", s.handleDeleteMemory)
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reports any failure as HTTP 500 with an {error} body, matching
// the upstream surface where validation and store failures share one shape.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
