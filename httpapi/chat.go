package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gilhq/coach/core"
)

type chatTurnRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

// handleChatHistory returns a user's messages, oldest first.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.messages.History(r.Context(), r.PathValue("userId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// handleChatTurn runs one conversation turn and returns both persisted
// messages.
func (s *Server) handleChatTurn(w http.ResponseWriter, r *http.Request) {
	var req chatTurnRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.UserID == "" {
		s.writeError(w, r, fmt.Errorf("%w: user_id", core.ErrMissingField))
		return
	}
	if req.Content == "" {
		s.writeError(w, r, fmt.Errorf("%w: content", core.ErrMissingField))
		return
	}

	result, err := s.orchestrator.HandleTurn(r.Context(), req.UserID, req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
