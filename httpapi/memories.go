package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gilhq/coach/core"
)

type createMemoryRequest struct {
	UserID     string `json:"user_id"`
	Category   string `json:"category"`
	Content    string `json:"content"`
	Importance int    `json:"importance,omitempty"`
}

type updateMemoryRequest struct {
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
}

// handleListMemories returns a user's memories, newest first.
func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	memories, err := s.memories.ListByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memories)
}

// handleCreateMemory stores a user-created memory.
func (s *Server) handleCreateMemory(w http.ResponseWriter, r *http.Request) {
	var req createMemoryRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, fmt.Errorf("decode request: %w", err))
		return
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	memory, err := s.memories.Insert(r.Context(), core.Memory{
		UserID:     req.UserID,
		Category:   category,
		Content:    req.Content,
		Importance: req.Importance,
		CreatedBy:  core.CreatorUser,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memory)
}

// handleCreateAgentMemory stores an agent-created memory. Unlike the other
// routes it validates every required field up front and reports failures in
// a {success:false, error} shape.
func (s *Server) handleCreateAgentMemory(w http.ResponseWriter, r *http.Request) {
	fail := func(err error) {
		s.logger.Error("agent memory creation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}

	var req createMemoryRequest
	if err := decodeBody(r, &req); err != nil {
		fail(fmt.Errorf("decode request: %w", err))
		return
	}
	if req.UserID == "" || req.Category == "" || req.Content == "" {
		fail(fmt.Errorf("%w: user_id, category and content are required", core.ErrMissingField))
		return
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		fail(err)
		return
	}

	memory, err := s.memories.Insert(r.Context(), core.Memory{
		UserID:     req.UserID,
		Category:   category,
		Content:    req.Content,
		Importance: req.Importance,
		CreatedBy:  core.CreatorAgent,
	})
	if err != nil {
		fail(err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "memory": memory})
}

// handleUpdateMemory applies a partial overwrite of content and/or category.
func (s *Server) handleUpdateMemory(w http.ResponseWriter, r *http.Request) {
	var req updateMemoryRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, fmt.Errorf("decode request: %w", err))
		return
	}

	upd := core.MemoryUpdate{Content: req.Content}
	if req.Category != nil {
		category, err := core.ParseCategory(*req.Category)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		upd.Category = &category
	}

	memory, err := s.memories.Update(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memory)
}

// handleDeleteMemory removes a memory by id.
func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	if err := s.memories.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
