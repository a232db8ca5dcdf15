package core

import (
	"context"
	"fmt"
	"time"
)

// Role tags a chat message as one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates a raw role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

// ChatMessage is one turn half in a user's conversation history. Messages are
// append-only; no update or delete operation exists.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the invariants enforced before append.
func (m ChatMessage) Validate() error {
	if m.UserID == "" {
		return fmt.Errorf("%w: user_id", ErrMissingField)
	}
	if m.Content == "" {
		return ErrEmptyContent
	}
	if _, err := ParseRole(string(m.Role)); err != nil {
		return err
	}
	return nil
}

// MessageStore persists the append-only chat history.
type MessageStore interface {
	// Append stores a new message and returns it with id and timestamp set.
	Append(ctx context.Context, m ChatMessage) (*ChatMessage, error)

	// History returns a user's messages in insertion order (oldest first).
	History(ctx context.Context, userID string) ([]ChatMessage, error)
}
