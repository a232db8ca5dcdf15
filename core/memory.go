package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared across stores and the HTTP layer.
var (
	// ErrNotFound indicates the referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCategory indicates a category outside the fixed set.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrEmptyContent indicates missing or blank memory content.
	ErrEmptyContent = errors.New("content must not be empty")
	// ErrMissingField indicates a required request field was absent.
	ErrMissingField = errors.New("missing required field")
)

// Category classifies a memory. The set is closed; every boundary that
// accepts a category (extraction output, create, update) validates against it.
type Category string

const (
	CategoryAllergy    Category = "Allergy"
	CategoryPreference Category = "Preference"
	CategoryDiet       Category = "Diet"
	CategoryExercise   Category = "Exercise"
	CategoryGoal       Category = "Goal"
	CategoryGrocery    Category = "Grocery"
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryAllergy,
		CategoryPreference,
		CategoryDiet,
		CategoryExercise,
		CategoryGoal,
		CategoryGrocery,
	}
}

// ParseCategory validates a raw string against the fixed set.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of: %s)", ErrInvalidCategory, s, categoryList())
}

func categoryList() string {
	out := ""
	for i, c := range Categories() {
		if i > 0 {
			out += ", "
		}
		out += string(c)
	}
	return out
}

// Creator identifies who recorded a memory.
type Creator string

const (
	// CreatorUser marks memories created through the direct CRUD surface.
	CreatorUser Creator = "user"
	// CreatorAgent marks memories inferred by the extraction engine.
	CreatorAgent Creator = "agent"
)

// Memory is a durable categorized fact about a user. Updates are destructive
// overwrites; there is no versioning. The owning user id is immutable after
// creation.
type Memory struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Category   Category  `json:"category"`
	Content    string    `json:"content"`
	Importance int       `json:"importance"`
	CreatedBy  Creator   `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks the invariants enforced before any insert.
func (m Memory) Validate() error {
	if m.UserID == "" {
		return fmt.Errorf("%w: user_id", ErrMissingField)
	}
	if _, err := ParseCategory(string(m.Category)); err != nil {
		return err
	}
	if m.Content == "" {
		return ErrEmptyContent
	}
	return nil
}

// MemoryUpdate carries a partial update. Nil fields are left untouched.
type MemoryUpdate struct {
	Content  *string
	Category *Category
}

// MemoryStore persists user-scoped memories. Implementations serialize
// individual row writes; callers perform no transactions across calls.
type MemoryStore interface {
	// Insert stores a new memory and returns it with id and timestamps set.
	Insert(ctx context.Context, m Memory) (*Memory, error)

	// Update applies a partial overwrite and returns the updated row.
	Update(ctx context.Context, id string, upd MemoryUpdate) (*Memory, error)

	// Delete removes a memory by id.
	Delete(ctx context.Context, id string) error

	// Get returns a single memory by id.
	Get(ctx context.Context, id string) (*Memory, error)

	// ListByUser returns all memories for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]Memory, error)
}
