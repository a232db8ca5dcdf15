package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gilhq/coach/core"
	"github.com/gilhq/coach/internal/util"
	"github.com/gilhq/coach/pubsub"
)

// InMemory is a volatile implementation of core.MemoryStore and
// core.MessageStore backed by process-local maps. It is safe for concurrent
// access and best suited for tests or ephemeral demo servers. Returned rows
// are copies, so callers cannot mutate internal state.
type InMemory struct {
	mu       sync.RWMutex
	memories map[string]core.Memory
	messages []core.ChatMessage

	memoryEvents  *pubsub.Broker[core.Memory]
	messageEvents *pubsub.Broker[core.ChatMessage]
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		memories:      make(map[string]core.Memory),
		memoryEvents:  pubsub.NewBroker[core.Memory](),
		messageEvents: pubsub.NewBroker[core.ChatMessage](),
	}
}

// MemoryEvents returns the broker publishing memory change events.
func (s *InMemory) MemoryEvents() *pubsub.Broker[core.Memory] { return s.memoryEvents }

// MessageEvents returns the broker publishing message change events.
func (s *InMemory) MessageEvents() *pubsub.Broker[core.ChatMessage] { return s.messageEvents }

// Insert implements core.MemoryStore.
func (s *InMemory) Insert(_ context.Context, m core.Memory) (*core.Memory, error) {
	if m.Importance == 0 {
		m.Importance = 1
	}
	if m.CreatedBy == "" {
		m.CreatedBy = core.CreatorUser
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	m.ID = util.NewID()
	m.CreatedAt = now
	m.UpdatedAt = now

	s.mu.Lock()
	s.memories[m.ID] = m
	s.mu.Unlock()

	s.memoryEvents.Publish(pubsub.NewCreatedEvent(m))
	return &m, nil
}

// Update implements core.MemoryStore.
func (s *InMemory) Update(_ context.Context, id string, upd core.MemoryUpdate) (*core.Memory, error) {
	s.mu.Lock()
	m, ok := s.memories[id]
	if !ok {
		s.mu.Unlock()
		return nil, core.ErrNotFound
	}
	if upd.Category != nil {
		if _, err := core.ParseCategory(string(*upd.Category)); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		m.Category = *upd.Category
	}
	if upd.Content != nil {
		if *upd.Content == "" {
			s.mu.Unlock()
			return nil, core.ErrEmptyContent
		}
		m.Content = *upd.Content
	}
	m.UpdatedAt = time.Now().UTC()
	s.memories[id] = m
	s.mu.Unlock()

	s.memoryEvents.Publish(pubsub.NewUpdatedEvent(m))
	return &m, nil
}

// Delete implements core.MemoryStore.
func (s *InMemory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	m, ok := s.memories[id]
	if !ok {
		s.mu.Unlock()
		return core.ErrNotFound
	}
	delete(s.memories, id)
	s.mu.Unlock()

	s.memoryEvents.Publish(pubsub.NewDeletedEvent(m))
	return nil
}

// Get implements core.MemoryStore.
func (s *InMemory) Get(_ context.Context, id string) (*core.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.memories[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &m, nil
}

// ListByUser implements core.MemoryStore; newest first.
func (s *InMemory) ListByUser(_ context.Context, userID string) ([]core.Memory, error) {
	s.mu.RLock()
	out := make([]core.Memory, 0)
	for _, m := range s.memories {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Append implements core.MessageStore.
func (s *InMemory) Append(_ context.Context, m core.ChatMessage) (*core.ChatMessage, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.ID = util.NewID()
	m.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()

	s.messageEvents.Publish(pubsub.NewCreatedEvent(m))
	return &m, nil
}

// History implements core.MessageStore; insertion order.
func (s *InMemory) History(_ context.Context, userID string) ([]core.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.ChatMessage, 0)
	for _, m := range s.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}
