package completion

import (
	"context"
	"sync"
)

// Message is one role-tagged segment of a completion request. Role is one of
// "system" or "user"; the pipeline never replays assistant turns.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System builds a system-role message.
func System(content string) Message { return Message{Role: "system", Content: content} }

// User builds a user-role message.
func User(content string) Message { return Message{Role: "user", Content: content} }

// Info contains metadata about a completer implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock"
}

// Completer is the minimal interface the turn pipeline needs from a text
// generation provider: an ordered list of role-tagged segments in, generated
// text out.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)

	// Info returns metadata about the completer implementation.
	Info() Info
}

// MockCompleter is a lightweight in-memory Completer for tests and examples.
// Responses are keyed by the content of the last message in the request; a
// scripted error, when set, is returned once per call until cleared.
type MockCompleter struct {
	mu        sync.Mutex
	responses map[string]string
	queue     []string
	fallback  string
	err       error
	calls     [][]Message
}

// NewMockCompleter constructs an empty MockCompleter.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{responses: make(map[string]string), fallback: "ok"}
}

// AddResponse registers a canned completion for a prompt (matched against the
// last message's content).
func (m *MockCompleter) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Queue appends ordered responses consumed one per call before any canned
// prompt matching. Useful when successive calls share the same last message.
func (m *MockCompleter) Queue(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
}

// SetFallback sets the response returned when no canned prompt matches.
func (m *MockCompleter) SetFallback(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = response
}

// SetError makes every subsequent Complete call fail with err (nil clears).
func (m *MockCompleter) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the recorded requests in call order.
func (m *MockCompleter) Calls() [][]Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]Message, len(m.calls))
	copy(out, m.calls)
	return out
}

// Complete implements Completer.
func (m *MockCompleter) Complete(_ context.Context, messages []Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, messages)
	if m.err != nil {
		return "", m.err
	}
	if len(m.queue) > 0 {
		resp := m.queue[0]
		m.queue = m.queue[1:]
		return resp, nil
	}
	if len(messages) > 0 {
		if resp, ok := m.responses[messages[len(messages)-1].Content]; ok {
			return resp, nil
		}
	}
	return m.fallback, nil
}

// Info implements Completer.
func (m *MockCompleter) Info() Info { return Info{Name: "mock", Provider: "mock"} }
