package extraction

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gilhq/coach/completion"
	"github.com/gilhq/coach/core"
	"github.com/gilhq/coach/logging"
)

// Proposal is a validated memory candidate ready for insertion with
// creator=agent and importance=1.
type Proposal struct {
	Category core.Category
	Content  string
}

// Options configure the extraction engine.
type Options struct {
	Logger logging.Logger
}

// Engine turns a single utterance into at most one memory proposal using one
// completion call. It is a best-effort side decision: every failure mode
// (provider error, malformed JSON, unknown category, empty content) degrades
// to nil, never to an error.
type Engine struct {
	completer completion.Completer
	logger    logging.Logger
}

// NewEngine constructs an Engine with optional overrides.
func NewEngine(completer completion.Completer, optFns ...func(o *Options)) *Engine {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{completer: completer, logger: opts.Logger}
}

// Extract decides whether utterance should produce a new memory. The existing
// set is accepted for prompt context only; proposals are not deduplicated
// against it, matching the reference behavior (a re-stated fact can be saved
// twice).
func (e *Engine) Extract(ctx context.Context, utterance string, existing []core.Memory) *Proposal {
	raw, err := e.completer.Complete(ctx, []completion.Message{
		completion.System(decisionPrompt()),
		completion.User(utterance),
	})
	if err != nil {
		e.logger.Warn("memory decision call failed", "error", err)
		return nil
	}
	e.logger.Debug("raw memory decision", "response", raw)

	return e.parse(raw)
}

// decision mirrors the JSON object the decision prompt asks for.
type decision struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

// parse leniently interprets the model's decision. Only responses containing
// an opening brace are parsed; the span from the first '{' to the last '}' is
// used so stray prose or code fences around the object do not fail the turn.
func (e *Engine) parse(raw string) *Proposal {
	trimmed := strings.TrimSpace(raw)
	start := strings.Index(trimmed, "{")
	if start < 0 {
		return nil
	}
	end := strings.LastIndex(trimmed, "}")
	if end < start {
		e.logger.Warn("memory decision contains unterminated object", "response", trimmed)
		return nil
	}

	var d decision
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &d); err != nil {
		e.logger.Warn("memory decision parse failed", "error", err)
		return nil
	}

	category, err := core.ParseCategory(d.Category)
	if err != nil {
		e.logger.Warn("memory decision rejected", "error", err)
		return nil
	}
	if d.Content == "" {
		e.logger.Warn("memory decision rejected", "error", core.ErrEmptyContent)
		return nil
	}
	return &Proposal{Category: category, Content: d.Content}
}
