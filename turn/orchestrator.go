package turn

import (
	"context"
	"fmt"

	"github.com/gilhq/coach/completion"
	"github.com/gilhq/coach/core"
	"github.com/gilhq/coach/extraction"
	"github.com/gilhq/coach/logging"
)

// Result holds the two persisted messages produced by a successful turn.
// Field names match the HTTP response shape.
type Result struct {
	Message   *core.ChatMessage `json:"message"`
	AIMessage *core.ChatMessage `json:"aiMessage"`
}

// Options configure the orchestrator.
type Options struct {
	Logger logging.Logger
}

// Orchestrator coordinates one turn over injected stores and a completer.
// Construct once at process start and share across requests.
type Orchestrator struct {
	messages  core.MessageStore
	memories  core.MemoryStore
	completer completion.Completer
	extractor *extraction.Engine
	logger    logging.Logger
}

// New constructs an Orchestrator with optional overrides.
func New(
	messages core.MessageStore,
	memories core.MemoryStore,
	completer completion.Completer,
	extractor *extraction.Engine,
	optFns ...func(o *Options),
) *Orchestrator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		messages:  messages,
		memories:  memories,
		completer: completer,
		extractor: extractor,
		logger:    opts.Logger,
	}
}

// HandleTurn runs one turn for userID. On success exactly one user-role and
// one assistant-role message are persisted, in that order, plus at most one
// agent-created memory in between.
//
// Failure semantics per step: message writes and the reply completion are
// fatal; the memory context read degrades to an empty set (the upstream
// behavior aborted the turn here instead); extraction and the optional memory
// insert never fail the turn.
func (o *Orchestrator) HandleTurn(ctx context.Context, userID, content string) (*Result, error) {
	userMsg, err := o.messages.Append(ctx, core.ChatMessage{
		UserID:  userID,
		Content: content,
		Role:    core.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	memories, err := o.memories.ListByUser(ctx, userID)
	if err != nil {
		o.logger.Warn("memory context read failed, continuing without context",
			"user_id", userID, "error", err)
		memories = nil
	}

	reply, err := o.completer.Complete(ctx, []completion.Message{
		completion.System(personaPrompt(memories)),
		completion.User(content),
	})
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	if proposal := o.extractor.Extract(ctx, content, memories); proposal != nil {
		saved, err := o.memories.Insert(ctx, core.Memory{
			UserID:     userID,
			Category:   proposal.Category,
			Content:    proposal.Content,
			Importance: 1,
			CreatedBy:  core.CreatorAgent,
		})
		if err != nil {
			o.logger.Error("agent memory insert failed", "user_id", userID, "error", err)
		} else {
			o.logger.Info("agent memory created",
				"user_id", userID, "memory_id", saved.ID, "category", saved.Category)
			reply += acknowledgment(proposal.Content)
		}
	}

	aiMsg, err := o.messages.Append(ctx, core.ChatMessage{
		UserID:  userID,
		Content: reply,
		Role:    core.RoleAssistant,
	})
	if err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}

	return &Result{Message: userMsg, AIMessage: aiMsg}, nil
}
