// Package coach provides a high-level façade over the conversational memory
// pipeline: stores, completion provider, extraction engine and the turn
// orchestrator. Most applications interact with this package by:
//  1. Creating a Coach via New() (optionally overriding default in-memory services)
//  2. Running turns via HandleTurn or mounting Server().Handler() over HTTP
//
// All defaults are safe for local development and testing; production
// deployments supply the SQLite stores, a real completion provider and a
// structured logger.
package coach

import (
	"context"

	"github.com/gilhq/coach/completion"
	"github.com/gilhq/coach/core"
	"github.com/gilhq/coach/extraction"
	"github.com/gilhq/coach/httpapi"
	"github.com/gilhq/coach/logging"
	"github.com/gilhq/coach/store"
	"github.com/gilhq/coach/turn"
)

// Options configures the Coach instance.
type Options struct {
	// Stores (default to a shared in-memory implementation if not provided).
	MemoryStore  core.MemoryStore
	MessageStore core.MessageStore

	// Completer generates assistant replies and extraction decisions
	// (defaults to MockCompleter).
	Completer completion.Completer

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Coach aggregates the pipeline components behind one entry point.
type Coach struct {
	opts         Options
	orchestrator *turn.Orchestrator
}

// New creates a new Coach instance with optional overrides. Any unset service
// is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Coach {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MemoryStore == nil || opts.MessageStore == nil {
		shared := store.NewInMemory()
		if opts.MemoryStore == nil {
			opts.MemoryStore = shared
		}
		if opts.MessageStore == nil {
			opts.MessageStore = shared
		}
	}
	if opts.Completer == nil {
		opts.Completer = completion.NewMockCompleter()
	}

	extractor := extraction.NewEngine(opts.Completer, func(o *extraction.Options) {
		o.Logger = opts.Logger
	})
	orchestrator := turn.New(opts.MessageStore, opts.MemoryStore, opts.Completer, extractor,
		func(o *turn.Options) { o.Logger = opts.Logger })

	return &Coach{opts: opts, orchestrator: orchestrator}
}

// HandleTurn runs one conversation turn for the given user.
func (c *Coach) HandleTurn(ctx context.Context, userID, content string) (*turn.Result, error) {
	return c.orchestrator.HandleTurn(ctx, userID, content)
}

// Orchestrator exposes the underlying turn orchestrator.
func (c *Coach) Orchestrator() *turn.Orchestrator { return c.orchestrator }

// Memories exposes the configured memory store.
func (c *Coach) Memories() core.MemoryStore { return c.opts.MemoryStore }

// Messages exposes the configured message store.
func (c *Coach) Messages() core.MessageStore { return c.opts.MessageStore }

// Server builds the HTTP server over the configured components.
func (c *Coach) Server() *httpapi.Server {
	return httpapi.NewServer(c.orchestrator, c.opts.MemoryStore, c.opts.MessageStore,
		func(o *httpapi.Options) { o.Logger = c.opts.Logger })
}
