package store

import (
	"context"

	"github.com/gilhq/coach/core"
	"github.com/gilhq/coach/pubsub"
)

// WatchMemories invokes fn with the user's refreshed memory collection each
// time a change event for that user arrives, mirroring the client's
// subscribe-and-refetch pattern. Blocks until ctx is done; run it in its own
// goroutine. Refetch errors are skipped so a transient read failure does not
// end the subscription.
func WatchMemories(ctx context.Context, memories core.MemoryStore, broker *pubsub.Broker[core.Memory], userID string, fn func([]core.Memory)) {
	for ev := range broker.Subscribe(ctx) {
		if ev.Payload.UserID != userID {
			continue
		}
		if refreshed, err := memories.ListByUser(ctx, userID); err == nil {
			fn(refreshed)
		}
	}
}

// WatchMessages is the chat-history counterpart of WatchMemories.
func WatchMessages(ctx context.Context, messages core.MessageStore, broker *pubsub.Broker[core.ChatMessage], userID string, fn func([]core.ChatMessage)) {
	for ev := range broker.Subscribe(ctx) {
		if ev.Payload.UserID != userID {
			continue
		}
		if refreshed, err := messages.History(ctx, userID); err == nil {
			fn(refreshed)
		}
	}
}
