// Package extraction decides whether a user utterance contains a durable
// fact worth remembering. The engine proposes zero-or-one categorized memory
// per utterance and never writes the store itself; persisting a proposal is
// the caller's job.
package extraction
