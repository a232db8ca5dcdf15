// Package turn orchestrates one conversation turn: persist the user message,
// build model context from the user's memories, obtain the assistant reply,
// run memory extraction and persist its optional result, persist the reply.
//
// The write sequence is deliberately not transactional and no per-user mutual
// exclusion is enforced; concurrent turns for the same user may interleave
// their writes. Each store serializes individual row writes.
package turn
