// Package core contains the domain types shared across the coach backend:
// categorized user memories, chat messages and the store contracts that
// persistence layers implement. Depend on the interfaces defined here and
// select a concrete store implementation (SQLite, in-memory) at wiring time.
package core
