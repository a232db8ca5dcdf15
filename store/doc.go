// Package store provides concrete persistence for the core store contracts:
// a SQLite-backed implementation for deployments and a process-local
// in-memory implementation for tests and local development. Both publish
// change events through pubsub brokers so clients can subscribe-and-refetch.
package store
