// Package httpapi exposes the backend's REST surface: chat history and turns
// under /api/chat, and the memory CRUD surface under /api/memories. JSON in
// and out, UTF-8. Authentication is not enforced at this layer; it is
// delegated to the client-side auth provider.
package httpapi
