// Package util holds small internal helpers not committed to the public API.
package util

import "github.com/google/uuid"

// NewID returns a new random identifier.
func NewID() string { return uuid.NewString() }
