// Package completion defines the Completer abstraction over black-box text
// generation providers. Concrete adapters live in the openai and anthropic
// subpackages; MockCompleter serves tests and local development.
package completion
