package turn

import (
	"strings"

	"github.com/gilhq/coach/core"
	"github.com/gilhq/coach/extraction"
)

// personaPrompt renders the assistant's fixed system instruction with the
// user's current memory set interpolated as context lines.
func personaPrompt(memories []core.Memory) string {
	var b strings.Builder
	b.WriteString("You are a helpful health coach assistant.\n")
	b.WriteString("Consider these relevant details about the user:\n")
	b.WriteString(extraction.MemoryContext(memories))
	b.WriteString("\n\n")
	b.WriteString("IMPORTANT: When users share personal information, preferences, or goals, you should store them as memories.\n\n")
	b.WriteString("Examples of when to create memories:\n")
	b.WriteString("- User mentions food preferences or restrictions\n")
	b.WriteString("- User shares exercise habits or preferences\n")
	b.WriteString("- User discusses health goals\n")
	b.WriteString("- User mentions allergies or dietary restrictions\n\n")
	b.WriteString("After creating a memory, acknowledge it in your response to the user.")
	return b.String()
}

// acknowledgment is appended to the reply after a memory was stored.
func acknowledgment(content string) string {
	return "\n\nI've saved that you " + content + "."
}
