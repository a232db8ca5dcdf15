package extraction

import (
	"strings"

	"github.com/gilhq/coach/core"
)

// sentinel is the exact reply the model must give when nothing should be
// remembered.
const sentinel = "no_memory_needed"

// decisionPrompt instructs the model to answer with either the sentinel or a
// bare two-field JSON object. Kept strict so the lenient parser has as little
// to clean up as possible.
func decisionPrompt() string {
	var b strings.Builder
	b.WriteString("Your task is to decide if a memory should be created from the user's message.\n\n")
	b.WriteString("If a memory should be created, you MUST respond with ONLY a JSON object in this format:\n")
	b.WriteString("{\n  \"category\": \"one_of_valid_categories\",\n  \"content\": \"clear_description\"\n}\n\n")
	b.WriteString("If no memory is needed, respond with exactly: \"" + sentinel + "\"\n\n")
	b.WriteString("Valid categories are: [")
	for i, c := range core.Categories() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + string(c) + `"`)
	}
	b.WriteString("]\n\n")
	b.WriteString("DO NOT include any other text or explanation in your response.\n")
	b.WriteString("DO NOT use markdown formatting.\n")
	b.WriteString("ONLY return either the JSON object or \"" + sentinel + "\".")
	return b.String()
}

// MemoryContext renders the existing memory set as one "{category}: {content}"
// line per memory, for interpolation into prompts. Returns "" for an empty set.
func MemoryContext(memories []core.Memory) string {
	lines := make([]string, len(memories))
	for i, m := range memories {
		lines[i] = string(m.Category) + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}
