package usecase

import (
	"fmt"
	"strings"
)

const systemTemplate = `You are a friendly and capable personal assistant.
- You are helpful, empathetic and conversational.
- You remember important details from earlier conversations.
- You adapt your style to the user's preferences.
- You proactively offer relevant suggestions.
- You keep a professional but warm tone.

%s

Use this information to personalise your answers, but do not mention that you have a memory unless it is relevant to the conversation.`

const noMemories = "No relevant prior information is available."

func systemPrompt(memories []string) string {
	if len(memories) == 0 {
		return fmt.Sprintf(systemTemplate, noMemories)
	}
	var b strings.Builder
	b.WriteString("Relevant information you remember about the user:")
	for _, m := range memories {
		b.WriteString("\n- ")
		b.WriteString(m)
	}
	return fmt.Sprintf(systemTemplate, b.String())
}

func titlePrompt(message string) string {
	return fmt.Sprintf(`Write a short title (at most 4-5 words) for a conversation that starts with this message:

"%s"

The title must be concise and descriptive, capture the main topic and contain no quotes.

Title:`, message)
}
