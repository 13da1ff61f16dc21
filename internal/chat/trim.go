package chat

import (
	"unicode/utf8"

	"helpdesk-automation/internal/model"
)

// TokenCounter returns the token cost of one message.
type TokenCounter func(model.ChatMessage) int

// ApproxTokens estimates one token per four runes plus a small per-message
// overhead for the role marker.
func ApproxTokens(m model.ChatMessage) int {
	return utf8.RuneCountInString(m.Content)/4 + 4
}

// Trim keeps the newest messages whose summed cost fits budget. A leading
// system entry is always kept and its cost is charged first. The kept window
// starts on a user entry. The input is never modified. A nil counter uses
// ApproxTokens.
func Trim(messages []model.ChatMessage, budget int, counter TokenCounter) []model.ChatMessage {
	if counter == nil {
		counter = ApproxTokens
	}
	if len(messages) == 0 {
		return []model.ChatMessage{}
	}

	var system *model.ChatMessage
	rest := messages
	if messages[0].Role == model.RoleSystem {
		system = &messages[0]
		rest = messages[1:]
		budget -= counter(*system)
	}

	start := len(rest)
	used := 0
	for i := len(rest) - 1; i >= 0; i-- {
		cost := counter(rest[i])
		if used+cost > budget {
			break
		}
		used += cost
		start = i
	}

	for start < len(rest) && rest[start].Role != model.RoleUser {
		start++
	}

	out := make([]model.ChatMessage, 0, len(rest)-start+1)
	if system != nil {
		out = append(out, *system)
	}
	return append(out, rest[start:]...)
}
