package usecase

import (
	"context"
	"strings"
)

const (
	titleSourceRunes   = 200
	fallbackTitleRunes = 30
)

// generateTitle asks the completion service for a title and falls back to
// the start of the message.
func (uc *implUseCase) generateTitle(ctx context.Context, message string) string {
	if uc.completion == nil {
		return fallbackTitle(message)
	}

	reply, err := uc.completion.Complete(ctx, titlePrompt(truncate(message, titleSourceRunes)))
	if err != nil {
		uc.l.Warnf(ctx, "chat.usecase.generateTitle: completion failed, using message prefix: %v", err)
		return fallbackTitle(message)
	}

	title := strings.Trim(strings.TrimSpace(reply), `"'`)
	if title == "" {
		return fallbackTitle(message)
	}
	return capTitle(title, uc.opts.TitleMaxLen)
}

func fallbackTitle(message string) string {
	r := []rune(message)
	if len(r) > fallbackTitleRunes {
		return string(r[:fallbackTitleRunes]) + "..."
	}
	return message
}

// capTitle shortens title to limit runes including the "..." suffix.
func capTitle(title string, limit int) string {
	r := []rune(title)
	if len(r) <= limit {
		return title
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
