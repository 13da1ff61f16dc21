// Package composer builds the user-facing answer of a thread.
package composer

import (
	"strings"

	"helpdesk-automation/internal/model"
)

const (
	sourcesHeader = "Sources consulted: "

	HistoryHuman     = "Final response provided by human agent."
	HistoryAutomatic = "Final response generated automatically."
)

// Result is the partial update produced by Compose.
type Result struct {
	FinalResponse *string // nil when the existing response is kept
	History       string
}

// Compose leaves an existing final response untouched. Otherwise it joins the
// retrieved context with the source listing. It reads s and never mutates it.
func Compose(s model.ConversationState) Result {
	if s.FinalResponse != nil {
		return Result{History: HistoryHuman}
	}
	text := Format(s.RetrievedContext, s.Sources)
	return Result{FinalResponse: &text, History: HistoryAutomatic}
}

// Format renders context plus a comma separated source listing.
func Format(context *string, sources []string) string {
	var sb strings.Builder
	if context != nil {
		sb.WriteString(*context)
	}
	if len(sources) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(sourcesHeader)
		sb.WriteString(strings.Join(sources, ", "))
	}
	return sb.String()
}
