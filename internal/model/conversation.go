package model

import "time"

// Category is the routing decision for a query.
type Category string

const (
	CategoryUnset     Category = ""
	CategoryAutomatic Category = "automatic"
	CategoryEscalated Category = "escalated"
)

// Status is the persisted lifecycle marker of a thread. Resumption is decided
// from this value alone.
type Status string

const (
	StatusRunning   Status = "running"   // a run is in progress or was interrupted between nodes
	StatusSuspended Status = "suspended" // waiting for a human reply
	StatusTerminal  Status = "terminal"  // final_response is set
)

// ConversationState is the full record of one helpdesk thread.
type ConversationState struct {
	ThreadID string `json:"thread_id"`

	Query            string   `json:"query"`
	Category         Category `json:"category"`
	RetrievedContext *string  `json:"retrieved_context"`
	Sources          []string `json:"sources"`
	Confidence       float64  `json:"confidence"`
	RequiresHuman    bool     `json:"requires_human"`
	HumanResponse    *string  `json:"human_response"`
	FinalResponse    *string  `json:"final_response"`
	History          []string `json:"history"`

	Status Status `json:"status"`
	Next   string `json:"next,omitempty"` // node to execute on resume; empty once terminal
	Run    int    `json:"run"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers never share slices or pointers with a
// stored checkpoint.
func (s ConversationState) Clone() ConversationState {
	out := s
	out.RetrievedContext = cloneString(s.RetrievedContext)
	out.HumanResponse = cloneString(s.HumanResponse)
	out.FinalResponse = cloneString(s.FinalResponse)
	if s.Sources != nil {
		out.Sources = append([]string(nil), s.Sources...)
	}
	if s.History != nil {
		out.History = append([]string(nil), s.History...)
	}
	return out
}

// Terminal reports whether the thread has a final response.
func (s ConversationState) Terminal() bool {
	return s.Status == StatusTerminal
}

// Suspended reports whether the thread waits for a human reply.
func (s ConversationState) Suspended() bool {
	return s.Status == StatusSuspended
}

// StringPtr returns a pointer to v.
func StringPtr(v string) *string {
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
