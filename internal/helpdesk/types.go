package helpdesk

// SubmitQueryInput starts or continues a run on a thread.
type SubmitQueryInput struct {
	ThreadID string `json:"thread_id"`
	Query    string `json:"query"`
}

// HumanResponseInput resumes a suspended thread.
type HumanResponseInput struct {
	ThreadID string `json:"thread_id"`
	Text     string `json:"text"`
}

// ResumeOutcome tells a submit_human_response caller what actually happened.
type ResumeOutcome string

const (
	OutcomeResumed         ResumeOutcome = "resumed"
	OutcomeAlreadyTerminal ResumeOutcome = "already_terminal"
	OutcomeUnknownThread   ResumeOutcome = "unknown_thread"
	OutcomeNotSuspended    ResumeOutcome = "not_suspended"
)
