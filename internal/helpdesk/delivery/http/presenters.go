package http

import (
	"strings"

	"github.com/google/uuid"

	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/internal/model"
	"helpdesk-automation/pkg/response"
)

// --- Request DTOs ---

type submitQueryReq struct {
	ThreadID string `json:"thread_id"`
	Query    string `json:"query" binding:"required"`
}

// toInput assigns a fresh thread id when the client sent none.
func (r submitQueryReq) toInput() helpdesk.SubmitQueryInput {
	id := strings.TrimSpace(r.ThreadID)
	if id == "" {
		id = uuid.NewString()
	}
	return helpdesk.SubmitQueryInput{ThreadID: id, Query: r.Query}
}

type humanResponseReq struct {
	ThreadID string `json:"-"` // populated from URI param
	Text     string `json:"text" binding:"required"`
}

func (r humanResponseReq) toInput() helpdesk.HumanResponseInput {
	return helpdesk.HumanResponseInput{ThreadID: r.ThreadID, Text: r.Text}
}

// --- Response DTOs ---

type stateResp struct {
	ThreadID         string            `json:"thread_id"`
	Query            string            `json:"query"`
	Category         string            `json:"category"`
	RetrievedContext *string           `json:"retrieved_context"`
	Sources          []string          `json:"sources"`
	Confidence       float64           `json:"confidence"`
	RequiresHuman    bool              `json:"requires_human"`
	HumanResponse    *string           `json:"human_response"`
	FinalResponse    *string           `json:"final_response"`
	History          []string          `json:"history"`
	Status           string            `json:"status"`
	Run              int               `json:"run"`
	Version          int64             `json:"version"`
	CreatedAt        response.DateTime `json:"created_at"`
	UpdatedAt        response.DateTime `json:"updated_at"`
}

func newStateResp(s model.ConversationState) stateResp {
	sources := s.Sources
	if sources == nil {
		sources = []string{}
	}
	return stateResp{
		ThreadID:         s.ThreadID,
		Query:            s.Query,
		Category:         string(s.Category),
		RetrievedContext: s.RetrievedContext,
		Sources:          sources,
		Confidence:       s.Confidence,
		RequiresHuman:    s.RequiresHuman,
		HumanResponse:    s.HumanResponse,
		FinalResponse:    s.FinalResponse,
		History:          s.History,
		Status:           string(s.Status),
		Run:              s.Run,
		Version:          s.Version,
		CreatedAt:        response.DateTime(s.CreatedAt),
		UpdatedAt:        response.DateTime(s.UpdatedAt),
	}
}

type humanResponseResp struct {
	State   *stateResp `json:"state,omitempty"`
	Outcome string     `json:"outcome"`
}

func newHumanResponseResp(s model.ConversationState, outcome helpdesk.ResumeOutcome) humanResponseResp {
	out := humanResponseResp{Outcome: string(outcome)}
	if s.ThreadID != "" {
		st := newStateResp(s)
		out.State = &st
	}
	return out
}

type deleteResp struct {
	Deleted bool `json:"deleted"`
}
