package engine

import "helpdesk-automation/internal/model"

// RetrievalUpdate replaces all retrieval outputs at once.
type RetrievalUpdate struct {
	Context    *string
	Sources    []string
	Confidence float64
}

// Update is the partial result of a node. Nil fields are left unchanged;
// History is appended.
type Update struct {
	Retrieval     *RetrievalUpdate
	Category      model.Category
	RequiresHuman *bool
	FinalResponse *string
	History       []string
}

func boolPtr(v bool) *bool { return &v }

// Apply merges u into s.
func (u Update) Apply(s *model.ConversationState) {
	if u.Retrieval != nil {
		s.RetrievedContext = u.Retrieval.Context
		s.Sources = append([]string(nil), u.Retrieval.Sources...)
		s.Confidence = u.Retrieval.Confidence
	}
	if u.Category != model.CategoryUnset {
		s.Category = u.Category
	}
	if u.RequiresHuman != nil {
		s.RequiresHuman = *u.RequiresHuman
	}
	if u.FinalResponse != nil && s.FinalResponse == nil {
		v := *u.FinalResponse
		s.FinalResponse = &v
	}
	s.History = append(s.History, u.History...)
}
