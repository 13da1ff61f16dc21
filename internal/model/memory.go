package model

import "time"

// MemoryCategory classifies a long-term memory fact.
type MemoryCategory string

const (
	MemoryPersonal      MemoryCategory = "personal"
	MemoryProfessional  MemoryCategory = "professional"
	MemoryPreference    MemoryCategory = "preference"
	MemoryImportantFact MemoryCategory = "important_fact"
	MemoryNone          MemoryCategory = "none"
)

// Valid reports whether c is a storable category.
func (c MemoryCategory) Valid() bool {
	switch c {
	case MemoryPersonal, MemoryProfessional, MemoryPreference, MemoryImportantFact:
		return true
	}
	return false
}

// MemoryRecord is an immutable fact remembered about an identity.
type MemoryRecord struct {
	ID         string         `json:"id"`
	Identity   string         `json:"identity"`
	Text       string         `json:"text"`
	Category   MemoryCategory `json:"category"`
	Importance int            `json:"importance"` // 1..5
	Source     string         `json:"source,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
