package helpdesk

import (
	"errors"
	"fmt"
)

// Domain-specific errors for the helpdesk package.
var (
	ErrThreadNotFound = errors.New("thread not found")
	ErrInvalidState   = errors.New("invalid thread state")
	ErrEmptyQuery     = errors.New("query is empty")
	ErrEmptyThreadID  = errors.New("thread id is empty")
	ErrEmptyResponse  = errors.New("human response is empty")
)

// TransientError is a failed or timed out completion/retrieval call. Nodes
// with a fallback recover from it and only record it in history.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure in %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PersistenceError is a failed checkpoint load or save. The thread keeps its
// last persisted state.
type PersistenceError struct {
	Op       string
	ThreadID string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s for thread %s: %v", e.Op, e.ThreadID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err carries a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsTransient reports whether err carries a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
