package checkpoint

import "errors"

var (
	ErrNotFound        = errors.New("checkpoint not found")
	ErrVersionConflict = errors.New("checkpoint version conflict")
	ErrEmptyThreadID   = errors.New("empty thread id")
)
