package memory

import "errors"

var (
	ErrEmptyMessage      = errors.New("message is empty")
	ErrInvalidExtraction = errors.New("invalid extraction reply")
)
