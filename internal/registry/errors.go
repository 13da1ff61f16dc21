package registry

import "errors"

var (
	ErrInvalidIdentity = errors.New("identity may only contain letters, digits, '-', '_' and '.'")
	ErrClosed          = errors.New("registry closed")
)
