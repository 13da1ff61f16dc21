package chat

import "errors"

var (
	ErrEmptyIdentity = errors.New("identity is required")
	ErrEmptyMessage  = errors.New("message is required")
	ErrChatNotFound  = errors.New("chat not found")
)
