package retrieval

import "errors"

var (
	ErrEmptyQuery  = errors.New("empty query")
	ErrUnavailable = errors.New("retrieval index unavailable")
)
