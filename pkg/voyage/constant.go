package voyage

import "time"

const (
	DefaultBaseURL = "https://api.voyageai.com/v1"
	DefaultModel   = "voyage-3" // 1024 dimensions
	DefaultTimeout = 30 * time.Second

	// MaxBatch is the largest input list sent in one request.
	MaxBatch = 128

	InputTypeQuery    = "query"
	InputTypeDocument = "document"
)
