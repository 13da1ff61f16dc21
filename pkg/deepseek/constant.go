package deepseek

import "time"

const (
	DefaultBaseURL = "https://api.deepseek.com/v1"
	DefaultModel   = "deepseek-chat"
	DefaultTimeout = 60 * time.Second

	completionsPath = "/chat/completions"
)
