package response

import "time"

const (
	MessageSuccess      = "Success"
	DefaultErrorMessage = "Something went wrong"

	ErrorCodeBadRequest         = 1
	ErrorCodeNotFound           = 404
	ErrorCodeConflict           = 409
	ErrorCodeTooManyRequests    = 429
	InternalServerErrorCode     = 500
	ErrorCodeServiceUnavailable = 503

	DateTimeFormat = time.RFC3339
)
