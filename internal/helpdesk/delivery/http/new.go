package http

import (
	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/pkg/log"
)

type handler struct {
	l  log.Logger
	uc helpdesk.UseCase
}

// New creates a new HTTP handler for the helpdesk domain.
func New(l log.Logger, uc helpdesk.UseCase) *handler {
	return &handler{l: l, uc: uc}
}
