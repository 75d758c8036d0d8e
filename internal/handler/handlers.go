package handler

import (
	"github.com/deppfellow/errorpage/internal/server"
)

// Handlers aggregates every HTTP handler so the router receives them as one
// dependency.
type Handlers struct {
	Health    *HealthHandler
	ErrorPage *ErrorPageHandler
}

func NewHandlers(s *server.Server) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		ErrorPage: NewErrorPageHandler(s),
	}
}
