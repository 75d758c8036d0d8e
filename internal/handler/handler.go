// Package handler holds the HTTP handlers: health, and the error page
// preview endpoints used while designing templates.
//
// Handlers embed Handler for access to the shared *server.Server and are
// usually wrapped with Handle/HandlePage, which bind and validate the request,
// log, and annotate the New Relic transaction.
package handler

import (
	"github.com/deppfellow/errorpage/internal/server"
)

// Handler is the base type embedded by concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}
