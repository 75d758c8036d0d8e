// Package server defines the Server container that composes the service's
// shared dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the template engine and the error page renderers
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/errorpage/internal/config"
	"github.com/deppfellow/errorpage/internal/errorrenderer"
	loggerPkg "github.com/deppfellow/errorpage/internal/logger"
	"github.com/deppfellow/errorpage/internal/tpl"
)

// Server is the application container that holds shared resources.
// It is not the HTTP server itself.
type Server struct {
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// Templates serves the application templates under the @App namespace.
	Templates *tpl.Engine

	// ErrorRenderer renders error pages for the global error handler. It
	// honours Config.Primary.Debug.
	ErrorRenderer errorrenderer.ErrorRenderer

	// PreviewRenderer always renders application templates, regardless of
	// debug mode, so designers can see the pages they are editing.
	PreviewRenderer *errorrenderer.TemplateRenderer

	httpServer *http.Server
}

// New constructs a Server serving templates from cfg.Templates.Dir.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	info, err := os.Stat(cfg.Templates.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory %s is not a directory", cfg.Templates.Dir)
	}

	return NewWithFS(cfg, os.DirFS(cfg.Templates.Dir), logger, loggerService), nil
}

// NewWithFS constructs a Server serving templates from fsys.
func NewWithFS(cfg *config.Config, fsys fs.FS, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *Server {
	engine := tpl.New(fsys,
		tpl.WithLayouts(cfg.Templates.Layouts...),
		tpl.WithCache(cfg.Templates.Cache),
		tpl.WithLogger(logger),
	)

	debug := cfg.Primary.Debug
	if debug && cfg.IsProduction() {
		logger.Warn().Msg("debug error pages are enabled in production")
	}

	return &Server{
		Config:          cfg,
		Logger:          logger,
		LoggerService:   loggerService,
		Templates:       engine,
		ErrorRenderer:   errorrenderer.NewTemplateRenderer(engine, errorrenderer.NewHTMLRenderer(debug), debug),
		PreviewRenderer: errorrenderer.NewTemplateRenderer(engine, errorrenderer.NewHTMLRenderer(false), false),
	}
}

// SetupHTTPServer configures the internal net/http server around handler.
// Timeouts are configured in seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops and requires
// SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Bool("debug", s.Config.Primary.Debug).
		Str("templates", s.Config.Templates.Dir).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}
