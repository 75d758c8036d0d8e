// Package router builds the echo instance: global middleware, the global
// error handler, and the routes.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/errorpage/internal/handler"
	"github.com/deppfellow/errorpage/internal/middleware"
	"github.com/deppfellow/errorpage/internal/server"
)

// NewRouter creates the echo router.
//
// Middleware order matters: the request ID and the New Relic transaction
// must exist before ContextEnhancer builds the request logger, and the
// request logger must wrap Recover and the rate limiter so panics and
// rejected requests are logged with their status.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	if s.Config.Templates.Preview {
		registerPreviewRoutes(router, h)
	}

	return router
}
