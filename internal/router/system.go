package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/errorpage/internal/handler"
)

func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
}

// registerPreviewRoutes exposes the error page previews:
//
//	GET /_error/:code           the page for :code, with status :code
//	GET /_error/:code/template  which template renders :code
func registerPreviewRoutes(r *echo.Echo, h *handler.Handlers) {
	preview := r.Group("/_error")

	preview.GET("/:code", h.ErrorPage.PreviewRoute())
	preview.GET("/:code/template", h.ErrorPage.TemplateRoute())
}
