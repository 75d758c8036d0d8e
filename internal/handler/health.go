package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/errorpage/internal/errorrenderer"
	"github.com/deppfellow/errorpage/internal/middleware"
	"github.com/deppfellow/errorpage/internal/server"
)

type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth reports whether template storage is reachable.
//
// A missing generic template is not a failure: error pages then come from
// the built-in renderer. A storage error is, and answers 503.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"debug":       h.server.Config.Primary.Debug,
		"checks":      checks,
	}

	isHealthy := true

	templatesStart := time.Now()
	generic := errorrenderer.GenericTemplateName()

	exists, err := h.server.Templates.Exists(generic)
	if err != nil {
		checks["templates"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(templatesStart).String(),
			"error":         err.Error(),
		}

		isHealthy = false

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(templatesStart)).
			Msg("template storage health check failed")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":       "templates",
				"operation":        "health_check",
				"error_type":       "templates_unhealthy",
				"response_time_ms": time.Since(templatesStart).Milliseconds(),
				"error_message":    err.Error(),
			})
		}
	} else {
		checks["templates"] = map[string]interface{}{
			"status":           "healthy",
			"response_time":    time.Since(templatesStart).String(),
			"generic_template": exists,
		}

		logger.Info().
			Dur("response_time", time.Since(templatesStart)).
			Bool("generic_template", exists).
			Msg("template storage health check passed")
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
