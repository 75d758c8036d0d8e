package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/errorpage/internal/config"
)

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, pages(), func(cfg *config.Config) {
		cfg.Server.RateLimit = 1
	})

	e := newTestEcho(s)
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/ok", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	if rec := do(e, http.MethodGet, "/ok", browserAccept); rec.Code != http.StatusNoContent {
		t.Fatalf("first request: status = %d, want 204", rec.Code)
	}

	rec := do(e, http.MethodGet, "/ok", browserAccept)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", rec.Code)
	}
	if got, want := rec.Body.String(), "<main>generic 429 Too Many Requests</main>"; got != want {
		t.Fatalf("body = %q, want %q", got, want)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	s := newTestServer(t, pages(), func(cfg *config.Config) {
		cfg.Server.RateLimit = 0
	})

	e := newTestEcho(s)
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/ok", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	for i := 0; i < 5; i++ {
		if rec := do(e, http.MethodGet, "/ok", ""); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i, rec.Code)
		}
	}
}
