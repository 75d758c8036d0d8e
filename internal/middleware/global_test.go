package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/errorpage/internal/config"
	"github.com/deppfellow/errorpage/internal/errs"
	"github.com/deppfellow/errorpage/internal/server"
)

const browserAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

func pages() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.gohtml": {Data: []byte(
			`{{define "base"}}<main>{{template "content" .}}</main>{{end}}`,
		)},
		"Exception/error.html.gohtml": {Data: []byte(
			`{{template "base" .}}{{define "content"}}generic {{.status_code}} {{.status_text}}{{end}}`,
		)},
		"Exception/error404.html.gohtml": {Data: []byte(
			`{{template "base" .}}{{define "content"}}not found{{end}}`,
		)},
	}
}

func newTestServer(t *testing.T, fsys fstest.MapFS, configure func(*config.Config)) *server.Server {
	t.Helper()

	cfg := config.DefaultConfig()
	if configure != nil {
		configure(&cfg)
	}

	logger := zerolog.Nop()
	return server.NewWithFS(&cfg, fsys, &logger, nil)
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler

	e.GET("/unavailable", func(c echo.Context) error {
		return errs.NewHTTPError(http.StatusServiceUnavailable, "")
	})
	e.GET("/crash", func(c echo.Context) error {
		return errors.New("connection reset by peer")
	})
	e.GET("/forbidden", func(c echo.Context) error {
		return errors.Wrap(errs.NewForbiddenError("members only", true), "checking membership")
	})

	return e
}

func do(e *echo.Echo, method, target, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if accept != "" {
		req.Header.Set(echo.HeaderAccept, accept)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGlobalErrorHandler_HTML(t *testing.T) {
	e := newTestEcho(newTestServer(t, pages(), nil))

	tests := []struct {
		target     string
		wantStatus int
		wantBody   string
	}{
		{"/unavailable", 503, "<main>generic 503 Service Unavailable</main>"},
		{"/crash", 500, "<main>generic 500 Internal Server Error</main>"},
		{"/forbidden", 403, "<main>generic 403 Forbidden</main>"},
		{"/no-such-route", 404, "<main>not found</main>"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(e, http.MethodGet, tt.target, browserAccept)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Body.String(); got != tt.wantBody {
				t.Fatalf("body = %q, want %q", got, tt.wantBody)
			}
			if got := rec.Header().Get(echo.HeaderContentType); got != "text/html; charset=UTF-8" {
				t.Fatalf("content type = %q", got)
			}
		})
	}
}

func TestGlobalErrorHandler_JSON(t *testing.T) {
	e := newTestEcho(newTestServer(t, pages(), nil))

	tests := []struct {
		target      string
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"/unavailable", 503, "SERVICE_UNAVAILABLE", "Service Unavailable"},
		{"/crash", 500, "INTERNAL_SERVER_ERROR", "Internal Server Error"},
		{"/forbidden", 403, "FORBIDDEN", "members only"},
		{"/no-such-route", 404, "NOT_FOUND", "Route not found"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(e, http.MethodGet, tt.target, echo.MIMEApplicationJSON)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body errs.HTTPError
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v\n%s", err, rec.Body.String())
			}
			if body.Status != tt.wantStatus || body.Code != tt.wantCode || body.Message != tt.wantMessage {
				t.Fatalf("body = %+v", body)
			}
		})
	}
}

func TestGlobalErrorHandler_NoAcceptHeaderGetsJSON(t *testing.T) {
	rec := do(newTestEcho(newTestServer(t, pages(), nil)), http.MethodGet, "/crash", "")

	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		t.Fatalf("content type = %q, want JSON", ct)
	}
}

func TestGlobalErrorHandler_BuiltInPageWithoutTemplates(t *testing.T) {
	rec := do(newTestEcho(newTestServer(t, fstest.MapFS{}, nil)), http.MethodGet, "/unavailable", browserAccept)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Oops! An Error Occurred") {
		t.Fatalf("built-in page not used:\n%s", rec.Body.String())
	}
}

func TestGlobalErrorHandler_BrokenTemplateFallsBackToJSON(t *testing.T) {
	fsys := pages()
	fsys["Exception/error.html.gohtml"] = &fstest.MapFile{Data: []byte(`{{if}}`)}

	rec := do(newTestEcho(newTestServer(t, fsys, nil)), http.MethodGet, "/unavailable", browserAccept)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		t.Fatalf("content type = %q, want JSON fallback", ct)
	}
}

func TestGlobalErrorHandler_Debug(t *testing.T) {
	s := newTestServer(t, pages(), func(cfg *config.Config) {
		cfg.Primary.Debug = true
	})

	rec := do(newTestEcho(s), http.MethodGet, "/forbidden", browserAccept)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "generic 403") {
		t.Fatalf("debug mode rendered the application template")
	}
	if !strings.Contains(body, "checking membership: members only") {
		t.Fatalf("debug page does not show the message:\n%s", body)
	}
	if rec.Header().Get("X-Debug-Exception") == "" {
		t.Fatalf("X-Debug-Exception header missing")
	}
}

func TestGlobalErrorHandler_Head(t *testing.T) {
	e := newTestEcho(newTestServer(t, pages(), nil))
	e.HEAD("/unavailable", func(c echo.Context) error {
		return errs.NewHTTPError(http.StatusServiceUnavailable, "")
	})

	for _, accept := range []string{browserAccept, echo.MIMEApplicationJSON} {
		rec := do(e, http.MethodHead, "/unavailable", accept)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: status = %d, want 503", accept, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Fatalf("%s: HEAD response has a body: %q", accept, rec.Body.String())
		}
	}
}

func TestAcceptsHTML(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{browserAccept, true},
		{"text/html", true},
		{"application/xhtml+xml", true},
		{"TEXT/HTML; charset=utf-8", true},
		{"application/json", false},
		{"*/*", false},
		{"", false},
		{"text/html;q=0", false},
		{"application/json, text/html;q=0.1", true},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAccept, tt.accept)

		if got := AcceptsHTML(req); got != tt.want {
			t.Fatalf("AcceptsHTML(%q) = %v, want %v", tt.accept, got, tt.want)
		}
	}
}
