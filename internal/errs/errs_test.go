package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewHTTPError_DerivesCodeAndMessage(t *testing.T) {
	err := NewHTTPError(http.StatusServiceUnavailable, "")

	if got, want := err.Code, "SERVICE_UNAVAILABLE"; got != want {
		t.Fatalf("code = %q, want %q", got, want)
	}
	if got, want := err.Message, "Service Unavailable"; got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
	if got, want := err.StatusCode(), http.StatusServiceUnavailable; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
}

func TestStatusCodeName_Unknown(t *testing.T) {
	if got, want := StatusCodeName(599), "ERROR"; got != want {
		t.Fatalf("code = %q, want %q", got, want)
	}
}

func TestConstructors(t *testing.T) {
	custom := "USER_NOT_FOUND"

	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", NewUnauthorizedError("nope", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("nope", true), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found custom", NewNotFoundError("gone", true, &custom), http.StatusNotFound, custom},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"validation", ValidationError(errors.New("code is required")), http.StatusBadRequest, "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
			if tt.err.Code != tt.wantCode {
				t.Fatalf("code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestHTTPError_IsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("loading page: %w", NewNotFoundError("Page not found", false, nil))

	if !errors.Is(wrapped, &HTTPError{}) {
		t.Fatalf("errors.Is did not match *HTTPError")
	}

	var httpErr *HTTPError
	if !errors.As(wrapped, &httpErr) {
		t.Fatalf("errors.As did not find *HTTPError")
	}
	if httpErr.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", httpErr.Status, http.StatusNotFound)
	}
}

func TestWithMessage_DoesNotMutate(t *testing.T) {
	base := NewBadRequestError("original", true, nil, []FieldError{{Field: "code", Error: "is required"}}, nil)
	copied := base.WithMessage("replaced")

	if base.Message != "original" {
		t.Fatalf("base message mutated to %q", base.Message)
	}
	if copied.Message != "replaced" || copied.Status != base.Status || len(copied.Errors) != 1 {
		t.Fatalf("copy = %+v, want replaced message with same fields", copied)
	}
}
