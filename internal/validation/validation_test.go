package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/errorpage/internal/errs"
)

type codeRequest struct {
	Code int    `param:"code" validate:"required,min=400,max=599"`
	Name string `query:"name" validate:"omitempty,max=5"`
}

func (r *codeRequest) Validate() error {
	return Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "code", Message: "is reserved"}}
}

func bind(t *testing.T, target, code string, payload Validatable) error {
	t.Helper()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	c.SetParamNames("code")
	c.SetParamValues(code)

	return BindAndValidate(c, payload)
}

func TestBindAndValidate(t *testing.T) {
	req := &codeRequest{}
	if err := bind(t, "/_error/404?name=x", "404", req); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if req.Code != 404 || req.Name != "x" {
		t.Fatalf("bound %+v", req)
	}
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		code  string
		query string
		field string
		msg   string
	}{
		{"399", "", "code", "must be at least 400"},
		{"600", "", "code", "must not exceed 599"},
		{"0", "", "code", "is required"},
		{"404", "?name=toolong", "name", "must not exceed 5 characters"},
	}

	for _, tt := range tests {
		err := bind(t, "/_error/"+tt.code+tt.query, tt.code, &codeRequest{})

		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("%s: err = %v, want HTTPError", tt.code, err)
		}
		if httpErr.Status != http.StatusBadRequest || len(httpErr.Errors) != 1 {
			t.Fatalf("%s: got %+v", tt.code, httpErr)
		}
		if got := httpErr.Errors[0]; got.Field != tt.field || got.Error != tt.msg {
			t.Fatalf("%s: field error = %+v, want %s %q", tt.code, got, tt.field, tt.msg)
		}
	}
}

func TestBindAndValidate_BindError(t *testing.T) {
	err := bind(t, "/_error/abc", "abc", &codeRequest{})

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400 HTTPError", err)
	}
	if httpErr.Errors != nil {
		t.Fatalf("bind error carries field errors: %+v", httpErr.Errors)
	}
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	err := bind(t, "/", "", &customRequest{})

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want HTTPError", err)
	}
	if len(httpErr.Errors) != 1 || httpErr.Errors[0].Field != "code" || httpErr.Errors[0].Error != "is reserved" {
		t.Fatalf("field errors = %+v", httpErr.Errors)
	}
}

func TestExtractValidationError_UnknownError(t *testing.T) {
	msg, fieldErrors := extractValidationError(errors.New("upstream lookup failed"))

	if msg != "Validation failed" || len(fieldErrors) != 1 || !strings.Contains(fieldErrors[0].Error, "upstream") {
		t.Fatalf("got %q %+v", msg, fieldErrors)
	}
}
