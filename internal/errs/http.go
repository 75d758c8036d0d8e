package errs

import (
	"net/http"
	"strings"
)

// FieldError is a single field-level validation failure.
//
//	{ "field": "code", "error": "must be at least 400" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType tells a client what to do next.
type ActionType string

const (
	// ActionTypeRedirect asks the client to navigate to Action.Value.
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional client instruction attached to an HTTPError.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error shape returned to API clients.
//
// Status drives both the response code and the template chosen for the
// HTML error page. Override signals that Message is safe to show verbatim.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors, typically for form inputs.
	Errors []FieldError `json:"errors"`

	// Action is an optional client instruction (redirect, etc.).
	Action *Action `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Only the type is compared,
// so errors.Is(err, &HTTPError{}) answers "is this one of ours".
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// StatusCode returns the HTTP status carried by the error.
func (e *HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	clone := *e
	clone.Message = message
	return &clone
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

// StatusCodeName returns the machine-readable code for an HTTP status,
// e.g. 503 -> "SERVICE_UNAVAILABLE". Unknown statuses map to "ERROR".
func StatusCodeName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return MakeUpperCaseWithUnderscores(text)
}
