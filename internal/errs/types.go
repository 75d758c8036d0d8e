package errs

import (
	"net/http"
)

// NewHTTPError creates an HTTPError for an arbitrary status.
//
// The code is derived from the status text ("I'm a teapot" -> "I'M_A_TEAPOT").
// When message is empty the status text is used instead.
func NewHTTPError(status int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}

	return &HTTPError{
		Code:    StatusCodeName(status),
		Message: message,
		Status:  status,
	}
}

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
//
// override lets the error handler decide whether message may be shown to the
// client as-is.
func NewUnauthorizedError(message string, override bool) *HTTPError {
	err := NewHTTPError(http.StatusUnauthorized, message)
	err.Override = override
	return err
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string, override bool) *HTTPError {
	err := NewHTTPError(http.StatusForbidden, message)
	err.Override = override
	return err
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// Extra payload:
//   - code: optional custom code (defaults to "BAD_REQUEST")
//   - errors: optional field errors
//   - action: optional client instruction
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	err := NewHTTPError(http.StatusBadRequest, message)
	if code != nil {
		err.Code = *code
	}
	err.Override = override
	err.Errors = errors
	err.Action = action
	return err
}

// NewNotFoundError creates a 404 Not Found HTTPError with an optional custom code.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	err := NewHTTPError(http.StatusNotFound, message)
	if code != nil {
		err.Code = *code
	}
	err.Override = override
	return err
}

// NewInternalServerError creates a generic 500.
//
// The message is always the status text; the real cause belongs in the logs,
// not in the response.
func NewInternalServerError() *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, "")
}

// ValidationError converts a validator error into a 400 Bad Request HTTPError.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
