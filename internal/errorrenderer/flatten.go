package errorrenderer

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/deppfellow/errorpage/internal/errs"
)

// Frame is one entry of a flattened stack trace.
type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
}

// FlattenedError is a serializable snapshot of an error, detached from the
// original value so it can be handed to templates and response writers.
type FlattenedError struct {
	message    string
	class      string
	statusCode int
	statusText string
	headers    http.Header
	trace      []Frame
	previous   *FlattenedError
	asString   string
}

type statusCoder interface {
	StatusCode() int
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Flatten builds a FlattenedError from err.
//
// The status code is taken from *errs.HTTPError, *echo.HTTPError or any error
// with a StatusCode() int method, searching the whole chain. Anything else,
// or a status outside 100..599, is a 500.
func Flatten(err error) *FlattenedError {
	if err == nil {
		err = errs.NewInternalServerError()
	}

	flat := &FlattenedError{
		message: err.Error(),
		class:   fmt.Sprintf("%T", err),
		headers: http.Header{},
		trace:   traceOf(err),
	}
	flat.SetStatusCode(statusOf(err))

	if prev := errors.Unwrap(err); prev != nil {
		flat.previous = Flatten(prev)
	}

	return flat
}

func statusOf(err error) int {
	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError
	var coder statusCoder

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	case errors.As(err, &coder):
		return coder.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}

// traceOf returns the frames of the deepest pkg/errors stack in the chain,
// which is the one closest to where the error originated.
func traceOf(err error) []Frame {
	var deepest pkgerrors.StackTrace
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			deepest = st.StackTrace()
		}
	}

	frames := make([]Frame, 0, len(deepest))
	for _, f := range deepest {
		function, file, _ := strings.Cut(fmt.Sprintf("%+s", f), "\n\t")
		frames = append(frames, Frame{
			Function: function,
			File:     file,
			Line:     lineOf(f),
		})
	}
	return frames
}

func lineOf(f pkgerrors.Frame) int {
	line, err := strconv.Atoi(fmt.Sprintf("%d", f))
	if err != nil {
		return 0
	}
	return line
}

func (f *FlattenedError) Message() string { return f.message }

// Class is the Go type of the original error, e.g. "*errs.HTTPError".
func (f *FlattenedError) Class() string { return f.class }

func (f *FlattenedError) StatusCode() int { return f.statusCode }

func (f *FlattenedError) StatusText() string { return f.statusText }

// SetStatusCode sets the status and its text. Out-of-range codes become 500.
func (f *FlattenedError) SetStatusCode(code int) *FlattenedError {
	if code < 100 || code > 599 {
		code = http.StatusInternalServerError
	}
	f.statusCode = code
	f.statusText = http.StatusText(code)
	return f
}

// Headers are response headers the renderer wants sent with the body.
func (f *FlattenedError) Headers() http.Header { return f.headers }

func (f *FlattenedError) Trace() []Frame { return f.trace }

func (f *FlattenedError) Previous() *FlattenedError { return f.previous }

// AllPrevious returns the wrapped errors, outermost first.
func (f *FlattenedError) AllPrevious() []*FlattenedError {
	var all []*FlattenedError
	for p := f.previous; p != nil; p = p.previous {
		all = append(all, p)
	}
	return all
}

// AsString returns the rendered body.
func (f *FlattenedError) AsString() string { return f.asString }

// SetAsString replaces the rendered body.
func (f *FlattenedError) SetAsString(body string) *FlattenedError {
	f.asString = body
	return f
}
