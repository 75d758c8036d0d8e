package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/errorpage/internal/errorrenderer"
	"github.com/deppfellow/errorpage/internal/errs"
	"github.com/deppfellow/errorpage/internal/server"
	"github.com/deppfellow/errorpage/internal/validation"
)

// PreviewMessage is the message of the sample error rendered by the preview
// endpoints.
const PreviewMessage = "This is a sample exception."

// ErrorPageHandler serves previews of the application's error pages. The
// pages are always rendered as production would render them, whatever the
// debug setting.
type ErrorPageHandler struct {
	Handler
}

func NewErrorPageHandler(s *server.Server) *ErrorPageHandler {
	return &ErrorPageHandler{
		Handler: NewHandler(s),
	}
}

// PreviewRequest selects the status code to preview.
type PreviewRequest struct {
	Code int `param:"code" validate:"required,min=400,max=599"`
}

func (r *PreviewRequest) Validate() error {
	return validation.Struct(r)
}

// TemplateResponse tells which template renders a status code.
type TemplateResponse struct {
	StatusCode int    `json:"status_code"`
	Template   string `json:"template"`
	Found      bool   `json:"found"`
}

// Preview renders the error page for a sample error with the requested
// status. The response carries that status too.
func (h *ErrorPageHandler) Preview(c echo.Context, req *PreviewRequest) (*errorrenderer.FlattenedError, error) {
	return h.server.PreviewRenderer.Render(errs.NewHTTPError(req.Code, PreviewMessage))
}

// Template reports the template the error page for the requested status is
// rendered from, if any.
func (h *ErrorPageHandler) Template(c echo.Context, req *PreviewRequest) (*TemplateResponse, error) {
	name, found, err := h.server.PreviewRenderer.FindTemplate(req.Code)
	if err != nil {
		return nil, err
	}

	return &TemplateResponse{
		StatusCode: req.Code,
		Template:   name,
		Found:      found,
	}, nil
}

// PreviewRoute and TemplateRoute are the echo handlers for Preview and Template.
func (h *ErrorPageHandler) PreviewRoute() echo.HandlerFunc {
	return HandlePage(h.Handler, h.Preview, newPreviewRequest)
}

func (h *ErrorPageHandler) TemplateRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.Template, http.StatusOK, newPreviewRequest)
}

func newPreviewRequest() *PreviewRequest {
	return &PreviewRequest{}
}
