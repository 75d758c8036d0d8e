package errorrenderer

import (
	"fmt"
)

// Template identifiers look like "@App/Exception/error404.html.gohtml".
// The namespace and extension must match the layout of the template
// directory, so they are fixed for the whole application.
const (
	TemplateNamespace = "@App"
	TemplateExtension = "gohtml"
)

// StatusTemplateName returns the identifier of the page for one status code.
func StatusTemplateName(statusCode int) string {
	return fmt.Sprintf("%s/Exception/error%d.html.%s", TemplateNamespace, statusCode, TemplateExtension)
}

// GenericTemplateName returns the identifier of the page used for every
// status that has no page of its own.
func GenericTemplateName() string {
	return fmt.Sprintf("%s/Exception/error.html.%s", TemplateNamespace, TemplateExtension)
}

// TemplateRenderer renders application error pages through a TemplateEngine
// and falls back to another ErrorRenderer in debug mode or when no page
// template exists.
//
// It holds no mutable state: concurrent use is safe as long as the engine and
// the fallback are.
type TemplateRenderer struct {
	engine   TemplateEngine
	fallback ErrorRenderer
	debug    bool
}

// NewTemplateRenderer creates a TemplateRenderer. A nil fallback is replaced
// by an HTMLRenderer with the same debug setting.
func NewTemplateRenderer(engine TemplateEngine, fallback ErrorRenderer, debug bool) *TemplateRenderer {
	if fallback == nil {
		// Inherit debug: in debug mode the fallback page is the only page shown.
		fallback = NewHTMLRenderer(debug)
	}

	return &TemplateRenderer{
		engine:   engine,
		fallback: fallback,
		debug:    debug,
	}
}

// Render produces the error page for cause.
//
// Errors from the fallback renderer and from the template engine are
// returned unchanged; nothing is swallowed here.
func (r *TemplateRenderer) Render(cause error) (*FlattenedError, error) {
	flat, err := r.fallback.Render(cause)
	if err != nil {
		return nil, err
	}

	if r.debug {
		return flat, nil
	}

	name, found, err := r.FindTemplate(flat.StatusCode())
	if err != nil {
		return nil, err
	}
	if !found {
		return flat, nil
	}

	body, err := r.engine.Render(name, map[string]any{
		"exception":   flat,
		"status_code": flat.StatusCode(),
		"status_text": flat.StatusText(),
	})
	if err != nil {
		return nil, err
	}

	return flat.SetAsString(body), nil
}

// FindTemplate returns the template used for statusCode: the status-specific
// page if it exists, otherwise the generic page if that exists.
func (r *TemplateRenderer) FindTemplate(statusCode int) (string, bool, error) {
	for _, name := range []string{StatusTemplateName(statusCode), GenericTemplateName()} {
		exists, err := r.engine.Exists(name)
		if err != nil {
			return "", false, err
		}
		if exists {
			return name, true, nil
		}
	}

	return "", false, nil
}
