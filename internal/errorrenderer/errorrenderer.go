// Package errorrenderer turns an error into a rendered, self-contained HTML
// error page.
//
// Rendering happens in two layers:
//   - HTMLRenderer flattens any error into a FlattenedError and renders the
//     built-in page (a diagnostic page in debug mode, a minimal one otherwise).
//   - TemplateRenderer wraps a fallback renderer and, outside debug mode,
//     replaces the body with an application template chosen by status code.
package errorrenderer

// ErrorRenderer converts an error into a FlattenedError whose body is a
// complete HTML document.
type ErrorRenderer interface {
	Render(err error) (*FlattenedError, error)
}

// TemplateEngine resolves and renders named templates.
type TemplateEngine interface {
	// Exists reports whether a template with the given name can be loaded.
	Exists(name string) (bool, error)

	// Render executes the named template with data and returns the output.
	Render(name string, data map[string]any) (string, error)
}
