package errorrenderer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/pkg/errors"
)

const defaultCharset = "UTF-8"

// HTMLRenderer is the built-in renderer. It never consults application
// templates, so it keeps working when those are missing or broken.
type HTMLRenderer struct {
	debug   bool
	charset string
}

// HTMLOption configures an HTMLRenderer.
type HTMLOption func(*HTMLRenderer)

// WithCharset sets the charset announced in the page and Content-Type header.
func WithCharset(charset string) HTMLOption {
	return func(r *HTMLRenderer) {
		if charset != "" {
			r.charset = charset
		}
	}
}

// NewHTMLRenderer creates the built-in renderer. In debug mode the page shows
// the error message, type, stack trace and wrapped errors.
func NewHTMLRenderer(debug bool, opts ...HTMLOption) *HTMLRenderer {
	r := &HTMLRenderer{
		debug:   debug,
		charset: defaultCharset,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type htmlPageData struct {
	Exception *FlattenedError
	Charset   string
}

// Render flattens err and renders the built-in page into it.
func (r *HTMLRenderer) Render(err error) (*FlattenedError, error) {
	flat := Flatten(err)

	flat.Headers().Set("Content-Type", "text/html; charset="+r.charset)

	page := productionPageTemplate
	if r.debug {
		page = debugPageTemplate

		flat.Headers().Set("X-Debug-Exception", url.PathEscape(flat.Message()))
		if trace := flat.Trace(); len(trace) > 0 {
			flat.Headers().Set("X-Debug-Exception-File", fmt.Sprintf("%s:%d", url.PathEscape(trace[0].File), trace[0].Line))
		}
	}

	var body bytes.Buffer
	if err := page.Execute(&body, htmlPageData{Exception: flat, Charset: r.charset}); err != nil {
		return nil, errors.Wrapf(err, "failed to render %d error page", flat.StatusCode())
	}

	return flat.SetAsString(body.String()), nil
}

const pageStyle = `
      body { font-family: "Helvetica", "Arial", sans-serif; background-color: #f9f9f9; color: #222; margin: 0; }
      .container { max-width: 1024px; margin: 0 auto; padding: 2em; }
      h1 { font-weight: normal; }
      .status { color: #b0413e; }
      pre { background: #fff; border: 1px solid #ddd; padding: 1em; overflow-x: auto; }
      ol.trace { font-family: monospace; font-size: 0.9em; }
      .previous { margin-top: 2em; border-top: 1px solid #ddd; }`

const productionPageTpl = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="{{.Charset}}" />
    <meta name="robots" content="noindex,nofollow,noarchive" />
    <title>An Error Occurred: {{.Exception.StatusText}}</title>
    <style>` + pageStyle + `
    </style>
  </head>
  <body>
    <div class="container">
      <h1>Oops! An Error Occurred</h1>
      <h2>The server returned a "<span class="status">{{.Exception.StatusCode}} {{.Exception.StatusText}}</span>".</h2>
      <p>
        Something is broken. Please let us know what you were doing when this error occurred.
        We will fix it as soon as possible. Sorry for any inconvenience caused.
      </p>
    </div>
  </body>
</html>`

const debugPageTpl = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="{{.Charset}}" />
    <meta name="robots" content="noindex,nofollow,noarchive" />
    <title>{{.Exception.Message}} ({{.Exception.StatusCode}} {{.Exception.StatusText}})</title>
    <style>` + pageStyle + `
    </style>
  </head>
  <body>
    <div class="container">
      <p class="status">{{.Exception.Class}} &middot; HTTP {{.Exception.StatusCode}} {{.Exception.StatusText}}</p>
      <h1>{{.Exception.Message}}</h1>
      {{template "trace" .Exception}}
      {{range .Exception.AllPrevious}}
      <div class="previous">
        <p class="status">Caused by {{.Class}}</p>
        <h2>{{.Message}}</h2>
        {{template "trace" .}}
      </div>
      {{end}}
    </div>
  </body>
</html>
{{define "trace"}}{{with .Trace}}
      <ol class="trace">
        {{range .}}<li>{{.Function}} <small>{{.File}}:{{.Line}}</small></li>
        {{end}}
      </ol>{{end}}{{end}}`

var (
	productionPageTemplate = template.Must(template.New("ErrorPage").Parse(productionPageTpl))
	debugPageTemplate      = template.Must(template.New("DebugErrorPage").Parse(debugPageTpl))
)
