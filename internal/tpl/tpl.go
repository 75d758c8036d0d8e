// Package tpl loads and renders the application's HTML templates.
//
// Templates live in an fs.FS (a directory on disk in production, an
// embedded or in-memory filesystem in tests) and are addressed by
// namespaced identifiers:
//
//	@App/Exception/error404.html.gohtml -> Exception/error404.html.gohtml
//
// Every page is parsed together with the configured layout files, has the
// sprig function library available, and is compiled once and cached unless
// caching is turned off.
package tpl

import (
	"bytes"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/errorpage/internal/errorrenderer"
)

// DefaultNamespace is the namespace that maps to the root of the template
// filesystem.
const DefaultNamespace = errorrenderer.TemplateNamespace

var (
	// ErrNotFound is returned by Render when the named template does not exist.
	ErrNotFound = errors.New("template not found")

	// ErrUnknownNamespace is returned by Render for identifiers whose
	// "@namespace" prefix is not served by the engine.
	ErrUnknownNamespace = errors.New("unknown template namespace")
)

var _ errorrenderer.TemplateEngine = (*Engine)(nil)

// Engine is an errorrenderer.TemplateEngine backed by html/template.
//
// It is safe for concurrent use.
type Engine struct {
	fsys      fs.FS
	namespace string
	layouts   []string
	funcs     template.FuncMap

	// compiled holds parsed templates keyed by their path in fsys.
	// nil when caching is disabled.
	compiled *cache.Cache

	logger *zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithNamespace sets the namespace served from the root of the filesystem.
// The leading "@" is optional.
func WithNamespace(namespace string) Option {
	return func(e *Engine) {
		if namespace != "" && !strings.HasPrefix(namespace, "@") {
			namespace = "@" + namespace
		}
		if namespace != "" {
			e.namespace = namespace
		}
	}
}

// WithCache turns the compiled template cache on or off. With the cache off
// every Render re-reads the files, which is what you want while editing
// templates.
func WithCache(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.compiled = cache.New(cache.NoExpiration, cache.NoExpiration)
		} else {
			e.compiled = nil
		}
	}
}

// WithLayouts adds glob patterns (relative to the filesystem root) of files
// parsed alongside every page, e.g. "layouts/*.gohtml".
func WithLayouts(patterns ...string) Option {
	return func(e *Engine) {
		e.layouts = append(e.layouts, patterns...)
	}
}

// WithFuncs adds template functions on top of the sprig library.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		for name, fn := range funcs {
			e.funcs[name] = fn
		}
	}
}

// WithLogger sets the logger used to report template compilation at debug level.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine serving templates from fsys. Caching is on by default.
func New(fsys fs.FS, opts ...Option) *Engine {
	nop := zerolog.Nop()

	e := &Engine{
		fsys:      fsys,
		namespace: DefaultNamespace,
		funcs:     sprig.FuncMap(),
		compiled:  cache.New(cache.NoExpiration, cache.NoExpiration),
		logger:    &nop,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Namespace returns the namespace served from the filesystem root.
func (e *Engine) Namespace() string {
	return e.namespace
}

// resolve maps a template identifier to a path inside fsys.
func (e *Engine) resolve(name string) (string, error) {
	if strings.HasPrefix(name, "@") {
		namespace, rest, _ := strings.Cut(name, "/")
		if namespace != e.namespace {
			return "", errors.Wrapf(ErrUnknownNamespace, "%s in %s", namespace, name)
		}
		name = rest
	}

	if !fs.ValidPath(name) || name == "." {
		return "", errors.Wrapf(ErrNotFound, "invalid template name %q", name)
	}

	return name, nil
}

// Exists reports whether name refers to a template file.
//
// Unknown namespaces and malformed names are reported as missing. Any other
// filesystem failure is returned.
func (e *Engine) Exists(name string) (bool, error) {
	p, err := e.resolve(name)
	if err != nil {
		return false, nil
	}

	info, err := fs.Stat(e.fsys, p)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrInvalid):
		return false, nil
	case err != nil:
		return false, errors.Wrapf(err, "failed to look up template %s", name)
	}

	return !info.IsDir(), nil
}

// Render executes the named template with data.
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	tmpl, err := e.load(name)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %s", name)
	}

	return body.String(), nil
}

// Flush drops every compiled template.
func (e *Engine) Flush() {
	if e.compiled != nil {
		e.compiled.Flush()
	}
}

func (e *Engine) load(name string) (*template.Template, error) {
	p, err := e.resolve(name)
	if err != nil {
		return nil, err
	}

	if e.compiled != nil {
		if cached, ok := e.compiled.Get(p); ok {
			return cached.(*template.Template), nil
		}
	}

	tmpl, err := e.parse(p)
	if err != nil {
		return nil, err
	}

	if e.compiled != nil {
		e.compiled.Set(p, tmpl, cache.NoExpiration)
	}

	e.logger.Debug().
		Str("template", name).
		Str("path", p).
		Bool("cached", e.compiled != nil).
		Msg("compiled template")

	return tmpl, nil
}

// parse compiles the page at p together with the layouts. Layouts are parsed
// first so the page can override blocks they define.
func (e *Engine) parse(p string) (*template.Template, error) {
	if _, err := fs.Stat(e.fsys, p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNotFound, "%s", p)
		}
		return nil, errors.Wrapf(err, "failed to look up template %s", p)
	}

	tmpl := template.New(path.Base(p)).Funcs(e.funcs)

	layouts, err := e.layoutFiles(p)
	if err != nil {
		return nil, err
	}
	if len(layouts) > 0 {
		if tmpl, err = tmpl.ParseFS(e.fsys, layouts...); err != nil {
			return nil, errors.Wrapf(err, "failed to parse layouts for %s", p)
		}
	}

	if tmpl, err = tmpl.ParseFS(e.fsys, p); err != nil {
		return nil, errors.Wrapf(err, "failed to parse template %s", p)
	}

	return tmpl, nil
}

// layoutFiles expands the layout patterns. Patterns matching nothing are
// skipped, and the page itself is never parsed as its own layout.
func (e *Engine) layoutFiles(page string) ([]string, error) {
	var files []string
	for _, pattern := range e.layouts {
		matches, err := fs.Glob(e.fsys, pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid layout pattern %q", pattern)
		}
		for _, m := range matches {
			if m != page {
				files = append(files, m)
			}
		}
	}
	return files, nil
}
