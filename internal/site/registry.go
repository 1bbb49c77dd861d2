// Package site hosts the configuration hooks a blog registers and the
// build that renders content through them.
package site

import (
	"context"
	"fmt"
	"path"
	"reflect"
	"sort"
	"sync"

	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/markdown"
	"git.home.luguber.info/inful/blogkit/internal/passthrough"
)

// CollectionFunc derives a named collection from the built-in one.
type CollectionFunc func(c *content.Collection) any

// ContextFilter produces a filter bound to the context of one build. Use it
// for filters that block (file or network access) so they observe
// cancellation.
type ContextFilter func(ctx context.Context) any

type funcKind string

const (
	kindFilter     funcKind = "filter"
	kindShortcode  funcKind = "shortcode"
	kindPairedCode funcKind = "paired shortcode"
)

type templateFunc struct {
	kind  funcKind
	fn    any
	bound ContextFilter
}

// Registry collects filters, shortcodes, collections, passthrough copies,
// layout aliases and the markdown renderer. Filters and shortcodes share
// one namespace since both become template functions.
type Registry struct {
	mu          sync.RWMutex
	funcs       map[string]templateFunc
	collections map[string]CollectionFunc
	passthrough []passthrough.Mapping
	aliases     map[string]string
	markdown    *markdown.Renderer
}

// NewRegistry returns an empty registry using the default markdown renderer.
func NewRegistry() *Registry {
	return &Registry{
		funcs:       make(map[string]templateFunc),
		collections: make(map[string]CollectionFunc),
		aliases:     make(map[string]string),
		markdown:    markdown.New(markdown.DefaultOptions()),
	}
}

// AddFilter registers a template filter. In templates the filtered value is
// the last argument: {{ .Date | readableDate }}.
func (r *Registry) AddFilter(name string, fn any) error {
	return r.addFunc(name, templateFunc{kind: kindFilter, fn: fn})
}

// AddContextFilter registers a filter created per build from the build's context.
func (r *Registry) AddContextFilter(name string, factory ContextFilter) error {
	if factory == nil {
		return errors.ConfigError(fmt.Sprintf("filter %q: nil factory", name)).Build()
	}
	return r.addFunc(name, templateFunc{kind: kindFilter, bound: factory})
}

// AddShortcode registers a shortcode: {{ icon "camera" }}.
func (r *Registry) AddShortcode(name string, fn any) error {
	return r.addFunc(name, templateFunc{kind: kindShortcode, fn: fn})
}

// AddPairedShortcode registers a shortcode wrapping a body. The body is
// piped in and arrives as the last argument:
//
//	{{ "Body text" | accordion "Title" "#parent" }}
func (r *Registry) AddPairedShortcode(name string, fn any) error {
	if err := checkFunc(fn); err != nil {
		return errors.ConfigError(fmt.Sprintf("paired shortcode %q: %v", name, err)).Build()
	}
	if reflect.TypeOf(fn).NumIn() == 0 {
		return errors.ConfigError(fmt.Sprintf("paired shortcode %q must accept its body", name)).Build()
	}
	return r.addFunc(name, templateFunc{kind: kindPairedCode, fn: fn})
}

// AddPairedContextShortcode registers a paired shortcode created per build,
// for shortcodes that keep state scoped to one build.
func (r *Registry) AddPairedContextShortcode(name string, factory ContextFilter) error {
	if factory == nil {
		return errors.ConfigError(fmt.Sprintf("paired shortcode %q: nil factory", name)).Build()
	}
	return r.addFunc(name, templateFunc{kind: kindPairedCode, bound: factory})
}

func (r *Registry) addFunc(name string, tf templateFunc) error {
	if name == "" {
		return errors.ConfigError(fmt.Sprintf("%s name must not be empty", tf.kind)).Build()
	}
	if tf.bound == nil {
		if err := checkFunc(tf.fn); err != nil {
			return errors.ConfigError(fmt.Sprintf("%s %q: %v", tf.kind, name, err)).Build()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, dup := r.funcs[name]; dup {
		return errors.ConfigError(fmt.Sprintf("%s %q already registered as %s", tf.kind, name, prev.kind)).Build()
	}
	r.funcs[name] = tf
	return nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// checkFunc enforces what text/template and html/template accept so that
// a bad registration fails here instead of panicking inside Funcs.
func checkFunc(fn any) error {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return fmt.Errorf("expected a function, got %T", fn)
	}
	switch {
	case t.NumOut() == 1:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return fmt.Errorf("must return one value, or a value and an error")
	}
	return nil
}

// AddCollection registers a custom collection exposed as .Collections.<name>.
func (r *Registry) AddCollection(name string, fn CollectionFunc) error {
	if name == "" || fn == nil {
		return errors.ConfigError("collection needs a name and a function").Build()
	}
	if name == content.CollectionAll {
		return errors.ConfigError(fmt.Sprintf("collection name %q is built in", name)).Build()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.collections[name]; dup {
		return errors.ConfigError(fmt.Sprintf("collection %q already registered", name)).Build()
	}
	r.collections[name] = fn
	return nil
}

// AddPassthroughCopy copies from (relative to the input dir) to to
// (relative to the output dir) on every build.
func (r *Registry) AddPassthroughCopy(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passthrough = append(r.passthrough, passthrough.Mapping{From: from, To: to})
}

// AddLayoutAlias lets pages say `layout: alias` for a layout at target,
// relative to the input dir.
func (r *Registry) AddLayoutAlias(alias, target string) error {
	if alias == "" || target == "" {
		return errors.ConfigError("layout alias needs a name and a target").Build()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, dup := r.aliases[alias]; dup && prev != target {
		return errors.ConfigError(fmt.Sprintf("layout alias %q already points to %s", alias, prev)).Build()
	}
	r.aliases[alias] = target
	return nil
}

// SetMarkdown replaces the markdown renderer. nil restores the default.
func (r *Registry) SetMarkdown(m *markdown.Renderer) {
	if m == nil {
		m = markdown.New(markdown.DefaultOptions())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markdown = m
}

// Markdown returns the configured renderer.
func (r *Registry) Markdown() *markdown.Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.markdown
}

// LayoutAlias resolves alias to its target.
func (r *Registry) LayoutAlias(alias string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.aliases[alias]
	return t, ok
}

// LayoutTargets lists the files aliases point to. They are layouts, not pages.
func (r *Registry) LayoutTargets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.aliases))
	for _, t := range r.aliases {
		out = append(out, path.Clean(t))
	}
	sort.Strings(out)
	return out
}

// Passthrough returns the registered copies in registration order.
func (r *Registry) Passthrough() []passthrough.Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]passthrough.Mapping, len(r.passthrough))
	copy(out, r.passthrough)
	return out
}

// Names lists every registered filter and shortcode, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for n := range r.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FuncMap returns every filter and shortcode as template functions.
// Context filters are bound to ctx.
func (r *Registry) FuncMap(ctx context.Context) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := make(map[string]any, len(r.funcs))
	for name, tf := range r.funcs {
		if tf.bound == nil {
			m[name] = tf.fn
			continue
		}
		fn := tf.bound(ctx)
		if err := checkFunc(fn); err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("%s %q: %v", tf.kind, name, err)).Build()
		}
		m[name] = fn
	}
	return m, nil
}

// Collections builds the template view of c: "all", one entry per tag and
// one per registered collection.
func (r *Registry) Collections(c *content.Collection) map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[string]any{content.CollectionAll: c.All()}
	for _, tag := range c.TagNames() {
		if tag == content.CollectionAll {
			continue
		}
		out[tag] = c.ByTag(tag)
	}
	for name, fn := range r.collections {
		out[name] = fn(c)
	}
	return out
}
