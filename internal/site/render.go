package site

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	texttemplate "text/template"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/markdown"
)

const maxLayoutDepth = 16

// layoutFile is a parsed layout. Parent is the layout it renders into.
type layoutFile struct {
	name   string
	path   string
	parent string
	data   map[string]any
	body   string
}

// engine renders items for one build. It is not safe for concurrent use.
type engine struct {
	inputDir    string
	includesDir string
	formats     []content.Format
	reg         *Registry
	md          *markdown.Renderer
	funcs       map[string]any
	partials    *htmltemplate.Template
	layouts     map[string]*layoutFile
}

func newEngine(ctx context.Context, reg *Registry, inputDir, includesDir string, formats []content.Format) (*engine, error) {
	funcs, err := reg.FuncMap(ctx)
	if err != nil {
		return nil, err
	}
	e := &engine{
		inputDir:    inputDir,
		includesDir: includesDir,
		formats:     formats,
		reg:         reg,
		md:          reg.Markdown(),
		funcs:       funcs,
		layouts:     make(map[string]*layoutFile),
	}
	if err := e.loadPartials(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// loadPartials parses every template under the includes dir so pages and
// layouts can {{ template "partials/nav.njk" . }}.
func (e *engine) loadPartials(ctx context.Context) error {
	e.partials = htmltemplate.New("").Funcs(e.funcs)
	if _, err := os.Stat(e.includesDir); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(e.includesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		format, ok := e.formatOf(p)
		if !ok || format.IsMarkdown() {
			return nil
		}
		rel, err := filepath.Rel(e.includesDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		lf, err := readLayout(p, rel, format)
		if err != nil {
			return err
		}
		if _, err := e.partials.New(rel).Parse(lf.body); err != nil {
			return templateErr(err, "parse include", rel)
		}
		return nil
	})
}

func (e *engine) formatOf(p string) (content.Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(p), ".")
	for _, f := range e.formats {
		if string(f) == ext {
			return f, true
		}
	}
	return "", false
}

func readLayout(abs, rel string, format content.Format) (*layoutFile, error) {
	// #nosec G304 -- layouts come from the configured site dirs
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "read layout").Fatal().WithContext("path", rel).Build()
	}
	it, err := content.Parse(rel, format, src, time.Time{})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "parse layout frontmatter").Fatal().WithContext("path", rel).Build()
	}
	return &layoutFile{
		name:   "layout:" + rel,
		path:   rel,
		parent: it.Layout,
		data:   it.Data,
		body:   string(it.Body),
	}, nil
}

// layout resolves name through the registered aliases, then relative to
// the includes dir, trying each template extension when name has none.
func (e *engine) layout(name string) (*layoutFile, error) {
	var candidates []string
	if target, ok := e.reg.LayoutAlias(name); ok {
		candidates = []string{filepath.Join(e.inputDir, filepath.FromSlash(target))}
	} else {
		base := filepath.Join(e.includesDir, filepath.FromSlash(name))
		if path.Ext(name) != "" {
			candidates = append(candidates, base)
		} else {
			for _, f := range e.formats {
				candidates = append(candidates, base+"."+string(f))
			}
		}
	}

	for _, c := range candidates {
		if lf, ok := e.layouts[c]; ok {
			return lf, nil
		}
		if _, err := os.Stat(c); err != nil {
			continue
		}
		format, ok := e.formatOf(c)
		if !ok {
			format = content.FormatHTML
		}
		rel, err := filepath.Rel(e.inputDir, c)
		if err != nil {
			rel = c
		}
		lf, err := readLayout(c, filepath.ToSlash(rel), format)
		if err != nil {
			return nil, err
		}
		e.layouts[c] = lf
		return lf, nil
	}
	return nil, errors.TemplateError(fmt.Sprintf("layout %q not found", name)).WithContext("layout", name).Build()
}

// chain returns the layouts an item renders through, innermost first.
func (e *engine) chain(it *content.Item) ([]*layoutFile, error) {
	var out []*layoutFile
	seen := make(map[string]bool)
	for name := it.Layout; name != ""; {
		lf, err := e.layout(name)
		if err != nil {
			return nil, err
		}
		if seen[lf.name] || len(out) == maxLayoutDepth {
			return nil, errors.TemplateError(fmt.Sprintf("layout chain loops at %q", name)).
				WithContext("path", it.InputPath).
				Build()
		}
		seen[lf.name] = true
		out = append(out, lf)
		name = lf.parent
	}
	return out, nil
}

// renderContent renders the item's own body and stores it in it.Content.
// Markdown runs through text/template then the markdown renderer. Items
// written as scripts or stylesheets (permalink: /app.js) run through
// text/template alone. Every other item runs through html/template.
func (e *engine) renderContent(it *content.Item, data map[string]any) error {
	if it.Format.IsMarkdown() {
		src, err := e.executeText(it, data)
		if err != nil {
			return err
		}
		out, err := e.md.Render(src)
		if err != nil {
			return errors.WrapError(err, errors.CategoryMarkdown, "render markdown").Fatal().WithContext("path", it.InputPath).Build()
		}
		it.Content = out
		return nil
	}
	if writesScript(it) {
		out, err := e.executeText(it, data)
		if err != nil {
			return err
		}
		// #nosec G203 -- raw asset output, never embedded in a page
		it.Content = htmltemplate.HTML(out)
		return nil
	}

	set, err := e.partials.Clone()
	if err != nil {
		return templateErr(err, "clone includes", it.InputPath)
	}
	t, err := set.New(it.InputPath).Parse(string(it.Body))
	if err != nil {
		return templateErr(err, "parse", it.InputPath)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return templateErr(err, "execute", it.InputPath)
	}
	// #nosec G203 -- output of html/template
	it.Content = htmltemplate.HTML(buf.String())
	return nil
}

func (e *engine) executeText(it *content.Item, data map[string]any) ([]byte, error) {
	t, err := texttemplate.New(it.InputPath).Funcs(texttemplate.FuncMap(e.funcs)).Parse(string(it.Body))
	if err != nil {
		return nil, templateErr(err, "parse", it.InputPath)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, templateErr(err, "execute", it.InputPath)
	}
	return buf.Bytes(), nil
}

// writesScript reports whether it is written as a script or stylesheet.
// Markup outputs (html, xml feeds) keep html/template escaping.
func writesScript(it *content.Item) bool {
	switch strings.ToLower(filepath.Ext(it.OutputPath)) {
	case ".js", ".mjs", ".css":
		return true
	}
	return false
}

// applyLayouts wraps it.Content in each layout of the chain. Layout
// frontmatter fills keys the page leaves unset.
func (e *engine) applyLayouts(it *content.Item, data map[string]any) (string, error) {
	layouts, err := e.chain(it)
	if err != nil {
		return "", err
	}
	if len(layouts) == 0 {
		return string(it.Content), nil
	}
	// Executed sets cannot grow: parse every layout before running any.
	set, err := e.partials.Clone()
	if err != nil {
		return "", templateErr(err, "clone includes", it.InputPath)
	}
	for _, lf := range layouts {
		if set.Lookup(lf.name) != nil {
			continue
		}
		if _, err := set.New(lf.name).Parse(lf.body); err != nil {
			return "", templateErr(err, "parse layout", lf.path)
		}
	}

	current := it.Content
	for _, lf := range layouts {
		for k, v := range lf.data {
			if _, ok := data[k]; !ok {
				data[k] = v
			}
		}
		data[keyContent] = current
		var buf bytes.Buffer
		if err := set.ExecuteTemplate(&buf, lf.name, data); err != nil {
			return "", templateErr(err, "execute layout "+lf.path, it.InputPath)
		}
		// #nosec G203 -- output of html/template
		current = htmltemplate.HTML(buf.String())
	}
	return string(current), nil
}

func templateErr(err error, op, p string) error {
	return errors.WrapError(err, errors.CategoryTemplate, op+" template").Fatal().WithContext("path", p).Build()
}
