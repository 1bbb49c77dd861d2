// Package markdown configures the goldmark renderer used for markdown content.
package markdown

import (
	"bytes"
	"html/template"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/anchor"
)

// Options mirror the knobs the site configuration exposes.
type Options struct {
	// HTML passes raw HTML in the source through to the output.
	HTML bool
	// Breaks turns single newlines into <br>.
	Breaks bool
	// Linkify autolinks bare URLs.
	Linkify bool
	// Anchors adds a permalink to every heading.
	Anchors         bool
	PermalinkClass  string
	PermalinkSymbol string
	// HighlightStyle is a chroma style name; empty disables highlighting.
	HighlightStyle string
}

// DefaultOptions returns the settings the blog is built with.
func DefaultOptions() Options {
	return Options{
		HTML:            true,
		Breaks:          true,
		Linkify:         true,
		Anchors:         true,
		PermalinkClass:  "direct-link",
		PermalinkSymbol: "#",
		HighlightStyle:  "github",
	}
}

// Renderer converts markdown to HTML.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a renderer from opts.
func New(opts Options) *Renderer {
	exts := []goldmark.Extender{extension.GFM}
	if !opts.Linkify {
		exts = []goldmark.Extender{extension.Table, extension.Strikethrough, extension.TaskList}
	}
	if opts.Anchors {
		exts = append(exts, &anchor.Extender{
			Texter:     anchor.Text(opts.PermalinkSymbol),
			Position:   anchor.After,
			Attributer: anchor.Attributes{"class": opts.PermalinkClass},
		})
	}
	if opts.HighlightStyle != "" {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(opts.HighlightStyle),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		))
	}

	var htmlOpts []renderer.Option
	if opts.HTML {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}
	if opts.Breaks {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}

	return &Renderer{md: goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(htmlOpts...),
	)}
}

// Render converts src to HTML. Heading ids are slugs, de-duplicated per document.
func (r *Renderer) Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	if err := r.md.Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return "", err
	}
	// #nosec G203 -- markdown sources are the site's own content
	return template.HTML(buf.String()), nil
}
