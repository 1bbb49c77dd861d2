// Package siteconfig registers the blog's filters, shortcodes, collections,
// passthrough copies and layout aliases.
package siteconfig

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/config"
	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/exif"
	"git.home.luguber.info/inful/blogkit/internal/filters"
	"git.home.luguber.info/inful/blogkit/internal/markdown"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
	"git.home.luguber.info/inful/blogkit/internal/passthrough"
	"git.home.luguber.info/inful/blogkit/internal/shortcodes"
	"git.home.luguber.info/inful/blogkit/internal/site"
	"git.home.luguber.info/inful/blogkit/internal/tags"
)

// DefaultPassthrough lists the files copied verbatim into every build.
var DefaultPassthrough = []passthrough.Mapping{
	{From: "source/images", To: "images"},
	{From: "source/manifest.json", To: "manifest.json"},
	{From: "source/robots.txt", To: "robots.txt"},
	{From: "source/_includes/gridzy/gridzy.min.css", To: "css/gridzy.min.css"},
	{From: "source/_includes/partial-js/bootstrap.js", To: "js/bootstrap.js"},
	{From: "source/_includes/gridzy/gridzy.min.js", To: "js/gridzy.min.js"},
}

// DefaultLayoutAliases maps short layout names to their files.
var DefaultLayoutAliases = map[string]string{
	"post": "source/layouts/post.njk",
}

// Deps are the services the registered hooks use.
type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Recorder metrics.Recorder
	// Icons defaults to the configured icons dir.
	Icons fs.FS
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Deps) defaults() {
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Recorder == nil {
		d.Recorder = metrics.NoopRecorder{}
	}
	if d.Icons == nil {
		dir := d.Config.IconsDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(d.Config.Dir.Input, dir)
		}
		d.Icons = os.DirFS(dir)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

// Register wires everything the blog's templates rely on into reg.
func Register(reg *site.Registry, deps Deps) error {
	deps.defaults()
	cfg := deps.Config

	if err := registerFilters(reg, deps); err != nil {
		return err
	}
	if err := registerShortcodes(reg, deps); err != nil {
		return err
	}
	if err := reg.AddCollection("tagList", func(c *content.Collection) any {
		return tags.Aggregate(c.All())
	}); err != nil {
		return err
	}

	for _, m := range DefaultPassthrough {
		reg.AddPassthroughCopy(m.From, m.To)
	}
	for alias, target := range DefaultLayoutAliases {
		if _, ok := cfg.LayoutAliases[alias]; ok {
			continue
		}
		if err := reg.AddLayoutAlias(alias, target); err != nil {
			return err
		}
	}
	for alias, target := range cfg.LayoutAliases {
		if err := reg.AddLayoutAlias(alias, target); err != nil {
			return err
		}
	}

	reg.SetMarkdown(markdown.New(cfg.MarkdownOptions()))
	deps.Logger.Debug("Site hooks registered", slog.Int("funcs", len(reg.Names())))
	return nil
}

// In templates the piped value is the last argument, so filters taking
// options put them first: {{ .Date | formatDate "%Y" }}.
func registerFilters(reg *site.Registry, deps Deps) error {
	cfg := deps.Config
	jsmin := filters.NewJSMinifier(cfg.Environment, deps.Logger, deps.Recorder)
	photos := &exif.Reader{Root: cfg.Dir.Input, Logger: deps.Logger}

	plain := []struct {
		name string
		fn   any
	}{
		{"readableDate", filters.ReadableDate},
		{"postDateString", filters.PostDateString},
		{"htmlDateString", filters.HTMLDateString},
		{"formatDate", func(pattern string, date any) (string, error) { return filters.FormatDate(date, pattern) }},
		{"dateToRfc3339", filters.DateToRFC3339},
		{"dateToRfc822", filters.DateToRFC822},
		{"newestCollectionItemDate", filters.NewestItemDate},
		{"head", func(n int, list any) (any, error) { return filters.Head(list, n) }},
		{"minifyCSS", minifyCSS},
		{"slugURL", filters.SlugURL},
		{"formatFStop", filters.FormatFStop},
		{"absoluteURL", func(base, p string) (string, error) { return filters.AbsoluteURL(p, base) }},
		{"htmlToAbsoluteURLs", func(base string, markup any) (template.HTML, error) { return filters.HTMLToAbsoluteURLs(markup, base) }},
		{"stripHTML", filters.StripHTML},
		{"safe", safe},
		{"navigation", func(items []*content.Item) []*content.NavNode { return filters.Navigation(items) }},
		{"isReservedTag", tags.IsReserved},
		{"filterTagList", filterTagList},
	}
	for _, f := range plain {
		if err := reg.AddFilter(f.name, f.fn); err != nil {
			return err
		}
	}

	if err := reg.AddContextFilter("jsmin", func(ctx context.Context) any {
		return func(code string) (template.JS, error) {
			out, err := jsmin.Minify(ctx, code)
			// #nosec G203 -- site-authored script source
			return template.JS(out), err
		}
	}); err != nil {
		return err
	}
	return reg.AddContextFilter("exifData", func(ctx context.Context) any {
		return func(path string) (exif.Photo, error) { return photos.Load(ctx, path) }
	})
}

func registerShortcodes(reg *site.Registry, deps Deps) error {
	icons := shortcodes.NewIcons(deps.Icons)
	if err := reg.AddShortcode("icon", icons.Icon); err != nil {
		return err
	}
	if err := reg.AddShortcode("dateYear", shortcodes.Year(deps.Now)); err != nil {
		return err
	}
	// Ids are unique within one build, so each build gets a fresh set.
	return reg.AddPairedContextShortcode("accordion", func(context.Context) any {
		return shortcodes.NewAccordionIDs().Accordion
	})
}

func minifyCSS(code string) (template.CSS, error) {
	out, err := filters.MinifyCSS(code)
	// #nosec G203 -- site-authored stylesheet
	return template.CSS(out), err
}

// safe marks a value as trusted so html/template inserts it unescaped.
// Values that already carry a content type keep it.
func safe(v any) any {
	switch s := v.(type) {
	case template.HTML, template.CSS, template.JS, template.JSStr, template.URL, template.HTMLAttr:
		return s
	case nil:
		return template.HTML("")
	case string:
		// #nosec G203 -- explicit opt-out used by site templates
		return template.HTML(s)
	default:
		// #nosec G203 -- explicit opt-out used by site templates
		return template.HTML(fmt.Sprint(s))
	}
}
