// Package content models the site's source documents and the collections
// built from them.
package content

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"
)

// Format is a recognised template source format, named by file extension.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatNunjucks Format = "njk"
	FormatHTML     Format = "html"
	FormatLiquid   Format = "liquid"
)

// DefaultFormats lists the template formats the site is built from.
var DefaultFormats = []Format{FormatMarkdown, FormatNunjucks, FormatHTML, FormatLiquid}

// IsMarkdown reports whether f is rendered through the markdown engine.
func (f Format) IsMarkdown() bool { return f == FormatMarkdown }

// NavEntry is the navigation block a page declares in its frontmatter.
type NavEntry struct {
	Key    string
	Parent string
	Title  string
	Order  int
}

// Item is one piece of site content. Fields decoded from frontmatter are
// typed; everything else stays available in Data for templates.
type Item struct {
	// InputPath is slash-separated and relative to the input directory.
	InputPath  string
	SourcePath string
	Format     Format

	Title     string
	Date      time.Time
	Layout    string
	Permalink string
	// SkipWrite is set by `permalink: false`.
	SkipWrite bool
	Draft     bool
	// ExcludeFromCollections keeps feeds and sitemaps out of "all" and tag collections.
	ExcludeFromCollections bool
	// Tags is nil when the item declares no tags or the field is malformed.
	Tags []string
	Nav  *NavEntry
	Data map[string]any
	Body []byte

	// Set by the site builder.
	URL        string
	OutputPath string
	Content    template.HTML
}

// HasTags reports whether the item declared a usable tags field.
func (it *Item) HasTags() bool { return it.Tags != nil }

// FileSlug is the base file name without extension; index files use their directory name.
func (it *Item) FileSlug() string {
	base := it.InputPath
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, "."+string(it.Format))
	if base == "index" {
		dir := strings.TrimSuffix(it.InputPath, "/index."+string(it.Format))
		if dir == it.InputPath || dir == "" {
			return ""
		}
		if i := strings.LastIndex(dir, "/"); i >= 0 {
			return dir[i+1:]
		}
		return dir
	}
	return base
}

func (it *Item) String() string {
	return fmt.Sprintf("content.Item(%s)", it.InputPath)
}

// sortItems orders items by date, then input path.
func sortItems(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].InputPath < items[j].InputPath
	})
}
