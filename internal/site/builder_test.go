package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogkit/internal/config"
	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/filters"
	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
}

func readOut(t *testing.T, root, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, "_site", filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(b)
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Dir.Input = root
	cfg.Dir.Output = filepath.Join(root, "_site")
	cfg.Site.URL = "https://example.com/"
	return cfg
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.AddFilter("readableDate", filters.ReadableDate))
	require.NoError(t, r.AddLayoutAlias("post", "source/layouts/post.njk"))
	return r
}

var blog = map[string]string{
	"source/_includes/base.njk": "<html><title>{{ .Title }}</title><body>{{ template \"partials/nav.njk\" . }}{{ .Content }}</body></html>",
	"source/_includes/partials/nav.njk": `<nav>{{ .Site.Title }}</nav>`,
	"source/_includes/gridzy/gridzy.min.js": "var a={{b}};",
	"source/_data/author.yaml":  "name: Kim\n",
	"source/_data/links.json":   `{"home": "https://kim.example"}`,
	"source/layouts/post.njk":   "---\nlayout: base.njk\nsection: posts\n---\n<article data-section=\"{{ .section }}\">{{ .Content }}</article>",
	"source/images/a.jpg":       "jpeg",
	"posts/trip.md": "---\ntitle: Trip\ndate: 2023-05-04\ntags: [travel, post]\nlayout: post\n---\n# Hello\n\n{{ .Page.Date | readableDate }} by {{ .Data.author.name }}\n",
	"posts/food.md": "---\ntitle: Food\ndate: 2023-06-01\ntags: food\nlayout: post\n---\nTasty <b>things</b>\n",
	"posts/draft.md": "---\ntitle: Draft\ndraft: true\n---\nnot yet\n",
	"index.njk":      "---\nlayout: base\ntitle: Home\n---\n{{ range .Collections.all }}<a href=\"{{ .URL }}\">{{ .Title }}</a>{{ end }}",
	"feed.njk":       "---\npermalink: /feed.xml\neleventyExcludeFromCollections: true\n---\n{{ range .Collections.all }}<entry>{{ .Content }}</entry>{{ end }}",
	"hidden.njk":     "---\npermalink: false\n---\nnever written",
}

type countingRecorder struct {
	metrics.NoopRecorder
	outcomes []metrics.BuildOutcome
	pages    int
	copied   int
}

func (c *countingRecorder) IncBuildOutcome(o metrics.BuildOutcome) { c.outcomes = append(c.outcomes, o) }
func (c *countingRecorder) AddPagesWritten(n int)                 { c.pages += n }
func (c *countingRecorder) AddPassthroughFiles(n int)             { c.copied += n }

func TestBuild_RendersSite(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, blog)
	reg := testRegistry(t)
	reg.AddPassthroughCopy("source/images", "images")
	reg.AddPassthroughCopy("source/robots.txt", "robots.txt") // missing, skipped
	rec := &countingRecorder{}

	report, err := NewBuilder(testConfig(root), reg, WithRecorder(rec)).Build(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.BuildID)
	assert.Equal(t, 4, report.Pages)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Passthrough)
	assert.Equal(t, metrics.OutcomeSuccess, report.Outcome)
	assert.Equal(t, []metrics.BuildOutcome{metrics.OutcomeSuccess}, rec.outcomes)
	assert.Equal(t, 4, rec.pages)
	assert.Equal(t, 1, rec.copied)

	trip := readOut(t, root, "posts/trip/index.html")
	assert.Contains(t, trip, "<title>Trip</title>")
	assert.Contains(t, trip, "<nav>Blog</nav>")
	assert.Contains(t, trip, `<article data-section="posts">`)
	assert.Contains(t, trip, `<h1 id="hello">Hello`)
	assert.Contains(t, trip, "04 May 2023 by Kim")

	food := readOut(t, root, "posts/food/index.html")
	assert.Contains(t, food, "Tasty <b>things</b>")

	home := readOut(t, root, "index.html")
	assert.Contains(t, home, `<a href="/posts/trip/">Trip</a><a href="/posts/food/">Food</a>`)
	assert.NotContains(t, home, "Draft")

	feed := readOut(t, root, "feed.xml")
	assert.Contains(t, feed, "<entry>")
	assert.Contains(t, feed, "Tasty")

	_, err = os.Stat(filepath.Join(root, "_site", "hidden", "index.html"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "jpeg", readOut(t, root, "images/a.jpg"))
}

func TestBuild_ScriptOutputsAreNotHTMLEscaped(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.njk":   "---\npermalink: /app.js\n---\nif (a < b && c) { log(\"{{ .Data.site.name }}\"); }",
		"style.njk": "---\npermalink: /style.css\n---\na > b { content: \"&\"; }",
		"feed.njk":  "---\npermalink: /feed.xml\n---\n<title>{{ .Data.site.name }}</title>",
		"source/_data/site.yaml": "name: Fish & Chips\n",
	})

	_, err := NewBuilder(testConfig(root), testRegistry(t)).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `if (a < b && c) { log("Fish & Chips"); }`, readOut(t, root, "app.js"))
	assert.Equal(t, `a > b { content: "&"; }`, readOut(t, root, "style.css"))
	assert.Equal(t, "<title>Fish &amp; Chips</title>", readOut(t, root, "feed.xml"))
}

func TestBuild_IncludeDrafts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, blog)
	cfg := testConfig(root)
	cfg.IncludeDrafts = true

	_, err := NewBuilder(cfg, testRegistry(t)).Build(context.Background())
	require.NoError(t, err)
	assert.Contains(t, readOut(t, root, "posts/draft/index.html"), "not yet")
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		category errors.ErrorCategory
	}{
		{"missing layout", map[string]string{"a.njk": "---\nlayout: nope\n---\nx"}, errors.CategoryTemplate},
		{"layout loop", map[string]string{
			"a.njk":                    "---\nlayout: one.njk\n---\nx",
			"source/_includes/one.njk": "---\nlayout: two.njk\n---\n{{ .Content }}",
			"source/_includes/two.njk": "---\nlayout: one.njk\n---\n{{ .Content }}",
		}, errors.CategoryTemplate},
		{"unknown function", map[string]string{"a.njk": "{{ nosuch . }}"}, errors.CategoryTemplate},
		{"duplicate output", map[string]string{
			"a.njk": "---\npermalink: /same/\n---\nx",
			"b.njk": "---\npermalink: /same/\n---\ny",
		}, errors.CategoryBuild},
		{"escaping permalink", map[string]string{"a.njk": "---\npermalink: /../../etc/x\n---\nx"}, errors.CategoryValidation},
		{"bad data file", map[string]string{"source/_data/x.yaml": "a: [\n"}, errors.CategoryContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tt.files)
			rec := &countingRecorder{}
			report, err := NewBuilder(testConfig(root), testRegistry(t), WithRecorder(rec)).Build(context.Background())
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, tt.category), "got %v", err)
			assert.Equal(t, metrics.OutcomeFailed, report.Outcome)
			assert.Equal(t, 0, rec.pages)
		})
	}
}

func TestBuild_Canceled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, blog)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewBuilder(testConfig(root), testRegistry(t)).Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, metrics.OutcomeCanceled, report.Outcome)
}

func TestRoute(t *testing.T) {
	tests := []struct {
		input, permalink string
		url, out         string
	}{
		{"index.njk", "", "/", "index.html"},
		{"posts/index.md", "", "/posts/", "posts/index.html"},
		{"posts/trip.md", "", "/posts/trip/", "posts/trip/index.html"},
		{"about.html", "", "/about/", "about/index.html"},
		{"feed.njk", "/feed.xml", "/feed.xml", "feed.xml"},
		{"x.njk", "/photos/", "/photos/", "photos/index.html"},
		{"404.njk", "404.html", "/404.html", "404.html"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			url, out, err := Route(&content.Item{InputPath: tt.input, Permalink: tt.permalink})
			require.NoError(t, err)
			assert.Equal(t, tt.url, url)
			assert.Equal(t, tt.out, out)
		})
	}
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"site.yaml":  "title: T\n",
		"nav.json":   `["a","b"]`,
		"notes.txt":  "ignored",
		".hidden.yml": "x: 1\n",
	})
	data, err := LoadData(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "T"}, data["site"])
	assert.Equal(t, []any{"a", "b"}, data["nav"])
	assert.Len(t, data, 2)

	data, err = LoadData(context.Background(), filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, data)
}
