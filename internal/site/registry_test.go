package site

import (
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

func TestRegistry_DuplicateNamesAreConfigErrors(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.AddFilter("upper", strings.ToUpper))

	for _, err := range []error{
		r.AddFilter("upper", strings.ToLower),
		r.AddShortcode("upper", func() string { return "" }),
		r.AddPairedShortcode("upper", func(s string) string { return s }),
		r.AddContextFilter("upper", func(context.Context) any { return strings.ToUpper }),
	} {
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	}
}

func TestRegistry_RejectsUnusableFunctions(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.AddFilter("notfunc", 42))
	assert.Error(t, r.AddFilter("noresult", func() {}))
	assert.Error(t, r.AddFilter("tworesults", func() (string, string) { return "", "" }))
	assert.Error(t, r.AddPairedShortcode("nobody", func() string { return "" }))
	assert.Error(t, r.AddFilter("", strings.ToUpper))
	assert.NoError(t, r.AddFilter("witherr", func(s string) (string, error) { return s, nil }))
}

func TestRegistry_FuncMapBindsContext(t *testing.T) {
	r := NewRegistry()
	type key struct{}
	require.NoError(t, r.AddContextFilter("fromCtx", func(ctx context.Context) any {
		return func() string { return ctx.Value(key{}).(string) }
	}))
	require.NoError(t, r.AddShortcode("year", func() string { return "2024" }))

	ctx := context.WithValue(context.Background(), key{}, "bound")
	fm, err := r.FuncMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bound", fm["fromCtx"].(func() string)())
	assert.Equal(t, []string{"fromCtx", "year"}, r.Names())

	require.NoError(t, r.AddContextFilter("bad", func(context.Context) any { return "nope" }))
	_, err = r.FuncMap(ctx)
	assert.Error(t, err)
}

func TestRegistry_PairedContextShortcodeIsFreshPerFuncMap(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.AddPairedContextShortcode("count", func(context.Context) any {
		n := 0
		return func(body string) string {
			n++
			return strings.Repeat(body, n)
		}
	}))
	assert.Error(t, r.AddPairedContextShortcode("nil", nil))

	first, err := r.FuncMap(context.Background())
	require.NoError(t, err)
	count := first["count"].(func(string) string)
	assert.Equal(t, "x", count("x"))
	assert.Equal(t, "xx", count("x"))

	second, err := r.FuncMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", second["count"].(func(string) string)("x"))
}

func TestRegistry_Collections(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.AddCollection("count", func(c *content.Collection) any { return len(c.All()) }))
	assert.Error(t, r.AddCollection("count", func(*content.Collection) any { return nil }))
	assert.Error(t, r.AddCollection("all", func(*content.Collection) any { return nil }))

	a := &content.Item{InputPath: "a.md", Tags: []string{"travel", "post"}}
	b := &content.Item{InputPath: "b.md", Tags: []string{"food"}}
	feed := &content.Item{InputPath: "feed.njk", ExcludeFromCollections: true}

	got := r.Collections(content.NewCollection([]*content.Item{a, b, feed}))
	assert.Equal(t, []*content.Item{a, b}, got["all"])
	assert.Equal(t, []*content.Item{a}, got["travel"])
	assert.Equal(t, []*content.Item{a}, got["post"])
	assert.Equal(t, 2, got["count"])
}

func TestRegistry_LayoutAliasesAndPassthrough(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.AddLayoutAlias("post", "source/layouts/post.njk"))
	require.NoError(t, r.AddLayoutAlias("post", "source/layouts/post.njk"))
	assert.Error(t, r.AddLayoutAlias("post", "other.njk"))

	target, ok := r.LayoutAlias("post")
	assert.True(t, ok)
	assert.Equal(t, "source/layouts/post.njk", target)

	r.AddPassthroughCopy("source/images", "images")
	m := r.Passthrough()
	require.Len(t, m, 1)
	m[0].To = "changed"
	assert.Equal(t, "images", r.Passthrough()[0].To)
}

func TestRegistry_PairedShortcodeReceivesPipedBody(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.AddPairedShortcode("wrap", func(tag, body string) template.HTML {
		return template.HTML("<" + tag + ">" + body + "</" + tag + ">")
	}))
	fm, err := r.FuncMap(context.Background())
	require.NoError(t, err)

	tpl := template.Must(template.New("p").Funcs(fm).Parse(`{{ "hi" | wrap "b" }}`))
	var sb strings.Builder
	require.NoError(t, tpl.Execute(&sb, nil))
	assert.Equal(t, "<b>hi</b>", sb.String())
}
