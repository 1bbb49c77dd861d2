package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, r *Renderer, src string) string {
	t.Helper()
	out, err := r.Render([]byte(src))
	require.NoError(t, err)
	return string(out)
}

func TestRender_DefaultOptions(t *testing.T) {
	r := New(DefaultOptions())

	t.Run("raw html passthrough", func(t *testing.T) {
		out := render(t, r, "<div class=\"gallery\">raw</div>\n")
		assert.Contains(t, out, `<div class="gallery">raw</div>`)
	})

	t.Run("line breaks", func(t *testing.T) {
		out := render(t, r, "first\nsecond\n")
		assert.Contains(t, out, "<br")
	})

	t.Run("linkify", func(t *testing.T) {
		out := render(t, r, "see https://example.com today\n")
		assert.Contains(t, out, `<a href="https://example.com">https://example.com</a>`)
	})

	t.Run("heading anchors", func(t *testing.T) {
		out := render(t, r, "## My FAQ!\n")
		assert.Contains(t, out, `id="my-faq"`)
		assert.Contains(t, out, `href="#my-faq"`)
		assert.Contains(t, out, `class="direct-link"`)
	})

	t.Run("duplicate headings", func(t *testing.T) {
		out := render(t, r, "# Intro\n\n# Intro\n")
		assert.Contains(t, out, `id="intro"`)
		assert.Contains(t, out, `id="intro-1"`)
	})

	t.Run("ids reset per document", func(t *testing.T) {
		render(t, r, "# Setup\n")
		out := render(t, r, "# Setup\n")
		assert.Contains(t, out, `id="setup"`)
		assert.NotContains(t, out, `id="setup-1"`)
	})

	t.Run("fenced code is highlighted with classes", func(t *testing.T) {
		out := render(t, r, "```go\nfunc main() {}\n```\n")
		assert.Contains(t, out, `class="chroma"`)
	})
}

func TestRender_StrictOptions(t *testing.T) {
	r := New(Options{})

	out := render(t, r, "<script>alert(1)</script>\n\nhttps://example.com\nnext\n")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<a href")
	assert.NotContains(t, out, "<br")
	assert.NotContains(t, out, "direct-link")
}
