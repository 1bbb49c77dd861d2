package shortcodes

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

// attrsByID parses a fragment and returns the attributes of every element with an id.
func attrsByID(t *testing.T, fragment string) map[string]map[string]string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)

	out := map[string]map[string]string{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			attrs := map[string]string{}
			for _, a := range n.Attr {
				attrs[a.Key] = a.Val
			}
			if id, ok := attrs["id"]; ok {
				out[id] = attrs
			}
			if n.Data == "button" {
				out["<button>"] = attrs
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func TestAccordion_IDLinksHeaderAndBody(t *testing.T) {
	out := string(Accordion("<p>Answer</p>", "My FAQ!", "#faq"))
	els := attrsByID(t, out)

	header, ok := els["accordion-header-my-faq"]
	require.True(t, ok, "header id missing in %s", out)
	assert.Equal(t, "accordion-header", header["class"])

	body, ok := els["accordion-my-faq"]
	require.True(t, ok)
	assert.Equal(t, "accordion-header-my-faq", body["aria-labelledby"])
	assert.Equal(t, "#faq", body["data-bs-parent"])

	button := els["<button>"]
	assert.Equal(t, "#accordion-my-faq", button["data-bs-target"])
	assert.Equal(t, "accordion-my-faq", button["aria-controls"])
	assert.Equal(t, "false", button["aria-expanded"])

	assert.Contains(t, out, "<p>Answer</p>", "content is inserted verbatim")
	assert.Contains(t, out, ">My FAQ!</button>")
}

func TestAccordion_Deterministic(t *testing.T) {
	assert.Equal(t, Accordion("x", "Tab 1", "#p"), Accordion("x", "Tab 1", "#p"))
	assert.NotEqual(t, AccordionID("Tab 1"), AccordionID("Tab 2"))
}

func TestAccordion_EscapesTitleAndParent(t *testing.T) {
	out := string(Accordion("<b>ok</b>", `Tom & "Jerry"`, `#a"b`))
	assert.Contains(t, out, "Tom &amp; &#34;Jerry&#34;")
	assert.Contains(t, out, `data-bs-parent="#a&#34;b"`)
	assert.Contains(t, out, "<b>ok</b>")
}

func TestAccordion_TitleWithoutWordsGetsFallbackID(t *testing.T) {
	for _, title := range []string{"", "?!", "日本語"} {
		out := string(Accordion("x", title, "#p"))
		els := attrsByID(t, out)
		require.Contains(t, els, "accordion-heading", "title %q", title)
		assert.Equal(t, "#accordion-heading", els["<button>"]["data-bs-target"])
		assert.NotContains(t, out, `"accordion-"`)
	}

	r := NewAccordionIDs()
	assert.Equal(t, "heading", r.ID(""))
	assert.Equal(t, "heading-2", r.ID("???"))
}

func TestAccordionIDs(t *testing.T) {
	r := NewAccordionIDs()

	assert.Equal(t, "my-faq", r.ID("My FAQ!"))
	assert.Equal(t, "my-faq", r.ID("My FAQ!"), "same title keeps its id")
	assert.Equal(t, "my-faq-2", r.ID("my faq"), "colliding slug is disambiguated")
	assert.Equal(t, "my-faq-3", r.ID("MY FAQ"))
	assert.Equal(t, "other", r.ID("Other"))
	assert.Equal(t, "my-faq-2", r.ID("my faq"))
}

func TestAccordionIDs_TemplateArgumentOrder(t *testing.T) {
	r := NewAccordionIDs()
	out := string(r.Accordion("Tab 1", "#acc", "Body text"))

	els := attrsByID(t, out)
	require.Contains(t, els, "accordion-tab-1")
	assert.Equal(t, "#acc", els["accordion-tab-1"]["data-bs-parent"])
	assert.Contains(t, out, "Body text")
}

func TestIcons(t *testing.T) {
	fsys := fstest.MapFS{
		"house.svg": {Data: []byte(`<svg class="bi bi-house"></svg>`)},
	}
	icons := NewIcons(fsys)

	got, err := icons.Icon("house")
	require.NoError(t, err)
	assert.Equal(t, `<svg class="bi bi-house"></svg>`, string(got))

	_, err = icons.Icon("missing")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAsset))

	for _, bad := range []string{"", "../secret", "a/b"} {
		_, err = icons.Icon(bad)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation), bad)
	}
}

func TestYear(t *testing.T) {
	fixed := time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "2024", Year(func() time.Time { return fixed })())
	assert.Len(t, Year(nil)(), 4)
}
