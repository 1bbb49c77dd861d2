package filters

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"git.home.luguber.info/inful/blogkit/internal/slug"
)

var stripPolicy = bluemonday.StrictPolicy()

// SlugURL creates a URL-safe string.
func SlugURL(s string) string { return slug.Strict(s) }

// StripHTML removes every tag from markup, leaving escaped text with
// collapsed whitespace.
func StripHTML(markup any) template.HTML {
	text := stripPolicy.Sanitize(stringify(markup))
	// #nosec G203 -- the strict policy leaves no markup behind
	return template.HTML(strings.Join(strings.Fields(text), " "))
}
