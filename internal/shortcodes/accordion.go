// Package shortcodes implements the site's template shortcodes: accordion
// panels, inline icons and the current year.
package shortcodes

import (
	"fmt"
	"html"
	"html/template"
	"strings"
	"sync"

	"git.home.luguber.info/inful/blogkit/internal/slug"
)

// emptyID stands in for titles without a single letter or digit, matching
// the markdown heading ids.
const emptyID = "heading"

// AccordionID derives the DOM id for an accordion panel from its title.
func AccordionID(title string) string {
	if id := slug.Strict(title); id != "" {
		return id
	}
	return emptyID
}

// Accordion renders a Bootstrap accordion item. content is inserted verbatim;
// title and parent are escaped.
func Accordion(content, title, parent string) template.HTML {
	return renderAccordion(AccordionID(title), content, title, parent)
}

func renderAccordion(id, content, title, parent string) template.HTML {
	var b strings.Builder
	fmt.Fprintf(&b, `
<div class="accordion-item">
	<h2 class="accordion-header" id="accordion-header-%[1]s">
		<button class="accordion-button collapsed"
			type="button"
			data-bs-toggle="collapse"
			data-bs-target="#accordion-%[1]s"
			aria-expanded="false"
			aria-controls="accordion-%[1]s">%[2]s</button>
	</h2>

	<div id="accordion-%[1]s"
		class="accordion-collapse collapse"
		aria-labelledby="accordion-header-%[1]s"
		data-bs-parent="%[3]s">
		<div class="accordion-body">
			%[4]s
		</div><!-- end padding -->
	</div><!-- end collapse -->
</div><!-- end item -->
`, id, html.EscapeString(title), html.EscapeString(parent), content)
	// #nosec G203 -- accordion content is trusted, pre-rendered page markup
	return template.HTML(b.String())
}

// AccordionIDs hands out accordion ids for one build. A title always gets
// the same id; a different title whose slug is already taken gets a
// numeric suffix ("faq", "faq-2", ...). Safe for concurrent use.
type AccordionIDs struct {
	mu      sync.Mutex
	byTitle map[string]string
	taken   map[string]bool
}

// NewAccordionIDs returns an empty registry.
func NewAccordionIDs() *AccordionIDs {
	return &AccordionIDs{byTitle: make(map[string]string), taken: make(map[string]bool)}
}

// ID returns the id for title, allocating one on first use.
func (r *AccordionIDs) ID(title string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byTitle[title]; ok {
		return id
	}
	base := AccordionID(title)
	id := base
	for n := 2; r.taken[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	r.byTitle[title] = id
	r.taken[id] = true
	return id
}

// Accordion renders like the package-level Accordion using a registry id.
// Its argument order suits template piping:
//
//	{{ "Content" | accordion "Tab 1" "#my-accordion" }}
func (r *AccordionIDs) Accordion(title, parent string, content any) template.HTML {
	return renderAccordion(r.ID(title), stringify(content), title, parent)
}

func stringify(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case template.HTML:
		return string(c)
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}
