package markdown

import (
	"strconv"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/blogkit/internal/slug"
)

// headingIDs generates heading ids with the same slug rules as tag pages
// and accordions. Repeats get "-1", "-2", ... suffixes.
type headingIDs struct {
	used map[string]bool
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{used: make(map[string]bool)}
}

func (h *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	base := slug.Strict(string(value))
	if base == "" {
		base = "heading"
	}
	id := base
	for i := 1; h.used[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	h.used[id] = true
	return []byte(id)
}

func (h *headingIDs) Put(value []byte) {
	h.used[string(value)] = true
}
