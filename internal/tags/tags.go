// Package tags aggregates the navigation tag list from content items.
package tags

import (
	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/util/sets"
)

// reserved tags group content internally and never get a tag page.
// Keep in sync with the filter list used by the tag templates (IsReserved).
var reserved = sets.New("all", "nav", "post", "posts")

// IsReserved reports whether tag belongs to the reserved vocabulary.
func IsReserved(tag string) bool { return reserved.Has(tag) }

// Reserved returns the reserved vocabulary.
func Reserved() []string { return []string{"all", "nav", "post", "posts"} }

// Aggregate collects the distinct, non-reserved tags of items in
// first-insertion order. Items without tags contribute nothing.
func Aggregate(items []*content.Item) []string {
	var out sets.Ordered[string]
	for _, it := range items {
		if it == nil || !it.HasTags() {
			continue
		}
		for _, tag := range it.Tags {
			if IsReserved(tag) {
				continue
			}
			out.Add(tag)
		}
	}
	return out.Values()
}
