package content

import (
	"sort"

	"git.home.luguber.info/inful/blogkit/internal/util/sets"
)

// CollectionAll is the name of the collection holding every item.
const CollectionAll = "all"

// Collection indexes items for template access. Items flagged
// ExcludeFromCollections are left out entirely.
type Collection struct {
	items []*Item
	byTag map[string][]*Item
	tags  sets.Ordered[string]
}

// NewCollection builds the collection; items keep the order they are given in.
func NewCollection(items []*Item) *Collection {
	c := &Collection{byTag: make(map[string][]*Item)}
	for _, it := range items {
		if it.ExcludeFromCollections {
			continue
		}
		c.items = append(c.items, it)
		for _, tag := range it.Tags {
			c.tags.Add(tag)
			c.byTag[tag] = append(c.byTag[tag], it)
		}
	}
	return c
}

// All returns every collected item. The slice is a copy.
func (c *Collection) All() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// ByTag returns the items carrying tag, in collection order.
func (c *Collection) ByTag(tag string) []*Item {
	src := c.byTag[tag]
	out := make([]*Item, len(src))
	copy(out, src)
	return out
}

// TagNames lists every tag seen, reserved ones included, in first-seen order.
func (c *Collection) TagNames() []string { return c.tags.Values() }

// NavNode is one entry in a navigation tree.
type NavNode struct {
	Key      string
	Title    string
	URL      string
	Order    int
	Children []*NavNode
}

// Navigation builds the navigation tree from items declaring a NavEntry.
// With a non-empty root only the children of that key are returned.
// Siblings are ordered by Order, then Title.
func Navigation(items []*Item, root string) []*NavNode {
	nodes := make(map[string]*NavNode)
	parents := make(map[string]string)
	var keys []string
	for _, it := range items {
		if it.Nav == nil {
			continue
		}
		if _, dup := nodes[it.Nav.Key]; dup {
			continue
		}
		title := it.Nav.Title
		if title == "" {
			title = it.Nav.Key
		}
		nodes[it.Nav.Key] = &NavNode{Key: it.Nav.Key, Title: title, URL: it.URL, Order: it.Nav.Order}
		parents[it.Nav.Key] = it.Nav.Parent
		keys = append(keys, it.Nav.Key)
	}

	var top []*NavNode
	for _, k := range keys {
		n := nodes[k]
		parent, ok := nodes[parents[k]]
		if parents[k] == "" || !ok {
			top = append(top, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	for _, n := range nodes {
		sortNav(n.Children)
	}
	sortNav(top)

	if root == "" {
		return top
	}
	if n, ok := nodes[root]; ok {
		return n.Children
	}
	return nil
}

func sortNav(nodes []*NavNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Order != nodes[j].Order {
			return nodes[i].Order < nodes[j].Order
		}
		return nodes[i].Title < nodes[j].Title
	})
}
