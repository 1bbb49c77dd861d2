package filters

import (
	"fmt"
	"reflect"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/content"
)

// Head returns the first n elements of a slice, or the last -n when n is negative.
func Head(list any, n int) (any, error) {
	v := reflect.ValueOf(list)
	if !v.IsValid() {
		return nil, nil
	}
	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("head: expected a slice, got %T", list)
	}
	l := v.Len()
	if n < 0 {
		start := l + n
		if start < 0 {
			start = 0
		}
		return v.Slice(start, l).Interface(), nil
	}
	if n > l {
		n = l
	}
	return v.Slice(0, n).Interface(), nil
}

// NewestItemDate returns the latest date in items; the zero time when empty.
func NewestItemDate(items []*content.Item) time.Time {
	var newest time.Time
	for _, it := range items {
		if it.Date.After(newest) {
			newest = it.Date
		}
	}
	return newest
}

// Navigation exposes content.Navigation to templates. An optional key
// selects the children of that entry.
func Navigation(items []*content.Item, key ...string) []*content.NavNode {
	root := ""
	if len(key) > 0 {
		root = key[0]
	}
	return content.Navigation(items, root)
}
