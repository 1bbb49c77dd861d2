package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order for string dates in frontmatter.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse builds an Item from a source document. fallbackDate is used when the
// frontmatter has no usable date (the loader passes the file's mod time).
func Parse(inputPath string, format Format, src []byte, fallbackDate time.Time) (*Item, error) {
	fm, body, err := splitFrontmatter(src)
	if err != nil {
		return nil, err
	}
	data, err := parseFrontmatter(fm)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	it := &Item{
		InputPath: inputPath,
		Format:    format,
		Data:      data,
		Body:      body,
		Date:      fallbackDate.UTC(),
	}
	it.Title = stringField(data, "title")
	it.Layout = stringField(data, "layout")
	it.Draft = boolField(data, "draft")
	it.ExcludeFromCollections = boolField(data, "eleventyExcludeFromCollections") || boolField(data, "exclude_from_collections")
	it.Tags = ParseTags(data["tags"])

	switch p := data["permalink"].(type) {
	case string:
		it.Permalink = p
	case bool:
		it.SkipWrite = !p
	}

	if raw, ok := data["date"]; ok {
		d, err := parseDate(raw)
		if err != nil {
			return nil, err
		}
		it.Date = d
	}

	nav := data["eleventyNavigation"]
	if nav == nil {
		nav = data["navigation"]
	}
	it.Nav = parseNav(nav)
	return it, nil
}

// ParseTags normalises a frontmatter tags value. A list of strings or a
// single string is accepted; any other shape is treated as no tags and
// yields nil. Empty strings are dropped.
func ParseTags(v any) []string {
	switch t := v.(type) {
	case string:
		if t = strings.TrimSpace(t); t == "" {
			return nil
		}
		return []string{t}
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil
			}
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func parseDate(raw any) (time.Time, error) {
	switch d := raw.(type) {
	case time.Time:
		return d.UTC(), nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(d)); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unsupported date %q", d)
	default:
		return time.Time{}, fmt.Errorf("unsupported date value of type %T", raw)
	}
}

func parseNav(v any) *NavEntry {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	key := stringField(m, "key")
	if key == "" {
		return nil
	}
	n := &NavEntry{
		Key:    key,
		Parent: stringField(m, "parent"),
		Title:  stringField(m, "title"),
	}
	switch o := m["order"].(type) {
	case int:
		n.Order = o
	case float64:
		n.Order = int(o)
	case string:
		n.Order, _ = strconv.Atoi(o)
	}
	return n
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
