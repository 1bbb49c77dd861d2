// Package normalization maps loosely typed configuration strings onto
// enum-like values.
package normalization

import (
	"fmt"
	"slices"
	"strings"
)

// Normalizer resolves case-insensitive, whitespace-tolerant strings to T.
type Normalizer[T comparable] struct {
	name     string
	values   map[string]T
	fallback T
	keys     []string
}

// New creates a Normalizer. name appears in error messages.
func New[T comparable](name string, values map[string]T, fallback T) *Normalizer[T] {
	n := &Normalizer[T]{name: name, values: make(map[string]T, len(values)), fallback: fallback}
	for k, v := range values {
		k = clean(k)
		n.values[k] = v
		n.keys = append(n.keys, k)
	}
	slices.Sort(n.keys)
	return n
}

// Normalize returns the value for raw, or the fallback when raw is unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.fallback
}

// Parse is Normalize for callers that must reject unknown values. Empty
// input yields the fallback.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	if clean(raw) == "" {
		return n.fallback, nil
	}
	if v, ok := n.values[clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q (valid: %s)", n.name, raw, strings.Join(n.keys, ", "))
}

// Keys lists the accepted spellings in sorted order.
func (n *Normalizer[T]) Keys() []string { return slices.Clone(n.keys) }

func clean(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
