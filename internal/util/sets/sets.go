package sets

// Set is a simple generic hash set for comparable keys.
type Set[T comparable] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Ordered is a set that remembers first-insertion order.
// The zero value is ready to use.
type Ordered[T comparable] struct {
	seen  Set[T]
	order []T
}

// Add inserts v unless already present. It reports whether v was new.
func (o *Ordered[T]) Add(v T) bool {
	if o.seen == nil {
		o.seen = make(Set[T])
	}
	if o.seen.Has(v) {
		return false
	}
	o.seen.Add(v)
	o.order = append(o.order, v)
	return true
}

// Has returns true if v is present.
func (o *Ordered[T]) Has(v T) bool { return o.seen.Has(v) }

// Len returns the number of distinct values.
func (o *Ordered[T]) Len() int { return len(o.order) }

// Values returns a copy of the values in insertion order. Never nil.
func (o *Ordered[T]) Values() []T {
	out := make([]T, len(o.order))
	copy(out, o.order)
	return out
}
