// Package collections holds small generic containers shared by the
// validation pipeline.
package collections

// Set is an unordered collection of unique comparable values.
type Set[T comparable] map[T]struct{}

// NewSet builds a set from the given values.
func NewSet[T comparable](vs ...T) Set[T] {
	s := make(Set[T], len(vs))
	s.Add(vs...)
	return s
}

// Add inserts values into the set. Duplicates are absorbed.
func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

// Has reports whether v is a member of the set.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}
