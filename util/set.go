package util

// Set is a membership set under Equal. Keyable values live in a map;
// the rest, NaN included, fall back to a linear scan.
type Set struct {
	hashed map[any]struct{}
	rest   []any
}

// NewSet creates a Set holding values.
func NewSet(values ...any) *Set {
	s := &Set{hashed: make(map[any]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was not already present.
func (s *Set) Add(v any) bool {
	if s.Contains(v) {
		return false
	}
	if Keyable(v) {
		s.hashed[v] = struct{}{}
	} else {
		s.rest = append(s.rest, v)
	}
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v any) bool {
	if Keyable(v) {
		_, ok := s.hashed[v]
		return ok
	}
	return IndexOf(s.rest, v) >= 0
}

// Len returns the number of distinct values in the set.
func (s *Set) Len() int { return len(s.hashed) + len(s.rest) }
