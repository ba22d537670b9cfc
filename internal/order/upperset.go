package order

// Set is an element set over the carrier, used for upper and lower sets.
// Methods that alter a set return a new one; the receiver is never mutated.
type Set[T comparable] map[T]struct{}

// NewSet builds a set from the given elements.
func NewSet[T comparable](elems ...T) Set[T] {
	s := make(Set[T], len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// Contains reports membership of x.
func (s Set[T]) Contains(x T) bool {
	_, ok := s[x]
	return ok
}

// Add returns a new set with x added.
func (s Set[T]) Add(x T) Set[T] {
	out := make(Set[T], len(s)+1)
	for e := range s {
		out[e] = struct{}{}
	}
	out[x] = struct{}{}
	return out
}

// Equal reports whether s and other hold the same elements.
func (s Set[T]) Equal(other Set[T]) bool {
	if len(s) != len(other) {
		return false
	}
	for e := range s {
		if !other.Contains(e) {
			return false
		}
	}
	return true
}

// IsUpper reports whether s is an upper set of lat: closed under going up.
func IsUpper[T comparable](lat Lattice[T], s Set[T]) bool {
	for x := range s {
		for _, y := range lat.Elements() {
			if lat.Leq(x, y) && !s.Contains(y) {
				return false
			}
		}
	}
	return true
}

// IsLower reports whether s is a lower set of lat: closed under going down.
func IsLower[T comparable](lat Lattice[T], s Set[T]) bool {
	for x := range s {
		for _, y := range lat.Elements() {
			if lat.Leq(y, x) && !s.Contains(y) {
				return false
			}
		}
	}
	return true
}

// UpperClosure returns the smallest upper set containing s.
func UpperClosure[T comparable](lat Lattice[T], s Set[T]) Set[T] {
	out := make(Set[T], len(s))
	for x := range s {
		for _, y := range lat.Elements() {
			if lat.Leq(x, y) {
				out[y] = struct{}{}
			}
		}
	}
	return out
}

// LowerClosure returns the smallest lower set containing s.
func LowerClosure[T comparable](lat Lattice[T], s Set[T]) Set[T] {
	out := make(Set[T], len(s))
	for x := range s {
		for _, y := range lat.Elements() {
			if lat.Leq(y, x) {
				out[y] = struct{}{}
			}
		}
	}
	return out
}

// Complement returns the carrier elements not in s. The complement of an
// upper set is a lower set and vice versa.
func Complement[T comparable](lat Lattice[T], s Set[T]) Set[T] {
	out := make(Set[T])
	for _, x := range lat.Elements() {
		if !s.Contains(x) {
			out[x] = struct{}{}
		}
	}
	return out
}
