// Package chain implements composition series over a finite factor lattice
// and the Jordan–Hölder equivalence between them.
//
// A composition series is a strictly increasing chain in which every element
// covers its predecessor. Series values are immutable: every transformation
// returns a fresh value and never mutates its receiver. Where the classical
// development guarantees in-bounds access through dependent index types,
// this package uses bounds-checked accessors returning errors instead.
package chain

import (
	"errors"
	"fmt"

	"chainkit/internal/order"
)

var (
	// ErrNotMaximal reports a step that is not a covering step.
	ErrNotMaximal = errors.New("step is not a covering step")
	// ErrGlue reports an append whose seam elements do not coincide.
	ErrGlue = errors.New("series do not glue: top and bot differ")
	// ErrEndpoints reports two series that do not share bot and top.
	ErrEndpoints = errors.New("series endpoints differ")
	// ErrLattice reports series built over different lattice instances.
	ErrLattice = errors.New("series belong to different lattices")
	// ErrOutOfRange reports an index outside a series.
	ErrOutOfRange = errors.New("index out of range")
)

// Series is an immutable composition series: Length() covering steps over
// Length()+1 elements. A series always has at least one element; a length-0
// series is a single element with Bot == Top.
type Series[T comparable] struct {
	lat   order.FactorLattice[T]
	elems []T
}

// New builds a series from its element list, validating that every
// consecutive pair is a covering step. The list must be nonempty; it is
// copied, so the caller keeps ownership of the slice.
func New[T comparable](lat order.FactorLattice[T], elems []T) (*Series[T], error) {
	if lat == nil {
		return nil, fmt.Errorf("chain: nil lattice")
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("chain: series needs at least one element")
	}
	for i := 0; i+1 < len(elems); i++ {
		// Strict ascent is checked on its own, not trusted to IsMaximal,
		// so a lattice instance that claims x covers x is still rejected.
		if !order.Lt(lat, elems[i], elems[i+1]) {
			return nil, fmt.Errorf("chain: step %d (%v -> %v): not strictly increasing: %w", i, elems[i], elems[i+1], ErrNotMaximal)
		}
		if !lat.IsMaximal(elems[i], elems[i+1]) {
			return nil, fmt.Errorf("chain: step %d (%v -> %v): %w", i, elems[i], elems[i+1], ErrNotMaximal)
		}
	}
	cp := make([]T, len(elems))
	copy(cp, elems)
	return &Series[T]{lat: lat, elems: cp}, nil
}

// Trivial returns the length-0 series at x.
func Trivial[T comparable](lat order.FactorLattice[T], x T) *Series[T] {
	return &Series[T]{lat: lat, elems: []T{x}}
}

// OfList is New under its list-facing name: the inverse of ToList.
func OfList[T comparable](lat order.FactorLattice[T], elems []T) (*Series[T], error) {
	return New(lat, elems)
}

// Lattice returns the lattice the series lives in.
func (s *Series[T]) Lattice() order.FactorLattice[T] { return s.lat }

// Length returns the number of covering steps.
func (s *Series[T]) Length() int { return len(s.elems) - 1 }

// Bot returns the first element.
func (s *Series[T]) Bot() T { return s.elems[0] }

// Top returns the last element.
func (s *Series[T]) Top() T { return s.elems[len(s.elems)-1] }

// At returns the i-th element, 0 <= i <= Length().
func (s *Series[T]) At(i int) (T, error) {
	if i < 0 || i >= len(s.elems) {
		var zero T
		return zero, fmt.Errorf("chain: element %d of %d-step series: %w", i, s.Length(), ErrOutOfRange)
	}
	return s.elems[i], nil
}

// Step returns the i-th covering pair (lower, upper), 0 <= i < Length().
func (s *Series[T]) Step(i int) (lower, upper T, err error) {
	if i < 0 || i >= s.Length() {
		var zero T
		return zero, zero, fmt.Errorf("chain: step %d of %d-step series: %w", i, s.Length(), ErrOutOfRange)
	}
	return s.elems[i], s.elems[i+1], nil
}

// Contains reports whether x occurs in the series.
func (s *Series[T]) Contains(x T) bool {
	for _, e := range s.elems {
		if e == x {
			return true
		}
	}
	return false
}

// Total reports whether two members of the series are comparable. For
// elements of the same series this always holds; it follows from the strict
// ascent of the chain.
func (s *Series[T]) Total(x, y T) bool {
	return order.Comparable[T](s.lat, x, y)
}

// ToList returns the element list bottom to top. The slice is a copy.
func (s *Series[T]) ToList() []T {
	out := make([]T, len(s.elems))
	copy(out, s.elems)
	return out
}

// Equal reports literal equality: same lattice, same elements in order.
func (s *Series[T]) Equal(other *Series[T]) bool {
	if s.lat != other.lat || len(s.elems) != len(other.elems) {
		return false
	}
	for i := range s.elems {
		if s.elems[i] != other.elems[i] {
			return false
		}
	}
	return true
}

// String renders the chain bottom to top.
func (s *Series[T]) String() string {
	out := ""
	for i, e := range s.elems {
		if i > 0 {
			out += " < "
		}
		out += fmt.Sprintf("%v", e)
	}
	return out
}
