package chain

import (
	"fmt"

	"chainkit/internal/order"
)

// EraseTop returns the series with its top element dropped, one step
// shorter. On a length-0 series it returns the series unchanged. For any
// series with Length() > 0, the erased top covers the new top, and
// EraseTop followed by Snoc of the old top reproduces the original series.
func (s *Series[T]) EraseTop() *Series[T] {
	if s.Length() == 0 {
		return s
	}
	return &Series[T]{lat: s.lat, elems: s.elems[:len(s.elems)-1]}
}

// Snoc extends the series by one covering step up to x. Errors unless x
// covers the current top.
func (s *Series[T]) Snoc(x T) (*Series[T], error) {
	if !order.Lt(s.lat, s.Top(), x) {
		return nil, fmt.Errorf("chain: snoc %v above %v: not strictly increasing: %w", x, s.Top(), ErrNotMaximal)
	}
	if !s.lat.IsMaximal(s.Top(), x) {
		return nil, fmt.Errorf("chain: snoc %v above %v: %w", x, s.Top(), ErrNotMaximal)
	}
	elems := make([]T, len(s.elems)+1)
	copy(elems, s.elems)
	elems[len(s.elems)] = x
	return &Series[T]{lat: s.lat, elems: elems}, nil
}

// Append glues other on top of s. The seam element s.Top() must equal
// other.Bot() and is counted once; the result has Length() equal to the sum
// of the two lengths. Indexing below s.Length() reads from s, at or above it
// from other shifted down.
func (s *Series[T]) Append(other *Series[T]) (*Series[T], error) {
	if s.lat != other.lat {
		return nil, fmt.Errorf("chain: append: %w", ErrLattice)
	}
	if s.Top() != other.Bot() {
		return nil, fmt.Errorf("chain: append: top %v vs bot %v: %w", s.Top(), other.Bot(), ErrGlue)
	}
	elems := make([]T, 0, len(s.elems)+len(other.elems)-1)
	elems = append(elems, s.elems...)
	elems = append(elems, other.elems[1:]...)
	return &Series[T]{lat: s.lat, elems: elems}, nil
}
