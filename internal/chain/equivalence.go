package chain

import "fmt"

// Equivalence witnesses that two series have the same factors: a bijection
// between their step indices under which paired steps share a factor class.
// Witnesses are produced verified; Verify re-checks one against its series,
// which the tests use to pin the closure properties.
type Equivalence[T comparable] struct {
	from    *Series[T]
	to      *Series[T]
	forward []int // step i of from corresponds to step forward[i] of to
}

// From returns the left-hand series of the witness.
func (e *Equivalence[T]) From() *Series[T] { return e.from }

// To returns the right-hand series of the witness.
func (e *Equivalence[T]) To() *Series[T] { return e.to }

// Mapping returns a copy of the step bijection.
func (e *Equivalence[T]) Mapping() []int {
	out := make([]int, len(e.forward))
	copy(out, e.forward)
	return out
}

// LengthEq reports that the two series have equal length, which every
// equivalence forces.
func (e *Equivalence[T]) LengthEq() bool {
	return e.from.Length() == e.to.Length()
}

// Verify checks the witness from scratch: the mapping must be a bijection
// between the step ranges, and each paired step must carry the same factor
// class.
func (e *Equivalence[T]) Verify() error {
	if e.from.lat != e.to.lat {
		return fmt.Errorf("chain: equivalence: %w", ErrLattice)
	}
	n := e.from.Length()
	if e.to.Length() != n || len(e.forward) != n {
		return fmt.Errorf("chain: equivalence: mapping of %d steps between %d-step and %d-step series",
			len(e.forward), n, e.to.Length())
	}
	seen := make([]bool, n)
	for i, j := range e.forward {
		if j < 0 || j >= n {
			return fmt.Errorf("chain: equivalence: step %d maps to %d: %w", i, j, ErrOutOfRange)
		}
		if seen[j] {
			return fmt.Errorf("chain: equivalence: step %d mapped twice", j)
		}
		seen[j] = true
		lo1, hi1, _ := e.from.Step(i)
		lo2, hi2, _ := e.to.Step(j)
		c1 := e.from.lat.FactorClass(lo1, hi1)
		c2 := e.to.lat.FactorClass(lo2, hi2)
		if c1 != c2 {
			return fmt.Errorf("chain: equivalence: step %d has class %q, its image %d has class %q", i, c1, j, c2)
		}
	}
	return nil
}

// Identity returns the reflexive witness on s: every step related to itself.
func Identity[T comparable](s *Series[T]) *Equivalence[T] {
	forward := make([]int, s.Length())
	for i := range forward {
		forward[i] = i
	}
	return &Equivalence[T]{from: s, to: s, forward: forward}
}

// Inverse returns the symmetric witness, swapping the two series.
func (e *Equivalence[T]) Inverse() *Equivalence[T] {
	backward := make([]int, len(e.forward))
	for i, j := range e.forward {
		backward[j] = i
	}
	return &Equivalence[T]{from: e.to, to: e.from, forward: backward}
}

// Compose chains two witnesses: from e: s1 ~ s2 and next: s2 ~ s3 it
// produces s1 ~ s3. The middle series must match.
func (e *Equivalence[T]) Compose(next *Equivalence[T]) (*Equivalence[T], error) {
	if !e.to.Equal(next.from) {
		return nil, fmt.Errorf("chain: compose: middle series differ (%s vs %s)", e.to, next.from)
	}
	forward := make([]int, len(e.forward))
	for i, j := range e.forward {
		forward[i] = next.forward[j]
	}
	return &Equivalence[T]{from: e.from, to: next.to, forward: forward}, nil
}

// AppendEquivalences combines witnesses for two glued pairs: from
// left: a ~ a' and right: b ~ b' it produces a.Append(b) ~ a'.Append(b'),
// the bijection being the disjoint union of the two component bijections.
func AppendEquivalences[T comparable](left, right *Equivalence[T]) (*Equivalence[T], error) {
	from, err := left.from.Append(right.from)
	if err != nil {
		return nil, err
	}
	to, err := left.to.Append(right.to)
	if err != nil {
		return nil, err
	}
	offset := left.from.Length()
	forward := make([]int, 0, from.Length())
	forward = append(forward, left.forward...)
	for _, j := range right.forward {
		forward = append(forward, j+offset)
	}
	return &Equivalence[T]{from: from, to: to, forward: forward}, nil
}

// snocBoth extends a witness across a snoc on both sides: given e: a ~ b,
// fromTop covering a.Top() and toTop covering b.Top(), it relates
// a.Snoc(fromTop) to b.Snoc(toTop) by mapping the new last step to the new
// last step. The two new steps must share a factor class.
func snocBoth[T comparable](e *Equivalence[T], fromTop, toTop T) (*Equivalence[T], error) {
	from, err := e.from.Snoc(fromTop)
	if err != nil {
		return nil, err
	}
	to, err := e.to.Snoc(toTop)
	if err != nil {
		return nil, err
	}
	c1 := from.lat.FactorClass(e.from.Top(), fromTop)
	c2 := to.lat.FactorClass(e.to.Top(), toTop)
	if c1 != c2 {
		return nil, fmt.Errorf("chain: snoc extension: new steps have classes %q and %q", c1, c2)
	}
	forward := make([]int, 0, from.Length())
	forward = append(forward, e.forward...)
	forward = append(forward, from.Length()-1)
	return &Equivalence[T]{from: from, to: to, forward: forward}, nil
}
