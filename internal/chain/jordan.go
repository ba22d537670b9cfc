package chain

import (
	"fmt"

	"chainkit/internal/order"
)

// JordanHolder proves two composition series with the same bot and top
// equivalent, returning the explicit step bijection. This is the classical
// Jordan–Hölder argument run as an algorithm: induction on the length of s1,
// with the classical witness choices replaced by finite searches over the
// lattice carrier.
//
// Errors fall into two groups: precondition failures (different lattices,
// mismatched endpoints) and lattice instances that violate the factor
// lattice invariants, which the induction detects when a step it is entitled
// to cannot be taken.
func JordanHolder[T comparable](s1, s2 *Series[T]) (*Equivalence[T], error) {
	if s1.lat != s2.lat {
		return nil, fmt.Errorf("chain: jordan-holder: %w", ErrLattice)
	}
	if s1.Bot() != s2.Bot() || s1.Top() != s2.Top() {
		return nil, fmt.Errorf("chain: jordan-holder: (%v..%v) vs (%v..%v): %w",
			s1.Bot(), s1.Top(), s2.Bot(), s2.Top(), ErrEndpoints)
	}
	return jordanHolder(s1, s2)
}

func jordanHolder[T comparable](s1, s2 *Series[T]) (*Equivalence[T], error) {
	lat := s1.lat
	top := s1.Top()

	// Base case: a trivial interval admits only the trivial series. Any
	// well-formed series sharing the endpoints is literally equal to s1.
	if s1.Length() == 0 || s2.Length() == 0 {
		if s1.Length() != s2.Length() {
			// The longer series climbs strictly from bot to top, so the
			// endpoints cannot coincide; a covering step was not strict.
			return nil, fmt.Errorf("chain: jordan-holder: %d-step and %d-step series over the trivial interval at %v",
				s1.Length(), s2.Length(), top)
		}
		return &Equivalence[T]{from: s1, to: s2, forward: []int{}}, nil
	}

	n := s1.Length()
	x := s1.elems[n-1]
	y := s2.elems[s2.Length()-1]

	// Same penultimate element: strip the shared top step and recurse.
	if x == y {
		sub, err := jordanHolder(s1.EraseTop(), s2.EraseTop())
		if err != nil {
			return nil, err
		}
		return snocBoth(sub, top, top)
	}

	// Distinct maximal elements below top must join to it.
	if lat.Join(x, y) != top {
		return nil, fmt.Errorf("chain: jordan-holder: distinct covers %v and %v of %v do not join to it", x, y, top)
	}
	// Second isomorphism law pushes maximality down to the meet.
	z := lat.Meet(x, y)
	if !lat.IsMaximal(z, x) || !lat.IsMaximal(z, y) {
		return nil, fmt.Errorf("chain: jordan-holder: meet %v of covers %v, %v is not maximal in both", z, x, y)
	}

	// Constructive stand-in for the classical witness: an explicit
	// composition series from bot up to the pivot z.
	mid, err := seriesBetween(lat, s1.Bot(), z)
	if err != nil {
		return nil, fmt.Errorf("chain: jordan-holder: %w", err)
	}
	t1, err := mid.Snoc(x)
	if err != nil {
		return nil, err
	}
	t2, err := mid.Snoc(y)
	if err != nil {
		return nil, err
	}

	// Both recursive calls are one step shorter than s1: the first by
	// construction, the second because the first succeeding forces
	// mid.Length() == s1.Length()-2.
	e1, err := jordanHolder(s1.EraseTop(), t1)
	if err != nil {
		return nil, err
	}
	e2, err := jordanHolder(t2, s2.EraseTop())
	if err != nil {
		return nil, err
	}

	// s1 ~ mid.snoc(x).snoc(top) ~ mid.snoc(y).snoc(top) ~ s2.
	a, err := snocBoth(e1, top, top)
	if err != nil {
		return nil, err
	}
	b, err := swapLastTwo(mid, x, y, top)
	if err != nil {
		return nil, err
	}
	c, err := snocBoth(e2, top, top)
	if err != nil {
		return nil, err
	}
	ab, err := a.Compose(b)
	if err != nil {
		return nil, err
	}
	return ab.Compose(c)
}

// swapLastTwo relates mid.snoc(x).snoc(top) to mid.snoc(y).snoc(top) by the
// transposition of the last two step indices, identity everywhere below.
// The crossed steps match by the second isomorphism law: the factor top/x is
// the factor y/meet and top/y is the factor x/meet. A lattice instance whose
// labelling breaks that law is reported as an error here.
func swapLastTwo[T comparable](mid *Series[T], x, y, top T) (*Equivalence[T], error) {
	lat := mid.lat
	z := mid.Top()

	u1, err := mid.Snoc(x)
	if err != nil {
		return nil, err
	}
	if u1, err = u1.Snoc(top); err != nil {
		return nil, err
	}
	u2, err := mid.Snoc(y)
	if err != nil {
		return nil, err
	}
	if u2, err = u2.Snoc(top); err != nil {
		return nil, err
	}

	if c1, c2 := lat.FactorClass(z, x), lat.FactorClass(y, top); c1 != c2 {
		return nil, fmt.Errorf("chain: second isomorphism violated: %v/%v labelled %q but %v/%v labelled %q", x, z, c1, top, y, c2)
	}
	if c1, c2 := lat.FactorClass(x, top), lat.FactorClass(z, y); c1 != c2 {
		return nil, fmt.Errorf("chain: second isomorphism violated: %v/%v labelled %q but %v/%v labelled %q", top, x, c1, y, z, c2)
	}

	k := mid.Length()
	forward := make([]int, k+2)
	for i := 0; i < k; i++ {
		forward[i] = i
	}
	forward[k] = k + 1
	forward[k+1] = k
	return &Equivalence[T]{from: u1, to: u2, forward: forward}, nil
}

// seriesBetween searches the carrier for a composition series from lo up to
// hi, backtracking over candidate covers. The recursion strictly descends
// from hi, so it terminates on any finite carrier; failure means the
// interval admits no maximal chain of covering steps, i.e. the instance is
// not a composition lattice over that interval.
func seriesBetween[T comparable](lat order.FactorLattice[T], lo, hi T) (*Series[T], error) {
	if lo == hi {
		return Trivial(lat, lo), nil
	}
	if !lat.Leq(lo, hi) {
		return nil, fmt.Errorf("no series from %v to %v: not below it", lo, hi)
	}
	for _, w := range lat.Elements() {
		if w == hi || !lat.Leq(lo, w) || !lat.IsMaximal(w, hi) {
			continue
		}
		sub, err := seriesBetween(lat, lo, w)
		if err != nil {
			continue
		}
		return sub.Snoc(hi)
	}
	return nil, fmt.Errorf("no composition series from %v to %v", lo, hi)
}
