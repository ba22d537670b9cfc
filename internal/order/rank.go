package order

import "fmt"

// Rank computes the height of every carrier element: the length of the
// longest strictly increasing chain ending at it. Bot has rank 0. In a
// lattice admitting composition series the rank of an element is the length
// of every composition series from bot up to it.
//
// The recursion descends along the strict order, which is well-founded on a
// finite carrier as long as Leq is a genuine partial order; a cycle (broken
// antisymmetry) is reported as an error instead of recursing forever.
func Rank[T comparable](lat Lattice[T]) (map[T]int, error) {
	ranks := make(map[T]int, len(lat.Elements()))
	visiting := make(map[T]bool)

	var rank func(x T) (int, error)
	rank = func(x T) (int, error) {
		if r, ok := ranks[x]; ok {
			return r, nil
		}
		if visiting[x] {
			return 0, fmt.Errorf("order is not well-founded: cycle through %v", x)
		}
		visiting[x] = true
		defer delete(visiting, x)

		best := 0
		for _, y := range lat.Elements() {
			if !Lt(lat, y, x) {
				continue
			}
			r, err := rank(y)
			if err != nil {
				return 0, err
			}
			if r+1 > best {
				best = r + 1
			}
		}
		ranks[x] = best
		return best, nil
	}

	for _, x := range lat.Elements() {
		if _, err := rank(x); err != nil {
			return nil, err
		}
	}
	return ranks, nil
}

// Minimals returns the elements of s that are minimal within s: no other
// member of s lies strictly below them. For nonempty s over a well-founded
// order the result is nonempty, which is the finite shadow of the
// well-founded induction principle.
func Minimals[T comparable](lat Lattice[T], s Set[T]) []T {
	var out []T
	for x := range s {
		minimal := true
		for y := range s {
			if Lt(lat, y, x) {
				minimal = false
				break
			}
		}
		if minimal {
			out = append(out, x)
		}
	}
	return out
}
