package order

import "fmt"

// Violation records one broken law found by CheckLattice.
type Violation struct {
	Law    string
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Law, v.Detail)
}

func violationf(law, format string, args ...interface{}) Violation {
	return Violation{Law: law, Detail: fmt.Sprintf(format, args...)}
}

// CheckLattice verifies the lattice laws over the full carrier and returns
// every violation found. An empty result means the instance is sound.
//
// This is O(n^2) in the carrier size (O(n^3) for the covering checks), which
// is fine for the finite lattices chainkit works with; it is a diagnostic,
// not a hot path.
func CheckLattice[T comparable](lat Lattice[T]) []Violation {
	var out []Violation
	elems := lat.Elements()

	// Bounds.
	for _, x := range elems {
		if !lat.Leq(lat.Bot(), x) {
			out = append(out, violationf("bot-least", "bot %v not below %v", lat.Bot(), x))
		}
		if !lat.Leq(x, lat.Top()) {
			out = append(out, violationf("top-greatest", "%v not below top %v", x, lat.Top()))
		}
		if !lat.Leq(x, x) {
			out = append(out, violationf("leq-refl", "%v not below itself", x))
		}
	}

	for _, x := range elems {
		for _, y := range elems {
			if x != y && lat.Leq(x, y) && lat.Leq(y, x) {
				out = append(out, violationf("leq-antisym", "%v and %v below each other", x, y))
			}
			m, j := lat.Meet(x, y), lat.Join(x, y)
			if lat.Meet(y, x) != m {
				out = append(out, violationf("meet-comm", "meet(%v,%v) != meet(%v,%v)", x, y, y, x))
			}
			if lat.Join(y, x) != j {
				out = append(out, violationf("join-comm", "join(%v,%v) != join(%v,%v)", x, y, y, x))
			}
			if !lat.Leq(m, x) || !lat.Leq(m, y) {
				out = append(out, violationf("meet-lower", "meet(%v,%v)=%v not a lower bound", x, y, m))
			}
			if !lat.Leq(x, j) || !lat.Leq(y, j) {
				out = append(out, violationf("join-upper", "join(%v,%v)=%v not an upper bound", x, y, j))
			}
			// Absorption ties the two operations to each other.
			if lat.Meet(x, lat.Join(x, y)) != x {
				out = append(out, violationf("absorb-meet", "x=%v y=%v", x, y))
			}
			if lat.Join(x, lat.Meet(x, y)) != x {
				out = append(out, violationf("absorb-join", "x=%v y=%v", x, y))
			}
			// Consistency: x <= y iff meet(x,y) == x iff join(x,y) == y.
			if lat.Leq(x, y) != (m == x) {
				out = append(out, violationf("leq-meet", "x=%v y=%v meet=%v", x, y, m))
			}
			if lat.Leq(x, y) != (j == y) {
				out = append(out, violationf("leq-join", "x=%v y=%v join=%v", x, y, j))
			}
		}
	}

	return out
}

// CheckFactorLattice runs CheckLattice and additionally verifies the
// FactorLattice invariants: IsMaximal agrees with the derived covering
// relation, distinct covers join to their parent, and the second isomorphism
// law holds for the FactorClass labelling.
func CheckFactorLattice[T comparable](lat FactorLattice[T]) []Violation {
	out := CheckLattice[T](lat)
	elems := lat.Elements()

	for _, x := range elems {
		for _, y := range elems {
			if lat.IsMaximal(x, y) != Covers[T](lat, x, y) {
				out = append(out, violationf("cover", "IsMaximal(%v,%v)=%v disagrees with order", x, y, lat.IsMaximal(x, y)))
			}
		}
	}

	for _, z := range elems {
		for _, x := range elems {
			if !lat.IsMaximal(x, z) {
				continue
			}
			for _, y := range elems {
				if x == y || !lat.IsMaximal(y, z) {
					continue
				}
				if lat.Join(x, y) != z {
					out = append(out, violationf("cover-join", "distinct covers %v, %v of %v do not join to it", x, y, z))
				}
			}
		}
	}

	// Second isomorphism law, stated over covering pairs only.
	for _, x := range elems {
		for _, y := range elems {
			j := lat.Join(x, y)
			if !lat.IsMaximal(x, j) {
				continue
			}
			m := lat.Meet(x, y)
			if !lat.IsMaximal(m, y) {
				out = append(out, violationf("second-iso-cover", "IsMaximal(%v,%v) but meet %v does not cover into %v", x, j, m, y))
				continue
			}
			if lat.FactorClass(x, j) != lat.FactorClass(m, y) {
				out = append(out, violationf("second-iso",
					"factor %v/%v labelled %q but %v/%v labelled %q",
					j, x, lat.FactorClass(x, j), y, m, lat.FactorClass(m, y)))
			}
		}
	}

	return out
}
