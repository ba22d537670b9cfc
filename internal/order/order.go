// Package order defines the lattice abstractions the rest of chainkit builds on.
// Everything here works over an explicitly enumerable finite carrier: where the
// mathematical treatment asserts that a witness exists, code in this module can
// (and does) search for it.
package order

// Lattice describes a bounded lattice over a finite carrier type T.
//
// Implementations must satisfy the usual lattice laws (Meet/Join commutative,
// associative, absorptive, consistent with Leq) and Bot/Top must be the least
// and greatest elements of Elements(). CheckLattice verifies all of this for a
// concrete instance; callers that construct their own instances should run it
// once in their tests.
type Lattice[T comparable] interface {
	// Leq reports whether x <= y in the lattice order.
	Leq(x, y T) bool
	// Meet returns the greatest lower bound of x and y.
	Meet(x, y T) T
	// Join returns the least upper bound of x and y.
	Join(x, y T) T
	// Bot returns the least element.
	Bot() T
	// Top returns the greatest element.
	Top() T
	// Elements enumerates the full carrier. The slice must not be mutated.
	Elements() []T
}

// FactorLattice extends Lattice with the two relations composition-series
// machinery needs: a covering predicate and an isomorphism labelling on
// covering factors.
//
// FactorClass realizes the abstract iso relation as a label: two factors
// (x, y) and (x', y') are isomorphic exactly when their labels are equal.
// Equality of labels is symmetric and transitive by construction, which is
// what the series equivalence in internal/chain relies on.
//
// Required invariants, checked at runtime by CheckLattice and the Datalog
// auditor rather than by the compiler:
//
//   - IsMaximal(x, y) implies x < y with no element strictly between.
//   - If x != y are both maximal below z, then Join(x, y) == z.
//   - Second isomorphism law: IsMaximal(x, Join(x, y)) implies
//     FactorClass(x, Join(x, y)) == FactorClass(Meet(x, y), y).
type FactorLattice[T comparable] interface {
	Lattice[T]

	// IsMaximal reports whether y covers x: x < y and nothing lies strictly
	// between them.
	IsMaximal(x, y T) bool

	// FactorClass labels the isomorphism class of the factor y/x for a
	// covering pair (x, y). The result is unspecified when y does not
	// cover x.
	FactorClass(x, y T) string
}

// Lt reports strict order: x <= y and x != y.
func Lt[T comparable](lat Lattice[T], x, y T) bool {
	return x != y && lat.Leq(x, y)
}

// Comparable reports whether x and y are related either way.
func Comparable[T comparable](lat Lattice[T], x, y T) bool {
	return lat.Leq(x, y) || lat.Leq(y, x)
}

// Covers reports whether y covers x, derived from the order alone: x < y and
// no carrier element lies strictly between. Instances usually implement
// IsMaximal directly with something cheaper; Covers is the reference
// definition the auditor checks them against.
func Covers[T comparable](lat Lattice[T], x, y T) bool {
	if !Lt(lat, x, y) {
		return false
	}
	for _, z := range lat.Elements() {
		if Lt(lat, x, z) && Lt(lat, z, y) {
			return false
		}
	}
	return true
}
