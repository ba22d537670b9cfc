package lattice

import (
	"fmt"
	"math/bits"
)

// maxSubsetGround caps the ground set so Elements() stays enumerable.
const maxSubsetGround = 16

// SubsetLattice is the Boolean algebra of subsets of {0, .., n-1},
// represented as bitmasks. Meet and join are bitwise and/or, a set covers
// another when it adds exactly one point, and the factor class of that step
// is the added point. It is also a generalized Boolean algebra: SDiff is the
// relative complement satisfying (x ⊓ y) ⊔ (x \ y) = x and
// (x ⊓ y) ⊓ (x \ y) = ⊥.
type SubsetLattice struct {
	ground int
	elems  []uint64
}

// Subsets constructs the subset lattice over a ground set of size n.
func Subsets(n int) (*SubsetLattice, error) {
	if n < 0 || n > maxSubsetGround {
		return nil, fmt.Errorf("subset lattice: ground size must be in [0, %d], got %d", maxSubsetGround, n)
	}
	elems := make([]uint64, 1<<n)
	for i := range elems {
		elems[i] = uint64(i)
	}
	return &SubsetLattice{ground: n, elems: elems}, nil
}

// Ground returns the size of the ground set.
func (l *SubsetLattice) Ground() int { return l.ground }

func (l *SubsetLattice) Leq(x, y uint64) bool    { return x&^y == 0 }
func (l *SubsetLattice) Meet(x, y uint64) uint64 { return x & y }
func (l *SubsetLattice) Join(x, y uint64) uint64 { return x | y }
func (l *SubsetLattice) Bot() uint64             { return 0 }
func (l *SubsetLattice) Top() uint64             { return 1<<l.ground - 1 }
func (l *SubsetLattice) Elements() []uint64      { return l.elems }

// Compl returns the Boolean complement within the ground set.
func (l *SubsetLattice) Compl(x uint64) uint64 { return l.Top() &^ x }

// SDiff returns the relative complement x \ y.
func (l *SubsetLattice) SDiff(x, y uint64) uint64 { return x &^ y }

// IsMaximal reports whether y covers x: y adds exactly one point to x.
func (l *SubsetLattice) IsMaximal(x, y uint64) bool {
	return x&^y == 0 && bits.OnesCount64(y&^x) == 1
}

// FactorClass labels a covering step by the index of the added point. The
// second isomorphism law holds because (x ⊔ y) \ x and y \ (x ⊓ y) are the
// same single point.
func (l *SubsetLattice) FactorClass(x, y uint64) string {
	return fmt.Sprintf("point:%d", bits.TrailingZeros64(y&^x))
}
