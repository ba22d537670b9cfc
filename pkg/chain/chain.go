// Package chain is the public surface of the composition series toolkit.
// It re-exports the core order and chain types so external callers do not
// import internal packages directly.
package chain

import (
	"chainkit/internal/chain"
	"chainkit/internal/lattice"
	"chainkit/internal/order"
)

// Lattice is a finite bounded lattice over a comparable carrier.
type Lattice[T comparable] = order.Lattice[T]

// FactorLattice adds the covering structure and factor labelling needed
// for composition series.
type FactorLattice[T comparable] = order.FactorLattice[T]

// Violation is one failed lattice law found by validation.
type Violation = order.Violation

// Series is a maximal chain between two lattice elements.
type Series[T comparable] = chain.Series[T]

// Equivalence is a verified Jordan-Hölder witness between two series.
type Equivalence[T comparable] = chain.Equivalence[T]

// Sentinel errors from series construction and transformation.
var (
	ErrNotMaximal = chain.ErrNotMaximal
	ErrGlue       = chain.ErrGlue
	ErrEndpoints  = chain.ErrEndpoints
	ErrLattice    = chain.ErrLattice
	ErrOutOfRange = chain.ErrOutOfRange
)

// New builds a series from its element list, validating every step.
func New[T comparable](lat order.FactorLattice[T], elems []T) (*Series[T], error) {
	return chain.New(lat, elems)
}

// Trivial is the length zero series at x.
func Trivial[T comparable](lat order.FactorLattice[T], x T) *Series[T] {
	return chain.Trivial(lat, x)
}

// JordanHolder constructs an equivalence between two composition series
// with the same endpoints.
func JordanHolder[T comparable](s1, s2 *Series[T]) (*Equivalence[T], error) {
	return chain.JordanHolder(s1, s2)
}

// CheckLattice verifies the bounded lattice laws by exhaustion.
func CheckLattice[T comparable](lat order.Lattice[T]) []Violation {
	return order.CheckLattice(lat)
}

// CheckFactorLattice verifies the covering and factor labelling laws on
// top of the lattice laws.
func CheckFactorLattice[T comparable](lat order.FactorLattice[T]) []Violation {
	return order.CheckFactorLattice(lat)
}

// Divisors is the lattice of divisors of n ordered by divisibility.
func Divisors(n int) (order.FactorLattice[int], error) {
	return lattice.Divisors(n)
}

// Subsets is the Boolean lattice of subsets of {0, ..., n-1} as bitmasks.
func Subsets(n int) (order.FactorLattice[uint64], error) {
	return lattice.Subsets(n)
}
