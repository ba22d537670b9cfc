// Package lattice supplies the concrete finite lattices chainkit ships with.
// Each instance implements order.FactorLattice and is expected to pass
// order.CheckFactorLattice; the package tests run that check on every
// constructor.
package lattice

import (
	"fmt"
	"sort"
	"strconv"
)

// DivisorLattice is the lattice of divisors of a fixed modulus n, ordered by
// divisibility. It models the subgroup lattice of the cyclic group of order
// n: meet is gcd, join is lcm, and a divisor y covers x exactly when y/x is
// prime. The factor class of such a covering step is that prime, so two
// composition series are equivalent exactly when they use the same primes
// with multiplicity, i.e. the Jordan–Hölder factors of the cyclic group.
type DivisorLattice struct {
	n     int
	elems []int
}

// Divisors constructs the divisor lattice of n.
func Divisors(n int) (*DivisorLattice, error) {
	if n < 1 {
		return nil, fmt.Errorf("divisor lattice: modulus must be positive, got %d", n)
	}
	var elems []int
	for d := 1; d*d <= n; d++ {
		if n%d == 0 {
			elems = append(elems, d)
			if d != n/d {
				elems = append(elems, n/d)
			}
		}
	}
	sort.Ints(elems)
	return &DivisorLattice{n: n, elems: elems}, nil
}

// Modulus returns the fixed n whose divisors form the carrier.
func (l *DivisorLattice) Modulus() int { return l.n }

func (l *DivisorLattice) Leq(x, y int) bool { return y%x == 0 }
func (l *DivisorLattice) Meet(x, y int) int { return gcd(x, y) }
func (l *DivisorLattice) Join(x, y int) int { return x / gcd(x, y) * y }
func (l *DivisorLattice) Bot() int          { return 1 }
func (l *DivisorLattice) Top() int          { return l.n }
func (l *DivisorLattice) Elements() []int   { return l.elems }

// IsMaximal reports whether y covers x, i.e. x divides y and the quotient is
// prime.
func (l *DivisorLattice) IsMaximal(x, y int) bool {
	return x != y && y%x == 0 && isPrime(y/x)
}

// FactorClass labels a covering step by its prime quotient.
func (l *DivisorLattice) FactorClass(x, y int) string {
	return strconv.Itoa(y / x)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}
