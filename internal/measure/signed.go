// Package measure implements signed measures over finite point spaces, with
// the Hahn and Jordan decompositions carried out as actual computations: on
// a finite space the positive set of a signed measure is simply the set of
// points with nonnegative mass, so the classical existence theorems become
// one pass over the points.
package measure

import (
	"fmt"
	"math"
	"sort"
)

// Signed is a signed measure on a finite space, given by its point masses.
// The zero value is the zero measure on the empty space. Values are treated
// as immutable: arithmetic returns new measures.
type Signed struct {
	mass map[string]float64
}

// Of builds a signed measure from point masses. Non-finite masses are
// rejected; infinite signed measures are out of scope on a finite space.
func Of(mass map[string]float64) (*Signed, error) {
	out := make(map[string]float64, len(mass))
	for p, m := range mass {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, fmt.Errorf("measure: point %q has non-finite mass %v", p, m)
		}
		out[p] = m
	}
	return &Signed{mass: out}, nil
}

// Points returns the points of the space in sorted order.
func (s *Signed) Points() []string {
	out := make([]string, 0, len(s.mass))
	for p := range s.mass {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Mass returns the mass of a single point; zero for unknown points.
func (s *Signed) Mass(p string) float64 { return s.mass[p] }

// Total returns the measure of the whole space.
func (s *Signed) Total() float64 {
	sum := 0.0
	for _, m := range s.mass {
		sum += m
	}
	return sum
}

// MeasureOf returns the measure of a subset given by point names. Points
// outside the space contribute nothing.
func (s *Signed) MeasureOf(set []string) float64 {
	sum := 0.0
	for _, p := range set {
		sum += s.mass[p]
	}
	return sum
}

// Add returns s + other, pointwise over the union of the two spaces.
func (s *Signed) Add(other *Signed) *Signed {
	out := make(map[string]float64, len(s.mass))
	for p, m := range s.mass {
		out[p] = m
	}
	for p, m := range other.mass {
		out[p] += m
	}
	return &Signed{mass: out}
}

// Neg returns the pointwise negation.
func (s *Signed) Neg() *Signed {
	out := make(map[string]float64, len(s.mass))
	for p, m := range s.mass {
		out[p] = -m
	}
	return &Signed{mass: out}
}

// Sub returns s - other.
func (s *Signed) Sub(other *Signed) *Signed { return s.Add(other.Neg()) }

// Scale returns c * s.
func (s *Signed) Scale(c float64) *Signed {
	out := make(map[string]float64, len(s.mass))
	for p, m := range s.mass {
		out[p] = c * m
	}
	return &Signed{mass: out}
}

// IsNonNegative reports whether every point mass is >= 0, i.e. the signed
// measure is an ordinary measure.
func (s *Signed) IsNonNegative() bool {
	for _, m := range s.mass {
		if m < 0 {
			return false
		}
	}
	return true
}
