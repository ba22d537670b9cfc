package manifest

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"chainkit/internal/audit"
	"chainkit/internal/chain"
	"chainkit/internal/measure"
	"chainkit/internal/order"
)

// CheckResult reports validation of one manifest: lattice law violations
// plus per-series problems. Empty slices mean the manifest is sound; every
// series was already checked for covering steps when it was built, so a
// manifest that fails to build reports through the error instead.
type CheckResult struct {
	Manifest   string
	Lattice    string
	Series     []string
	Violations []order.Violation
}

// Ok reports whether the check found nothing wrong.
func (r *CheckResult) Ok() bool { return len(r.Violations) == 0 }

// Check builds everything the manifest declares and verifies the lattice
// instance against the factor lattice laws.
func Check(m *Manifest) (*CheckResult, error) {
	result := &CheckResult{Manifest: m.Path, Lattice: m.Lattice.Kind}

	switch m.Lattice.Kind {
	case KindDivisors:
		lat, series, err := buildDivisors(m)
		if err != nil {
			return nil, err
		}
		result.Violations = order.CheckFactorLattice[int](lat)
		result.Series = seriesNames(series)
	case KindSubsets:
		lat, series, err := buildSubsets(m)
		if err != nil {
			return nil, err
		}
		result.Violations = order.CheckFactorLattice[uint64](lat)
		result.Series = seriesNames(series)
	default:
		return nil, fmt.Errorf("manifest: unknown lattice kind %q", m.Lattice.Kind)
	}
	return result, nil
}

// EquateResult is the outcome of a Jordan–Hölder run between two named
// series: the step bijection and the factor class carried by each step.
type EquateResult struct {
	Manifest string
	Left     string
	Right    string
	Length   int
	Mapping  []int
	Classes  []string
}

// Equate runs JordanHolder between two named series of the manifest.
func Equate(m *Manifest, left, right string) (*EquateResult, error) {
	switch m.Lattice.Kind {
	case KindDivisors:
		_, series, err := buildDivisors(m)
		if err != nil {
			return nil, err
		}
		return equate(m, series, left, right)
	case KindSubsets:
		_, series, err := buildSubsets(m)
		if err != nil {
			return nil, err
		}
		return equate(m, series, left, right)
	default:
		return nil, fmt.Errorf("manifest: unknown lattice kind %q", m.Lattice.Kind)
	}
}

func equate[T comparable](m *Manifest, series map[string]*chain.Series[T], left, right string) (*EquateResult, error) {
	s1, ok := series[left]
	if !ok {
		return nil, fmt.Errorf("manifest: %s declares no series %q", m.Path, left)
	}
	s2, ok := series[right]
	if !ok {
		return nil, fmt.Errorf("manifest: %s declares no series %q", m.Path, right)
	}

	e, err := chain.JordanHolder(s1, s2)
	if err != nil {
		return nil, err
	}

	classes := make([]string, s1.Length())
	for i := range classes {
		lo, hi, _ := s1.Step(i)
		classes[i] = s1.Lattice().FactorClass(lo, hi)
	}
	return &EquateResult{
		Manifest: m.Path,
		Left:     left,
		Right:    right,
		Length:   s1.Length(),
		Mapping:  e.Mapping(),
		Classes:  classes,
	}, nil
}

// AuditLattice runs the Datalog auditor over the manifest's lattice.
func AuditLattice(cfg audit.Config, logger *zap.Logger, m *Manifest) ([]order.Violation, error) {
	switch m.Lattice.Kind {
	case KindDivisors:
		lat, _, err := buildDivisors(m)
		if err != nil {
			return nil, err
		}
		return audit.Audit[int](cfg, logger, lat)
	case KindSubsets:
		lat, _, err := buildSubsets(m)
		if err != nil {
			return nil, err
		}
		return audit.Audit[uint64](cfg, logger, lat)
	default:
		return nil, fmt.Errorf("manifest: unknown lattice kind %q", m.Lattice.Kind)
	}
}

// DecomposeResult carries the Hahn split and Jordan parts of one declared
// measure.
type DecomposeResult struct {
	Manifest       string
	Measure        string
	Positive       []string
	Negative       []string
	PosTotal       float64
	NegTotal       float64
	TotalVariation float64
}

// Decompose runs the Hahn and Jordan decompositions of a named measure.
func Decompose(m *Manifest, name string) (*DecomposeResult, error) {
	mass, ok := m.Measures[name]
	if !ok {
		return nil, fmt.Errorf("manifest: %s declares no measure %q", m.Path, name)
	}
	s, err := measure.Of(mass)
	if err != nil {
		return nil, err
	}
	h := measure.HahnDecomposition(s)
	j := measure.JordanDecomposition(s)
	return &DecomposeResult{
		Manifest:       m.Path,
		Measure:        name,
		Positive:       h.Positive,
		Negative:       h.Negative,
		PosTotal:       j.Pos.Total(),
		NegTotal:       j.Neg.Total(),
		TotalVariation: measure.TotalVariation(s).Total(),
	}, nil
}

func seriesNames[T comparable](series map[string]*chain.Series[T]) []string {
	out := make([]string, 0, len(series))
	for name := range series {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
