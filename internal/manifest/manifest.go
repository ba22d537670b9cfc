// Package manifest loads YAML documents describing a lattice together with
// named composition series and signed measures over it, and runs the chain
// and measure machinery on their behalf. It is the boundary between the
// typed generic core and the CLI, which only sees plain result structs.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"chainkit/internal/chain"
	"chainkit/internal/lattice"
	"chainkit/internal/order"
)

// Lattice kinds a manifest may declare.
const (
	KindDivisors = "divisors"
	KindSubsets  = "subsets"
)

// Manifest is the parsed YAML document.
type Manifest struct {
	Lattice  LatticeSpec                   `yaml:"lattice"`
	Series   map[string][]int64            `yaml:"series"`
	Measures map[string]map[string]float64 `yaml:"measures"`

	// Path the manifest was loaded from, for error reporting.
	Path string `yaml:"-"`
}

// LatticeSpec selects and parameterizes the lattice instance.
type LatticeSpec struct {
	Kind    string `yaml:"kind"`
	Modulus int    `yaml:"modulus"` // divisors
	Ground  int    `yaml:"ground"`  // subsets
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	m.Path = path
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	switch m.Lattice.Kind {
	case KindDivisors:
		if m.Lattice.Modulus < 1 {
			return fmt.Errorf("divisors lattice needs a positive modulus, got %d", m.Lattice.Modulus)
		}
	case KindSubsets:
		if m.Lattice.Ground < 0 {
			return fmt.Errorf("subsets lattice needs a nonnegative ground size, got %d", m.Lattice.Ground)
		}
	case "":
		return fmt.Errorf("lattice kind missing")
	default:
		return fmt.Errorf("unknown lattice kind %q", m.Lattice.Kind)
	}
	for name, elems := range m.Series {
		if len(elems) == 0 {
			return fmt.Errorf("series %q is empty", name)
		}
	}
	return nil
}

// buildDivisors constructs the lattice and all named series for a divisors
// manifest.
func buildDivisors(m *Manifest) (order.FactorLattice[int], map[string]*chain.Series[int], error) {
	lat, err := lattice.Divisors(m.Lattice.Modulus)
	if err != nil {
		return nil, nil, err
	}
	carrier := make(map[int]struct{}, len(lat.Elements()))
	for _, d := range lat.Elements() {
		carrier[d] = struct{}{}
	}
	out := make(map[string]*chain.Series[int], len(m.Series))
	for name, raw := range m.Series {
		elems := make([]int, len(raw))
		for i, v := range raw {
			// Membership gate: the lattice methods assume carrier
			// elements and divide by them.
			if _, ok := carrier[int(v)]; !ok {
				return nil, nil, fmt.Errorf("series %q: element %d is not a divisor of %d", name, v, m.Lattice.Modulus)
			}
			elems[i] = int(v)
		}
		s, err := chain.New[int](lat, elems)
		if err != nil {
			return nil, nil, fmt.Errorf("series %q: %w", name, err)
		}
		out[name] = s
	}
	return lat, out, nil
}

// buildSubsets is buildDivisors for a subsets manifest; series elements are
// bitmasks.
func buildSubsets(m *Manifest) (order.FactorLattice[uint64], map[string]*chain.Series[uint64], error) {
	lat, err := lattice.Subsets(m.Lattice.Ground)
	if err != nil {
		return nil, nil, err
	}
	top := lat.Top()
	out := make(map[string]*chain.Series[uint64], len(m.Series))
	for name, raw := range m.Series {
		elems := make([]uint64, len(raw))
		for i, v := range raw {
			if v < 0 || uint64(v) > top {
				return nil, nil, fmt.Errorf("series %q: element %d outside the subset lattice", name, v)
			}
			elems[i] = uint64(v)
		}
		s, err := chain.New[uint64](lat, elems)
		if err != nil {
			return nil, nil, fmt.Errorf("series %q: %w", name, err)
		}
		out[name] = s
	}
	return lat, out, nil
}
