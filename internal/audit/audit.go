package audit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/mangle/ast"
	"go.uber.org/zap"

	"chainkit/internal/order"
)

// rules is the invariant program evaluated over the lattice facts. Elements
// are name constants /e_<index> into the carrier; factor classes are
// strings. Each violation predicate captures one broken law:
//
//	cover_not_strict  a covering pair that is not strictly ordered
//	cover_gap         an element strictly between a covering pair
//	cover_join        two distinct covers of z whose join is not z
//	second_iso        a factor labelling breaking the second isomorphism law
const rules = `
cover_not_strict(X, Y) :- covers(X, Y), le(Y, X).
cover_gap(X, Y, Z) :- covers(X, Y), le(X, Z), le(Z, Y), X != Z, Y != Z.
cover_join(X, Y, Z) :- covers(X, Z), covers(Y, Z), X != Y, joinof(X, Y, J), J != Z.
second_iso(X, Y, J) :- joinof(X, Y, J), covers(X, J), meetof(X, Y, M), factor(X, J, C1), factor(M, Y, C2), C1 != C2.
`

var violationPredicates = []struct {
	name string
	law  string
}{
	{"cover_not_strict", "cover"},
	{"cover_gap", "cover"},
	{"cover_join", "cover-join"},
	{"second_iso", "second-iso"},
}

// Audit renders a finite factor lattice into Datalog facts, evaluates the
// invariant rules and decodes any derived violations back to lattice
// elements. An empty result means the instance passed.
func Audit[T comparable](cfg Config, logger *zap.Logger, lat order.FactorLattice[T]) ([]order.Violation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	elems := lat.Elements()

	program, coverPairs, err := renderFacts(cfg, lat)
	if err != nil {
		return nil, err
	}
	if coverPairs == 0 {
		// Every rule joins against a covering pair; a trivial lattice has
		// nothing to derive (and no facts for the covers predicate, which
		// the analyzer would reject).
		return nil, nil
	}

	eng := NewEngine(cfg, logger)
	if err := eng.Run(rules + program); err != nil {
		return nil, err
	}

	var out []order.Violation
	for _, vp := range violationPredicates {
		atoms, err := eng.Facts(vp.name)
		if err != nil {
			return nil, err
		}
		for _, atom := range atoms {
			parts := make([]string, 0, len(atom.Args))
			for _, arg := range atom.Args {
				parts = append(parts, decodeElem(arg, elems))
			}
			out = append(out, order.Violation{
				Law:    vp.law,
				Detail: fmt.Sprintf("%s(%s)", vp.name, strings.Join(parts, ", ")),
			})
		}
	}
	logger.Info("lattice audit finished",
		zap.Int("elements", len(elems)),
		zap.Int("violations", len(out)))
	return out, nil
}

// renderFacts writes the extensional database for the lattice: le over all
// related pairs, covers and factor over all covering pairs, meetof and
// joinof over all pairs. Returns the fact text and the covering pair count.
func renderFacts[T comparable](cfg Config, lat order.FactorLattice[T]) (string, int, error) {
	elems := lat.Elements()
	index := make(map[T]int, len(elems))
	for i, e := range elems {
		index[e] = i
	}

	var b strings.Builder
	facts := 0
	covers := 0
	emit := func(format string, args ...interface{}) error {
		facts++
		if cfg.FactLimit > 0 && facts > cfg.FactLimit {
			return fmt.Errorf("audit: lattice with %d elements exceeds fact limit %d", len(elems), cfg.FactLimit)
		}
		fmt.Fprintf(&b, format+"\n", args...)
		return nil
	}

	for i, x := range elems {
		for j, y := range elems {
			if lat.Leq(x, y) {
				if err := emit("le(/e_%d, /e_%d).", i, j); err != nil {
					return "", 0, err
				}
			}
			if lat.IsMaximal(x, y) {
				covers++
				if err := emit("covers(/e_%d, /e_%d).", i, j); err != nil {
					return "", 0, err
				}
				if err := emit("factor(/e_%d, /e_%d, %q).", i, j, lat.FactorClass(x, y)); err != nil {
					return "", 0, err
				}
			}
			m, ok := index[lat.Meet(x, y)]
			if !ok {
				return "", 0, fmt.Errorf("audit: meet of %v and %v is outside the carrier", x, y)
			}
			jn, ok := index[lat.Join(x, y)]
			if !ok {
				return "", 0, fmt.Errorf("audit: join of %v and %v is outside the carrier", x, y)
			}
			if err := emit("meetof(/e_%d, /e_%d, /e_%d).", i, j, m); err != nil {
				return "", 0, err
			}
			if err := emit("joinof(/e_%d, /e_%d, /e_%d).", i, j, jn); err != nil {
				return "", 0, err
			}
		}
	}
	return b.String(), covers, nil
}

// decodeElem maps a /e_<i> name constant back to the carrier element it
// encodes; other constants render as themselves.
func decodeElem[T comparable](arg ast.BaseTerm, elems []T) string {
	c, ok := arg.(ast.Constant)
	if !ok {
		return arg.String()
	}
	sym := c.Symbol
	if idx, found := strings.CutPrefix(sym, "/e_"); found {
		if i, err := strconv.Atoi(idx); err == nil && i >= 0 && i < len(elems) {
			return fmt.Sprintf("%v", elems[i])
		}
	}
	return c.String()
}
