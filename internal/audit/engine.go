// Package audit checks factor-lattice instances against their declared
// invariants by loading them into a Datalog engine as facts and deriving
// violations with a fixed rule program. CheckFactorLattice in internal/order
// performs the same checks imperatively; the Datalog form exists so the rule
// set is inspectable and extensible without touching Go code.
package audit

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
	"go.uber.org/zap"
)

// Config bounds an engine run.
type Config struct {
	// FactLimit caps the number of extensional facts a single audit may
	// emit; 0 means unlimited.
	FactLimit int
	// Timeout bounds rule evaluation.
	Timeout time.Duration
}

// DefaultConfig returns limits suitable for the finite lattices chainkit
// ships with.
func DefaultConfig() Config {
	return Config{
		FactLimit: 200000,
		Timeout:   30 * time.Second,
	}
}

// Engine wraps the Mangle Datalog engine around a single program: rules
// plus extensional facts are loaded as one source unit, evaluated to
// fixpoint, and derived predicates read back out.
type Engine struct {
	cfg    Config
	logger *zap.Logger

	mu             sync.Mutex
	store          factstore.FactStore
	programInfo    *analysis.ProgramInfo
	predicateIndex map[string]ast.PredicateSym
}

// NewEngine creates an engine. A nil logger is replaced by a no-op one.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		logger: logger,
		store:  factstore.NewSimpleInMemoryStore(),
	}
}

// Run parses and analyzes the program, evaluates it to fixpoint and leaves
// the derived facts in the store for Facts to read.
func (e *Engine) Run(program string) error {
	unit, err := parse.Unit(bytes.NewReader([]byte(program)))
	if err != nil {
		return fmt.Errorf("audit: parse program: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return fmt.Errorf("audit: analyze program: %w", err)
	}
	e.programInfo = programInfo
	e.predicateIndex = make(map[string]ast.PredicateSym, len(programInfo.Decls))
	for sym := range programInfo.Decls {
		e.predicateIndex[sym.Symbol] = sym
	}
	e.store = factstore.NewSimpleInMemoryStore()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		_, evalErr := mengine.EvalProgramWithStats(programInfo, e.store)
		if evalErr == nil {
			e.logger.Debug("audit evaluation complete",
				zap.Duration("elapsed", time.Since(start)))
		}
		done <- evalErr
	}()

	timeout := e.cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	select {
	case evalErr := <-done:
		if evalErr != nil {
			return fmt.Errorf("audit: evaluate program: %w", evalErr)
		}
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("audit: evaluation exceeded %v", timeout)
	}
}

// Facts returns all facts of the named predicate currently in the store.
func (e *Engine) Facts(predicate string) ([]ast.Atom, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sym, ok := e.predicateIndex[predicate]
	if !ok {
		return nil, fmt.Errorf("audit: predicate %s is not part of the program", predicate)
	}
	var out []ast.Atom
	err := e.store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		out = append(out, atom)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("audit: read %s facts: %w", predicate, err)
	}
	return out, nil
}
