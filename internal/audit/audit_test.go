package audit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"chainkit/internal/lattice"
	"chainkit/internal/order"
)

func TestAuditAcceptsSoundLattices(t *testing.T) {
	logger := zaptest.NewLogger(t)

	div, err := lattice.Divisors(60)
	require.NoError(t, err)
	violations, err := Audit[int](DefaultConfig(), logger, div)
	require.NoError(t, err)
	assert.Empty(t, violations)

	sub, err := lattice.Subsets(3)
	require.NoError(t, err)
	subViolations, err := Audit[uint64](DefaultConfig(), logger, sub)
	require.NoError(t, err)
	assert.Empty(t, subViolations)
}

func TestAuditTrivialLattice(t *testing.T) {
	div, err := lattice.Divisors(1)
	require.NoError(t, err)

	violations, err := Audit[int](DefaultConfig(), nil, div)
	require.NoError(t, err)
	assert.Empty(t, violations, "a one-element lattice has nothing to violate")
}

// mislabeled breaks the second isomorphism law by labelling factors with
// the covering pair instead of the isomorphism class.
type mislabeled struct{ *lattice.DivisorLattice }

func (m mislabeled) FactorClass(x, y int) string {
	return fmt.Sprintf("%d/%d", y, x)
}

func TestAuditFindsSecondIsoViolation(t *testing.T) {
	div, err := lattice.Divisors(6)
	require.NoError(t, err)

	violations, err := Audit[int](DefaultConfig(), zaptest.NewLogger(t), mislabeled{div})
	require.NoError(t, err)
	require.NotEmpty(t, violations)
	for _, v := range violations {
		assert.Equal(t, "second-iso", v.Law)
	}
}

// gappyCovers claims one covering pair that skips an element.
type gappyCovers struct{ *lattice.DivisorLattice }

func (g gappyCovers) IsMaximal(x, y int) bool {
	if x == 1 && y == 4 {
		return true
	}
	return g.DivisorLattice.IsMaximal(x, y)
}

func TestAuditFindsCoverGap(t *testing.T) {
	div, err := lattice.Divisors(4)
	require.NoError(t, err)

	violations, err := Audit[int](DefaultConfig(), zaptest.NewLogger(t), gappyCovers{div})
	require.NoError(t, err)

	var laws []string
	for _, v := range violations {
		laws = append(laws, v.Law)
	}
	assert.Contains(t, laws, "cover", "violations: %v", violations)
}

func TestAuditAgreesWithDirectCheck(t *testing.T) {
	div, err := lattice.Divisors(30)
	require.NoError(t, err)

	direct := order.CheckFactorLattice[int](div)
	datalog, err := Audit[int](DefaultConfig(), nil, div)
	require.NoError(t, err)

	assert.Empty(t, direct)
	assert.Empty(t, datalog)

	brokenDirect := order.CheckFactorLattice[int](mislabeled{div})
	brokenDatalog, err := Audit[int](DefaultConfig(), nil, mislabeled{div})
	require.NoError(t, err)

	assert.NotEmpty(t, brokenDirect)
	assert.NotEmpty(t, brokenDatalog)
}

func TestEngineRejectsBadProgram(t *testing.T) {
	eng := NewEngine(DefaultConfig(), nil)
	err := eng.Run("this is not datalog(")
	require.Error(t, err)

	_, err = eng.Facts("unknown")
	require.Error(t, err)
}
