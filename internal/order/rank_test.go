package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOfChain(t *testing.T) {
	lat := chainLattice{n: 5}
	ranks, err := Rank[int](lat)
	require.NoError(t, err)

	for _, x := range lat.Elements() {
		assert.Equal(t, x, ranks[x], "in a total order the rank is the position")
	}
}

// cyclicOrder violates antisymmetry: 0 <= 1 <= 2 <= 0.
type cyclicOrder struct{ chainLattice }

func (c cyclicOrder) Leq(x, y int) bool {
	if x == 2 && y == 0 {
		return true
	}
	return c.chainLattice.Leq(x, y)
}

func TestRankDetectsCycle(t *testing.T) {
	_, err := Rank[int](cyclicOrder{chainLattice{n: 3}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not well-founded")
}

func TestMinimals(t *testing.T) {
	lat := chainLattice{n: 6}

	min := Minimals[int](lat, NewSet(4, 2, 5))
	require.Equal(t, []int{2}, min)

	// Every nonempty subset of a well-founded order has a minimal element.
	require.NotEmpty(t, Minimals[int](lat, NewSet(0, 1, 2, 3, 4, 5)))
	require.Empty(t, Minimals[int](lat, NewSet[int]()))
}
