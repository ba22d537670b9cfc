package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainkit/internal/order"
)

func TestSubsetsCarrier(t *testing.T) {
	lat, err := Subsets(3)
	require.NoError(t, err)

	assert.Len(t, lat.Elements(), 8)
	assert.Equal(t, uint64(0), lat.Bot())
	assert.Equal(t, uint64(0b111), lat.Top())
	assert.Equal(t, 3, lat.Ground())
}

func TestSubsetsRejectsBadGround(t *testing.T) {
	_, err := Subsets(-1)
	require.Error(t, err)
	_, err = Subsets(maxSubsetGround + 1)
	require.Error(t, err)
}

func TestSubsetsIsSoundFactorLattice(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4} {
		lat, err := Subsets(n)
		require.NoError(t, err)
		violations := order.CheckFactorLattice[uint64](lat)
		require.Empty(t, violations, "n=%d: %v", n, violations)
	}
}

func TestSubsetsCoveringAndFactors(t *testing.T) {
	lat, err := Subsets(4)
	require.NoError(t, err)

	assert.True(t, lat.IsMaximal(0b0001, 0b0011))
	assert.False(t, lat.IsMaximal(0b0001, 0b0111), "adds two points")
	assert.False(t, lat.IsMaximal(0b0011, 0b0001), "covering goes up")

	assert.Equal(t, "point:1", lat.FactorClass(0b0001, 0b0011))
	assert.Equal(t, "point:3", lat.FactorClass(0b0111, 0b1111))
}

func TestSubsetsBooleanAlgebraLaws(t *testing.T) {
	lat, err := Subsets(4)
	require.NoError(t, err)

	for _, x := range lat.Elements() {
		// Complement laws.
		assert.Equal(t, lat.Bot(), lat.Meet(x, lat.Compl(x)))
		assert.Equal(t, lat.Top(), lat.Join(x, lat.Compl(x)))
		assert.Equal(t, x, lat.Compl(lat.Compl(x)))

		for _, y := range lat.Elements() {
			// Generalized Boolean algebra: sdiff is the relative complement
			// of y in x.
			d := lat.SDiff(x, y)
			assert.Equal(t, x, lat.Join(lat.Meet(x, y), d))
			assert.Equal(t, lat.Bot(), lat.Meet(lat.Meet(x, y), d))
			// De Morgan.
			assert.Equal(t, lat.Compl(lat.Meet(x, y)), lat.Join(lat.Compl(x), lat.Compl(y)))
		}
	}
}

func TestSubsetsDistributive(t *testing.T) {
	lat, err := Subsets(3)
	require.NoError(t, err)

	for _, x := range lat.Elements() {
		for _, y := range lat.Elements() {
			for _, z := range lat.Elements() {
				assert.Equal(t,
					lat.Meet(x, lat.Join(y, z)),
					lat.Join(lat.Meet(x, y), lat.Meet(x, z)))
			}
		}
	}
}
