package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainkit/internal/order"
)

func TestDivisorsCarrier(t *testing.T) {
	lat, err := Divisors(12)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 6, 12}, lat.Elements())
	assert.Equal(t, 1, lat.Bot())
	assert.Equal(t, 12, lat.Top())
	assert.Equal(t, 12, lat.Modulus())
}

func TestDivisorsRejectsNonPositive(t *testing.T) {
	_, err := Divisors(0)
	require.Error(t, err)
	_, err = Divisors(-6)
	require.Error(t, err)
}

func TestDivisorsIsSoundFactorLattice(t *testing.T) {
	for _, n := range []int{1, 2, 12, 30, 60, 360} {
		lat, err := Divisors(n)
		require.NoError(t, err)
		violations := order.CheckFactorLattice[int](lat)
		require.Empty(t, violations, "n=%d: %v", n, violations)
	}
}

func TestDivisorsCoveringAndFactors(t *testing.T) {
	lat, err := Divisors(60)
	require.NoError(t, err)

	assert.True(t, lat.IsMaximal(2, 4))
	assert.True(t, lat.IsMaximal(4, 12))
	assert.False(t, lat.IsMaximal(1, 4), "quotient 4 is not prime")
	assert.False(t, lat.IsMaximal(6, 6), "covering is strict")
	assert.False(t, lat.IsMaximal(4, 6), "4 does not divide 6")

	assert.Equal(t, "3", lat.FactorClass(4, 12))
	assert.Equal(t, "5", lat.FactorClass(12, 60))
}

func TestDivisorsMeetJoin(t *testing.T) {
	lat, err := Divisors(60)
	require.NoError(t, err)

	assert.Equal(t, 2, lat.Meet(4, 6))
	assert.Equal(t, 12, lat.Join(4, 6))
	assert.Equal(t, 1, lat.Meet(4, 15))
	assert.Equal(t, 60, lat.Join(4, 15))
}

func TestDivisorsRankMatchesPrimeMultiplicity(t *testing.T) {
	lat, err := Divisors(360) // 2^3 * 3^2 * 5
	require.NoError(t, err)

	ranks, err := order.Rank[int](lat)
	require.NoError(t, err)
	assert.Equal(t, 0, ranks[1])
	assert.Equal(t, 1, ranks[5])
	assert.Equal(t, 3, ranks[8])
	assert.Equal(t, 6, ranks[360], "rank of top is the series length")
}
