package chain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"chainkit/internal/lattice"
	"chainkit/internal/order"
)

func divisors(t *testing.T, n int) order.FactorLattice[int] {
	t.Helper()
	lat, err := lattice.Divisors(n)
	require.NoError(t, err)
	return lat
}

func mustSeries(t *testing.T, lat order.FactorLattice[int], elems ...int) *Series[int] {
	t.Helper()
	s, err := New(lat, elems)
	require.NoError(t, err)
	return s
}

func TestNewValidatesSteps(t *testing.T) {
	lat := divisors(t, 12)

	_, err := New(lat, []int{1, 2, 4, 12})
	require.ErrorIs(t, err, ErrNotMaximal, "4 -> 12 skips 3 steps of one prime each")

	_, err = New(lat, []int{2, 2})
	require.ErrorIs(t, err, ErrNotMaximal, "a step must be strict")

	_, err = New(lat, nil)
	require.Error(t, err, "a series needs at least one element")
}

// laxLattice misreports the covering relation: any ordered pair, equal
// elements included, counts as a cover.
type laxLattice struct {
	order.FactorLattice[int]
}

func (l laxLattice) IsMaximal(x, y int) bool { return l.Leq(x, y) }

func TestNewRequiresStrictAscent(t *testing.T) {
	lax := laxLattice{divisors(t, 12)}

	_, err := New[int](lax, []int{2, 2})
	require.ErrorIs(t, err, ErrNotMaximal, "a stuttering step is rejected even when the lattice claims it is a cover")

	_, err = New[int](lax, []int{1, 2, 2, 12})
	require.ErrorIs(t, err, ErrNotMaximal)

	s, err := New[int](lax, []int{1, 2})
	require.NoError(t, err)
	_, err = s.Snoc(2)
	require.ErrorIs(t, err, ErrNotMaximal, "snoc of the current top is rejected")
}

func TestTrivialSeries(t *testing.T) {
	lat := divisors(t, 12)
	s := Trivial(lat, 4)

	require.Equal(t, 0, s.Length())
	require.Equal(t, 4, s.Bot())
	require.Equal(t, 4, s.Top())
	require.Equal(t, s.Bot(), s.Top(), "a length-0 series has one element")
}

func TestToListOfListRoundTrip(t *testing.T) {
	lat := divisors(t, 30)
	s := mustSeries(t, lat, 1, 2, 6, 30)

	list := s.ToList()
	back, err := OfList(lat, list)
	require.NoError(t, err)

	if diff := cmp.Diff(list, back.ToList()); diff != "" {
		t.Fatalf("round trip changed the list (-want +got):\n%s", diff)
	}
	require.True(t, s.Equal(back))

	// ToList hands out a copy; mutating it must not reach the series.
	list[0] = 99
	require.Equal(t, 1, s.Bot())
}

func TestAtAndStepBounds(t *testing.T) {
	lat := divisors(t, 12)
	s := mustSeries(t, lat, 1, 2, 6, 12)

	e, err := s.At(0)
	require.NoError(t, err)
	require.Equal(t, 1, e)
	e, err = s.At(3)
	require.NoError(t, err)
	require.Equal(t, 12, e)

	_, err = s.At(4)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.At(-1)
	require.ErrorIs(t, err, ErrOutOfRange)

	lo, hi, err := s.Step(1)
	require.NoError(t, err)
	require.Equal(t, 2, lo)
	require.Equal(t, 6, hi)
	_, _, err = s.Step(3)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestContainsAndTotal(t *testing.T) {
	lat := divisors(t, 30)
	s := mustSeries(t, lat, 1, 2, 6, 30)

	require.True(t, s.Contains(6))
	require.False(t, s.Contains(5))

	// Any two members of a series are comparable.
	members := s.ToList()
	for _, x := range members {
		for _, y := range members {
			require.True(t, s.Total(x, y), "members %d and %d must be comparable", x, y)
		}
	}
}
