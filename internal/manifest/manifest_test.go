package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"chainkit/internal/audit"
)

const divisorsDoc = `
lattice:
  kind: divisors
  modulus: 6
series:
  left: [1, 2, 6]
  right: [1, 3, 6]
measures:
  charge:
    a: 2.0
    b: -1.5
    c: 0.0
`

const subsetsDoc = `
lattice:
  kind: subsets
  ground: 3
series:
  bits: [0, 1, 3, 7]
`

func writeManifest(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lattice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	m, err := Load(writeManifest(t, divisorsDoc))
	require.NoError(t, err)
	assert.Equal(t, KindDivisors, m.Lattice.Kind)
	assert.Equal(t, 6, m.Lattice.Modulus)
	assert.Len(t, m.Series, 2)
	assert.Len(t, m.Measures["charge"], 3)
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"missing kind": "series:\n  a: [1]\n",
		"unknown kind": "lattice:\n  kind: rings\n",
		"zero modulus": "lattice:\n  kind: divisors\n  modulus: 0\n",
		"empty series": "lattice:\n  kind: divisors\n  modulus: 6\nseries:\n  a: []\n",
		"not yaml":     ":\n  - {",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeManifest(t, doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	m, err := Load(writeManifest(t, divisorsDoc))
	require.NoError(t, err)

	result, err := Check(m)
	require.NoError(t, err)
	assert.True(t, result.Ok())
	assert.Equal(t, []string{"left", "right"}, result.Series)
	assert.Equal(t, KindDivisors, result.Lattice)
}

func TestCheckSubsets(t *testing.T) {
	m, err := Load(writeManifest(t, subsetsDoc))
	require.NoError(t, err)

	result, err := Check(m)
	require.NoError(t, err)
	assert.True(t, result.Ok())
}

func TestCheckRejectsNonCoveringSeries(t *testing.T) {
	doc := `
lattice:
  kind: divisors
  modulus: 12
series:
  gap: [1, 12]
`
	m, err := Load(writeManifest(t, doc))
	require.NoError(t, err)

	_, err = Check(m)
	assert.Error(t, err)
}

func TestCheckRejectsElementsOutsideCarrier(t *testing.T) {
	cases := map[string]string{
		"zero":        "series:\n  bad: [0, 2]\n",
		"negative":    "series:\n  bad: [-1, 6]\n",
		"non-divisor": "series:\n  rogue: [5, 10]\n",
	}
	for name, series := range cases {
		t.Run(name, func(t *testing.T) {
			doc := "lattice:\n  kind: divisors\n  modulus: 6\n" + series
			m, err := Load(writeManifest(t, doc))
			require.NoError(t, err)

			_, err = Check(m)
			assert.Error(t, err)
		})
	}
}

func TestEquate(t *testing.T) {
	m, err := Load(writeManifest(t, divisorsDoc))
	require.NoError(t, err)

	result, err := Equate(m, "left", "right")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Length)
	assert.Equal(t, []int{1, 0}, result.Mapping)
	assert.Equal(t, []string{"2", "3"}, result.Classes)
}

func TestEquateUnknownSeries(t *testing.T) {
	m, err := Load(writeManifest(t, divisorsDoc))
	require.NoError(t, err)

	_, err = Equate(m, "left", "missing")
	assert.Error(t, err)
}

func TestAuditLattice(t *testing.T) {
	m, err := Load(writeManifest(t, divisorsDoc))
	require.NoError(t, err)

	violations, err := AuditLattice(audit.DefaultConfig(), zaptest.NewLogger(t), m)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestDecompose(t *testing.T) {
	m, err := Load(writeManifest(t, divisorsDoc))
	require.NoError(t, err)

	result, err := Decompose(m, "charge")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, result.Positive)
	assert.ElementsMatch(t, []string{"b"}, result.Negative)
	assert.InDelta(t, 2.0, result.PosTotal, 1e-12)
	assert.InDelta(t, 1.5, result.NegTotal, 1e-12)
	assert.InDelta(t, 3.5, result.TotalVariation, 1e-12)
}

func TestDecomposeUnknownMeasure(t *testing.T) {
	m, err := Load(writeManifest(t, divisorsDoc))
	require.NoError(t, err)

	_, err = Decompose(m, "missing")
	assert.Error(t, err)
}

func TestWatcherDeliversChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := writeManifest(t, divisorsDoc)
	changed := make(chan string, 4)

	w, err := NewWatcher(zaptest.NewLogger(t), func(p string) { changed <- p })
	require.NoError(t, err)
	require.NoError(t, w.Add(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte(divisorsDoc+"\n"), 0o644))

	select {
	case got := <-changed:
		abs, err := filepath.Abs(path)
		require.NoError(t, err)
		// macOS tempdirs resolve through symlinks, so compare basenames.
		assert.Equal(t, filepath.Base(abs), filepath.Base(got))
	case <-time.After(5 * time.Second):
		t.Fatal("no change event delivered")
	}

	require.NoError(t, w.Stop())
}

func TestWatcherIgnoresUnwatchedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.yaml")
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(watched, []byte(divisorsDoc), 0o644))

	changed := make(chan string, 4)
	w, err := NewWatcher(zaptest.NewLogger(t), func(p string) { changed <- p })
	require.NoError(t, err)
	require.NoError(t, w.Add(watched))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(other, []byte("x: 1\n"), 0o644))

	select {
	case got := <-changed:
		t.Fatalf("unexpected event for %s", got)
	case <-time.After(700 * time.Millisecond):
	}

	require.NoError(t, w.Stop())
}
