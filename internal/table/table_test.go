package table

import (
	"strings"
	"testing"

	"github.com/halvardsen/numwb/internal/wberrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCSVAndApply(t *testing.T) {
	src := "0.1,1\n0.2,2\n0.3,3\n0.4,4"
	tbl, err := FromCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Len())

	got, err := tbl.Apply(0.2)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)

	got, err = tbl.Apply(0.15)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got, 1e-12)

	_, err = tbl.Apply(1.0)
	require.Error(t, err)
}

func TestFromCSVInvalidLine(t *testing.T) {
	_, err := FromCSV(strings.NewReader("0.1,1\n0.2,2\n0.3"))
	require.Error(t, err)
}

func TestEmptyTable(t *testing.T) {
	tbl := FromSamples(nil)
	_, err := tbl.Apply(0)
	require.ErrorIs(t, err, wberrors.ErrTableEmpty)
}

func TestEpsilonClamping(t *testing.T) {
	tbl := FromSamples([]Sample{{X: 0, Y: 0}, {X: 1, Y: 10}})
	// eps = min(Δx)/count = 1/2 = 0.5; a query just past the upper bound
	// but inside eps clamps instead of erroring.
	got, err := tbl.Apply(1.0 + 0.1)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-12)

	_, err = tbl.Apply(1.0 + 0.6)
	require.Error(t, err)
}

func TestUnsortedInputIsSorted(t *testing.T) {
	tbl := FromSamples([]Sample{{X: 2, Y: 20}, {X: 0, Y: 0}, {X: 1, Y: 10}})
	samples := tbl.Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, 0.0, samples[0].X)
	assert.Equal(t, 1.0, samples[1].X)
	assert.Equal(t, 2.0, samples[2].X)
}
