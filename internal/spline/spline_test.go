package spline

import (
	"math"
	"testing"

	"github.com/halvardsen/numwb/internal/wberrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSine(from, to float64, n int) []Point {
	step := (to - from) / float64(n)
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		x := float64(i) * step
		pts[i] = Point{X: x, Y: math.Sin(x)}
	}
	return pts
}

func TestSplineTracksSineWithinTolerance(t *testing.T) {
	const from, to, n = 0.0, 10.0, 100
	s := New(sampleSine(from, to, n))

	checkN := n * 10
	checkStep := (to - from) / float64(checkN)
	for i := 0; i <= checkN; i++ {
		x := float64(i) * checkStep
		y, err := s.Apply(x)
		require.NoError(t, err)
		assert.InDelta(t, math.Sin(x), y, 0.1)
	}
}

func TestSplineOutOfBounds(t *testing.T) {
	s := New(sampleSine(0, 10, 10))
	_, err := s.Apply(10.5)
	var oob *wberrors.OutOfBounds
	require.ErrorAs(t, err, &oob)
}

func TestSplineEmpty(t *testing.T) {
	s := New(nil)
	_, err := s.Apply(0)
	require.ErrorIs(t, err, wberrors.ErrTableEmpty)
}

func TestSplineCoefficientsInterpolateNodes(t *testing.T) {
	pts := sampleSine(0, 10, 20)
	s := New(pts)
	require.Len(t, s.Coefficients(), len(pts)-1)
}
