package area

import (
	"math"
	"testing"

	"github.com/halvardsen/numwb/internal/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcAreaTopTriangle(t *testing.T) {
	f := function.Lambda1(func(x float64) (float64, error) { return math.Exp(x) + 2, nil })
	g := function.Lambda1(func(x float64) (float64, error) { return -2*x + 8, nil })
	h := function.Lambda1(func(x float64) (float64, error) { return -5 / x, nil })

	tri, err := Calc(f, g, h, [2]float64{0, 2}, [2]float64{-4, -1}, [2]float64{-2, -0.1}, 0.001, 0.0001, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 9.807, tri.Area, 0.001)
}

func TestCalcAreaBottomTriangle(t *testing.T) {
	f := function.Lambda1(func(x float64) (float64, error) { return 1 + 4/(x*x+1), nil })
	g := function.Lambda1(func(x float64) (float64, error) { return math.Pow(2, -x), nil })
	h := function.Lambda1(func(x float64) (float64, error) { return x * x * x, nil })

	tri, err := Calc(f, g, h, [2]float64{-2, -1}, [2]float64{0.5, 1.5}, [2]float64{0.5, 1.5}, 0.001, 0.001, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 6.5910711, tri.Area, 0.001)
}

func TestFalsePositionRootBadRange(t *testing.T) {
	f := function.Lambda1(func(x float64) (float64, error) { return 1, nil })
	g := function.Lambda1(func(x float64) (float64, error) { return 0, nil })
	_, _, err := falsePositionRoot(f, g, 0, 1, 1e-6, 100)
	require.Error(t, err)
}
