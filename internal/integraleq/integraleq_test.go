package integraleq

import (
	"math"
	"testing"

	"github.com/halvardsen/numwb/internal/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFredholm1RecoversConstant(t *testing.T) {
	kernel := function.Lambda2(func(x, y float64) (float64, error) { return math.Abs(x - y), nil })
	rightSide := function.Lambda1(func(x float64) (float64, error) { return 1 + x*x, nil })

	tbl, err := Fredholm1(kernel, rightSide, -1, 1, 51, 1e-9, 10000)
	require.NoError(t, err)

	samples := tbl.Samples()
	for _, s := range samples[1 : len(samples)-1] {
		assert.InDelta(t, 1.0, s.Y, 0.1)
	}
}

func TestFredholm2RecoversLinear(t *testing.T) {
	kernel := function.Lambda2(func(x, y float64) (float64, error) { return x - y, nil })
	rightSide := function.Lambda1(func(x float64) (float64, error) { return 3 - 2*x, nil })

	tbl, err := Fredholm2(kernel, rightSide, 0, 1, 1.0, 50, 1e-8, 10000)
	require.NoError(t, err)

	samples := tbl.Samples()
	for _, s := range samples[1 : len(samples)-1] {
		assert.InDelta(t, 2.0, s.Y, 0.1)
	}
}

func TestVolterra2MatchesClosedForm(t *testing.T) {
	kernel := function.Lambda2(func(x, s float64) (float64, error) { return math.Exp(x - s), nil })
	rightSide := function.Constant(1).AsFunc1()

	tbl, err := Volterra2(kernel, rightSide, 0, 1, 1.0, 50)
	require.NoError(t, err)

	actual := func(x float64) float64 { return 0.5 * (math.Exp(2*x) + 1) }
	samples := tbl.Samples()
	for _, s := range samples[1 : len(samples)-1] {
		assert.InDelta(t, actual(s.X), s.Y, 0.01)
	}
}
