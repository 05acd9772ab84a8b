package minimize

import (
	"math"
	"testing"

	"github.com/halvardsen/numwb/internal/function"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenSectionFindsMinimum(t *testing.T) {
	f := function.Lambda1(func(x float64) (float64, error) {
		return (x*x - 6*x + 12) / (x*x + 6*x + 20), nil
	})

	min, err := GoldenSection(f, 0, 20, 1e-3, 10000)
	require.NoError(t, err)
	assert.InDelta(t, 3.389, min.X, 0.01)
}

func TestGoldenSectionIterationsEnded(t *testing.T) {
	f := function.Lambda1(func(x float64) (float64, error) { return x * x, nil })
	_, err := GoldenSection(f, -10, 10, 1e-12, 2)
	require.Error(t, err)
}

func TestGradientDescentRosenbrock(t *testing.T) {
	fn := function.LambdaN(func(x []float64) (float64, error) {
		if len(x) != 2 {
			return 0, nil
		}
		return 10*(x[1]-x[0]*x[0])*(x[1]-x[0]*x[0]) + (1-x[0])*(1-x[0]), nil
	})
	grad1 := function.LambdaN(func(x []float64) (float64, error) {
		return -40*x[0]*x[1] + 40*x[0]*x[0]*x[0] - 2 + 2*x[0], nil
	})
	grad2 := function.LambdaN(func(x []float64) (float64, error) {
		return 20*x[1] - 20*x[0]*x[0], nil
	})

	res, err := GradientDescent(fn, []function.FuncN{grad1, grad2}, []float64{3, 3}, 1e-5, 10000)
	require.NoError(t, err)

	dist := math.Hypot(res.X[0]-1, res.X[1]-1)
	assert.Less(t, dist*dist, 0.001)
}

func TestGradientDescentSizeMismatch(t *testing.T) {
	fn := function.LambdaN(func(x []float64) (float64, error) { return 0, nil })
	_, err := GradientDescent(fn, []function.FuncN{}, []float64{1, 2}, 1e-5, 10)
	require.Error(t, err)
}

func TestPenaltyConstrainedMinimum(t *testing.T) {
	f := function.Lambda1(func(x float64) (float64, error) {
		return -3*x*x*x*x - x*x*x + 4*x*x + 2*x - 1, nil
	})
	c1 := function.Lambda1(func(x float64) (float64, error) { return x*x - 1, nil })
	c2 := function.Lambda1(func(x float64) (float64, error) { return -math.Sin(10*x) - 0.5, nil })

	res, err := Penalty(f, []function.Func1{c1, c2}, -10, 10, 0.001, 0.001, 1001)
	require.NoError(t, err)
	assert.InDelta(t, -0.262, res.X, 0.01)
}
