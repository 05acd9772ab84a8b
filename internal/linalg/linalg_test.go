package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolveDiagonalSystem(t *testing.T) {
	// A = diag(4, 9); f = (8, 27) => x = (2, 3)
	a := mat.NewDense(2, 2, []float64{4, 0, 0, 9})
	f := mat.NewVecDense(2, []float64{8, 27})
	x0 := mat.NewVecDense(2, []float64{0, 0})

	res, err := Solve(a, f, nil, x0, 1e-10, 100)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.X.AtVec(0), 1e-6)
	assert.InDelta(t, 3.0, res.X.AtVec(1), 1e-6)
}

func TestSolveSymmetricPositiveDefinite(t *testing.T) {
	// A = [[4,1],[1,3]], f = (1,2) => x = (1/11, 7/11)
	a := mat.NewDense(2, 2, []float64{4, 1, 1, 3})
	f := mat.NewVecDense(2, []float64{1, 2})
	x0 := mat.NewVecDense(2, []float64{0, 0})

	res, err := Solve(a, f, nil, x0, 1e-10, 200)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/11.0, res.X.AtVec(0), 1e-5)
	assert.InDelta(t, 7.0/11.0, res.X.AtVec(1), 1e-5)
}

func TestResidualAndDot(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	x := mat.NewVecDense(2, []float64{3, 4})
	f := mat.NewVecDense(2, []float64{3, 4})

	r := Residual(a, x, f)
	assert.InDelta(t, 0.0, Dot(r, r), 1e-12)
}

func TestNormalEquations(t *testing.T) {
	a := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})
	b := mat.NewVecDense(3, []float64{1, 2, 3})

	ata, atb := NormalEquations(a, b)
	r, c := ata.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)
	assert.InDelta(t, 2.0, ata.At(0, 0), 1e-12) // 1*1+0*0+1*1
	assert.InDelta(t, 4.0, atb.AtVec(0), 1e-12) // 1*1+0*2+1*3
}
