// Package linalg is the dense linear-algebra micro-kernel: mat·vec,
// mat·mat, dot, residual, and a three-term preconditioned
// conjugate-gradient solver for symmetric positive-(semi)definite systems.
// Dense storage is gonum's mat.Dense/mat.VecDense rather than hand-rolled
// slices-of-slices, so the rest of the workbench gets BLAS-style dense
// storage and the usual gonum decompositions for free if a future kernel
// needs them.
package linalg

import "gonum.org/v1/gonum/mat"

// MatVec returns A·x.
func MatVec(a *mat.Dense, x *mat.VecDense) *mat.VecDense {
	r, _ := a.Dims()
	y := mat.NewVecDense(r, nil)
	y.MulVec(a, x)
	return y
}

// MatMul returns A·B.
func MatMul(a, b mat.Matrix) *mat.Dense {
	ra, _ := a.Dims()
	_, cb := b.Dims()
	c := mat.NewDense(ra, cb, nil)
	c.Mul(a, b)
	return c
}

// Dot returns the Euclidean inner product of a and b.
func Dot(a, b *mat.VecDense) float64 {
	return mat.Dot(a, b)
}

// Residual returns r = A·x − f, the discrepancy vector the conjugate
// gradient solver drives to zero.
func Residual(a *mat.Dense, x, f *mat.VecDense) *mat.VecDense {
	r := MatVec(a, x)
	r.SubVec(r, f)
	return r
}

// Transpose returns Aᵀ as a dense matrix.
func Transpose(a *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	t := mat.NewDense(c, r, nil)
	t.Copy(a.T())
	return t
}

// NormalEquations forms (AᵀA, Aᵀb), the reformulation integral-equation
// solvers use to turn an ill-posed or non-square first-kind Fredholm system
// into a symmetric positive-semidefinite one that CG can attack.
func NormalEquations(a *mat.Dense, b *mat.VecDense) (*mat.Dense, *mat.VecDense) {
	at := Transpose(a)
	ata := MatMul(at, a)
	r, _ := at.Dims()
	atb := mat.NewVecDense(r, nil)
	atb.MulVec(at, b)
	return ata, atb
}
