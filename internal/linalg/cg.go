package linalg

import (
	"math"

	"github.com/halvardsen/numwb/internal/wberrors"
	"gonum.org/v1/gonum/mat"
)

// CGResult is the outcome of a converged Solve call.
type CGResult struct {
	X        *mat.VecDense
	Residual float64 // ‖A·x − f‖
	Iters    int
}

// Solve runs the three-term preconditioned conjugate-gradient recurrence
// against the symmetric system a·x = f, starting from x0 (copied, never
// mutated) and preconditioned by invB (pass nil for the identity
// preconditioner, i.e. unpreconditioned CG).
//
// The first step is a plain steepest-descent move along w₀ = invB·r₀, and
// every subsequent step blends the current and previous iterate with
// scalars τ (step length) and α (three-term mixing coefficient) derived
// from ⟨w,r⟩ and ⟨A·w,w⟩; the vectors rk, wk, awk are allocated once and
// reused every iteration.
//
// Exceeding maxIter without the residual norm dropping below eps returns
// the best iterate found alongside a *wberrors.IterationsEnded: this
// package surfaces non-convergence rather than return silently, since
// every other iterative kernel in the workbench does the same.
func Solve(a *mat.Dense, f *mat.VecDense, invB *mat.Dense, x0 *mat.VecDense, eps float64, maxIter int) (*CGResult, error) {
	n, _ := a.Dims()

	prevX := mat.NewVecDense(n, nil)
	prevX.CloneFromVec(x0)
	x := mat.NewVecDense(n, nil)
	x.CloneFromVec(x0)

	rk := mat.NewVecDense(n, nil)
	wk := mat.NewVecDense(n, nil)
	awk := mat.NewVecDense(n, nil)

	applyPrecond := func(dst, src *mat.VecDense) {
		if invB == nil {
			dst.CopyVec(src)
			return
		}
		dst.MulVec(invB, src)
	}

	rk.CloneFromVec(Residual(a, prevX, f))
	e := Dot(rk, rk)
	if e < eps*eps {
		return &CGResult{X: prevX, Residual: math.Sqrt(e), Iters: 0}, nil
	}

	applyPrecond(wk, rk)
	awk.MulVec(a, wk)
	wkrk := Dot(wk, rk)
	tau := wkrk / Dot(awk, wk)

	// x₁ = x₀ − τ·w₀
	x.ScaleVec(tau, wk)
	x.SubVec(prevX, x)

	prevTau, prevAlpha, prevWkrk := tau, 1.0, wkrk

	for iter := 1; iter <= maxIter; iter++ {
		rk.CloneFromVec(Residual(a, x, f))
		e := Dot(rk, rk)
		if e < eps*eps {
			return &CGResult{X: x, Residual: math.Sqrt(e), Iters: iter}, nil
		}

		applyPrecond(wk, rk)
		awk.MulVec(a, wk)

		wkrk := Dot(wk, rk)
		tau := wkrk / Dot(awk, wk)
		alpha := 1.0 / (1.0 - (tau*wkrk)/(prevTau*prevAlpha*prevWkrk))

		// xₖ₊₁ = α·xₖ + (1−α)·xₖ₋₁ − τ·α·wₖ, with the usual two-slot swap.
		next := mat.NewVecDense(n, nil)
		next.ScaleVec(alpha, x)
		tmp := mat.NewVecDense(n, nil)
		tmp.ScaleVec(1-alpha, prevX)
		next.AddVec(next, tmp)
		tmp.ScaleVec(tau*alpha, wk)
		next.SubVec(next, tmp)

		prevX.CloneFromVec(x)
		x.CloneFromVec(next)

		prevAlpha, prevTau, prevWkrk = alpha, tau, wkrk
	}

	res := Residual(a, x, f)
	return &CGResult{X: x, Residual: math.Sqrt(Dot(res, res)), Iters: maxIter}, &wberrors.IterationsEnded{
		Best:     x,
		Residual: math.Sqrt(Dot(res, res)),
		Iters:    maxIter,
	}
}
