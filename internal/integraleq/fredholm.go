// Package integraleq implements three integral-equation discretisations:
// Fredholm equations of the first and second kind (reduced to a
// normal-equations linear system and solved by the conjugate-gradient
// micro-kernel) and the Volterra equation of the second kind (solved by a
// sequential trapezoidal sweep with no matrix at all).
package integraleq

import (
	"errors"

	"github.com/halvardsen/numwb/internal/function"
	"github.com/halvardsen/numwb/internal/linalg"
	"github.com/halvardsen/numwb/internal/table"
	"github.com/halvardsen/numwb/internal/wberrors"
	"gonum.org/v1/gonum/mat"
)

// grid returns the n equally-spaced nodes covering [from, to] and the step
// between them.
func grid(from, to float64, n int) ([]float64, float64) {
	step := (to - from) / float64(n-1)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)*step + from
	}
	return xs, step
}

// Fredholm1 solves the first-kind Fredholm equation
// ∫[from,to] kernel(x,y)·φ(y) dy = rightSide(x) for φ, discretised on n
// equally spaced nodes. The discretised system is rectangular-turned-square
// by the trapezoidal quadrature weights baked into the kernel matrix, and
// since a first-kind equation is ill-posed in general, it is solved via the
// normal equations (Kᵀ K) φ = Kᵀ f rather than directly, matching
// FredholmFirstKindSystemOfEquations::solve. The result is a piecewise
// linear table function over the same n nodes.
//
// If the CG solve does not converge within maxIter, its best iterate is
// used anyway rather than discarded — only a kernel/rightSide evaluation
// failure aborts the solve.
func Fredholm1(kernel function.Func2, rightSide function.Func1, from, to float64, n int, eps float64, maxIter int) (*table.Table, error) {
	xs, step := grid(from, to, n)

	k := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, err := kernel.Apply(xs[i], xs[j])
			if err != nil {
				return nil, &wberrors.FunctionError{Where: "fredholm1.kernel", Err: err}
			}
			k.Set(i, j, v*step)
		}
	}

	g := mat.NewVecDense(n, nil)
	for i := range xs {
		v, err := rightSide.Apply(xs[i])
		if err != nil {
			return nil, &wberrors.FunctionError{Where: "fredholm1.rightSide", Err: err}
		}
		g.SetVec(i, v)
	}

	a, f := linalg.NormalEquations(k, g)
	x0 := mat.NewVecDense(n, nil)
	res, err := linalg.Solve(a, f, nil, x0, eps, maxIter)
	if err != nil && !errors.As(err, new(*wberrors.IterationsEnded)) {
		return nil, err
	}

	return tableFromSolution(xs, res.X), nil
}

// Fredholm2 solves the second-kind Fredholm equation
// φ(x) − λ·∫[from,to] kernel(x,y)·φ(y) dy = rightSide(x) for φ, discretised
// identically to Fredholm1 but with the kernel matrix negated, scaled by
// lambda, and shifted by the identity before forming the normal equations
// — matching fredholm_2nd_system.
//
// As with Fredholm1, CG non-convergence does not fail the solve; its best
// iterate is used as-is.
func Fredholm2(kernel function.Func2, rightSide function.Func1, from, to, lambda float64, n int, eps float64, maxIter int) (*table.Table, error) {
	xs, step := grid(from, to, n)

	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, err := kernel.Apply(xs[i], xs[j])
			if err != nil {
				return nil, &wberrors.FunctionError{Where: "fredholm2.kernel", Err: err}
			}
			m.Set(i, j, -lambda*v*step)
		}
		m.Set(i, i, m.At(i, i)+1.0)
	}

	g := mat.NewVecDense(n, nil)
	for i := range xs {
		v, err := rightSide.Apply(xs[i])
		if err != nil {
			return nil, &wberrors.FunctionError{Where: "fredholm2.rightSide", Err: err}
		}
		g.SetVec(i, v)
	}

	a, f := linalg.NormalEquations(m, g)
	x0 := mat.NewVecDense(n, nil)
	res, err := linalg.Solve(a, f, nil, x0, eps, maxIter)
	if err != nil && !errors.As(err, new(*wberrors.IterationsEnded)) {
		return nil, err
	}

	return tableFromSolution(xs, res.X), nil
}

func tableFromSolution(xs []float64, y *mat.VecDense) *table.Table {
	samples := make([]table.Sample, len(xs))
	for i, x := range xs {
		samples[i] = table.Sample{X: x, Y: y.AtVec(i)}
	}
	return table.FromSamples(samples)
}
