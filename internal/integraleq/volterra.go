package integraleq

import (
	"github.com/halvardsen/numwb/internal/function"
	"github.com/halvardsen/numwb/internal/table"
	"github.com/halvardsen/numwb/internal/wberrors"
)

// Volterra2 solves the second-kind Volterra equation
// φ(x) − λ·∫[from,x] kernel(x,s)·φ(s) ds = rightSide(x) for φ by a
// sequential trapezoidal sweep: because the upper integration limit is the
// evaluation point itself, each φ(x_i) depends only on already-solved
// φ(x_j), j<i, so no linear system is needed — matching
// volterra_2nd_system, which solves node-by-node left to right using the
// trapezoidal rule with the not-yet-known diagonal term isolated
// algebraically.
func Volterra2(kernel function.Func2, rightSide function.Func1, from, to, lambda float64, n int) (*table.Table, error) {
	xs, step := grid(from, to, n)

	y := make([]float64, n)
	y0, err := rightSide.Apply(from)
	if err != nil {
		return nil, &wberrors.FunctionError{Where: "volterra2.rightSide", Err: err}
	}
	y[0] = y0

	for i := 1; i < n; i++ {
		diag, err := kernel.Apply(xs[i], xs[i])
		if err != nil {
			return nil, &wberrors.FunctionError{Where: "volterra2.kernel.diag", Err: err}
		}
		div := 1.0 - lambda*diag*step*0.5

		k0, err := kernel.Apply(xs[i], from)
		if err != nil {
			return nil, &wberrors.FunctionError{Where: "volterra2.kernel.k0", Err: err}
		}
		sum := 0.5 * k0 * step * lambda

		var interior float64
		for j := 1; j < i; j++ {
			kij, err := kernel.Apply(xs[i], xs[j])
			if err != nil {
				return nil, &wberrors.FunctionError{Where: "volterra2.kernel.interior", Err: err}
			}
			interior += kij * y[j]
		}
		sum += step * interior

		rhs, err := rightSide.Apply(xs[i])
		if err != nil {
			return nil, &wberrors.FunctionError{Where: "volterra2.rightSide", Err: err}
		}
		y[i] = (rhs + lambda*sum) / div
	}

	samples := make([]table.Sample, n)
	for i, x := range xs {
		samples[i] = table.Sample{X: x, Y: y[i]}
	}
	return table.FromSamples(samples), nil
}
