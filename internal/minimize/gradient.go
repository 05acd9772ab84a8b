package minimize

import (
	"math"

	"github.com/halvardsen/numwb/internal/function"
	"github.com/halvardsen/numwb/internal/wberrors"
)

// MinimumN is the result of an N-D minimisation.
type MinimumN struct {
	X []float64
	Y float64
}

// lineSearchAdapter turns the current point x, direction h, and objective f
// into a Func1 of the step length alpha, using a reusable scratch buffer
// so repeated line-search evaluations don't allocate.
type lineSearchAdapter struct {
	x, h, scratch []float64
	f             function.FuncN
}

func (a *lineSearchAdapter) Apply(alpha float64) (float64, error) {
	for i := range a.x {
		a.scratch[i] = a.x[i] + alpha*a.h[i]
	}
	return a.f.Apply(a.scratch)
}

// GradientDescent minimises f via steepest descent with a golden-section
// line search. grad[i] must evaluate ∂f/∂x_i; len(grad) must equal
// len(x0) or *wberrors.SizeMismatch is returned.
// Exceeding maxIter returns the last candidate with a *wberrors.IterationsEnded.
func GradientDescent(f function.FuncN, grad []function.FuncN, x0 []float64, eps float64, maxIter int) (MinimumN, error) {
	n := len(x0)
	if len(grad) != n {
		return MinimumN{}, &wberrors.SizeMismatch{Name: "GradientDescent.grad", Got: len(grad), Expected: n}
	}

	x := append([]float64(nil), x0...)
	candidate := append([]float64(nil), x0...)
	h := make([]float64, n)

	computeGrad := func(at []float64) error {
		for i := range h {
			v, err := grad[i].Apply(at)
			if err != nil {
				return &wberrors.FunctionError{Where: "gradient.partial", Err: err}
			}
			h[i] = -v
		}
		return nil
	}
	if err := computeGrad(x); err != nil {
		return MinimumN{}, err
	}

	var step float64
	for iter := 0; iter < maxIter; iter++ {
		normH := 0.0
		for _, v := range h {
			normH += v * v
		}

		adapter := &lineSearchAdapter{x: x, h: h, scratch: candidate, f: f}
		alphaMin, err := GoldenSection(adapter, 0, 1, eps, maxIter)
		if err != nil {
			return MinimumN{}, &wberrors.FunctionError{Where: "gradient.linesearch", Err: err}
		}

		alpha := alphaMin.X
		step = alpha * alpha * normH
		for i := range candidate {
			candidate[i] = x[i] + alpha*h[i]
		}

		if step < eps*eps {
			y, err := f.Apply(candidate)
			if err != nil {
				return MinimumN{}, &wberrors.FunctionError{Where: "gradient.f(x*)", Err: err}
			}
			return MinimumN{X: append([]float64(nil), candidate...), Y: y}, nil
		}

		copy(x, candidate)
		if err := computeGrad(x); err != nil {
			return MinimumN{}, err
		}
	}

	y, err := f.Apply(candidate)
	if err != nil {
		return MinimumN{}, &wberrors.FunctionError{Where: "gradient.f(final)", Err: err}
	}
	best := MinimumN{X: append([]float64(nil), candidate...), Y: y}
	return best, &wberrors.IterationsEnded{Best: best, Residual: math.Sqrt(step), Iters: maxIter}
}
