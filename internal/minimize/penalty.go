package minimize

import (
	"math"

	"github.com/halvardsen/numwb/internal/function"
	"github.com/halvardsen/numwb/internal/wberrors"
)

// penaltyObjective is the auxiliary P(x) = f(x) + (1/eps)*Σ max(0,g_k(x))²,
// rebuilt fresh each outer iteration since eps changes.
type penaltyObjective struct {
	f           function.Func1
	constraints []function.Func1
	eps         float64
}

func (p *penaltyObjective) Apply(x float64) (float64, error) {
	sum := 0.0
	for _, c := range p.constraints {
		cx, err := c.Apply(x)
		if err != nil {
			return 0, &wberrors.FunctionError{Where: "penalty.constraint", Err: err}
		}
		m := math.Max(0, cx)
		sum += m * m
	}
	y, err := p.f.Apply(x)
	if err != nil {
		return 0, &wberrors.FunctionError{Where: "penalty.objective", Err: err}
	}
	return y + sum/p.eps, nil
}

// Penalty drives a quadratic penalty coefficient to zero across repeated
// golden-section minimisations of the auxiliary objective, halving eps
// after every outer iteration until consecutive minima differ by less
// than minStep. It reports the true f(x) (not P(x)) at the converged
// location. Exceeding maxIter returns the last minimum
// found with a *wberrors.IterationsEnded.
func Penalty(f function.Func1, constraints []function.Func1, from, to, startEps, minStep float64, maxIter int) (Minimum1, error) {
	eps := startEps
	prevMin := from
	prevPrevMin := 0.0

	for iter := 0; iter < maxIter; iter++ {
		obj := &penaltyObjective{f: f, constraints: constraints, eps: eps}
		min, err := GoldenSection(obj, from, to, minStep, maxIter)
		if err != nil {
			return Minimum1{}, &wberrors.FunctionError{Where: "penalty.golden", Err: err}
		}

		if math.Abs(prevMin-min.X) < minStep {
			y, err := f.Apply(min.X)
			if err != nil {
				return Minimum1{}, &wberrors.FunctionError{Where: "penalty.f(x*)", Err: err}
			}
			return Minimum1{X: min.X, Y: y}, nil
		}

		eps *= 0.5
		prevPrevMin = prevMin
		prevMin = min.X
	}

	y, err := f.Apply(prevMin)
	if err != nil {
		return Minimum1{}, &wberrors.FunctionError{Where: "penalty.f(final)", Err: err}
	}
	best := Minimum1{X: prevMin, Y: y}
	return best, &wberrors.IterationsEnded{
		Best:     best,
		Residual: math.Abs(prevMin - prevPrevMin),
		Iters:    maxIter,
	}
}
