// Package minimize implements three bracketed-minimisation kernels:
// golden-section search, gradient descent with a golden-section line
// search, and the quadratic-penalty outer loop, all written against the
// internal/function callable abstraction.
package minimize

import (
	"math"

	"github.com/halvardsen/numwb/internal/function"
	"github.com/halvardsen/numwb/internal/wberrors"
)

// Minimum1 is the result of a 1-D minimisation: the argmin and the
// function value there.
type Minimum1 struct {
	X, Y float64
}

// goldenACoef and goldenBCoef are the two bracket-shrinking ratios (3−√5)/2
// and (√5−1)/2 — the inverse and inverse-square of the golden ratio.
var (
	goldenACoef = (3.0 - math.Sqrt(5)) * 0.5
	goldenBCoef = (math.Sqrt(5) - 1.0) * 0.5
)

// GoldenSection brackets the minimum of f on [from, to] by repeatedly
// evaluating two interior points at the golden-section ratios and
// discarding whichever sub-interval cannot contain the minimum. It
// terminates successfully once the bracket width drops below
// widthTolerance, returning (a, f(a)). Exceeding maxIter returns the best
// bracket endpoint found alongside a *wberrors.IterationsEnded.
func GoldenSection(f function.Func1, from, to, widthTolerance float64, maxIter int) (Minimum1, error) {
	a, b := math.Min(from, to), math.Max(from, to)

	fa, err := f.Apply(a)
	if err != nil {
		return Minimum1{}, &wberrors.FunctionError{Where: "golden.f(a)", Err: err}
	}
	fb, err := f.Apply(b)
	if err != nil {
		return Minimum1{}, &wberrors.FunctionError{Where: "golden.f(b)", Err: err}
	}

	for iter := 0; iter < maxIter; iter++ {
		if math.Abs(a-b) < widthTolerance {
			return Minimum1{X: a, Y: fa}, nil
		}

		x1 := a*goldenACoef + b*goldenBCoef
		x2 := math.Max(a+b-x1, x1)
		x1 = a + b - x2

		fx1, err := f.Apply(x1)
		if err != nil {
			return Minimum1{}, &wberrors.FunctionError{Where: "golden.f(x1)", Err: err}
		}
		fx2, err := f.Apply(x2)
		if err != nil {
			return Minimum1{}, &wberrors.FunctionError{Where: "golden.f(x2)", Err: err}
		}

		switch {
		case fa < fx1 && fa < fx2 && fa < fb:
			b, fb = x1, fx1
		case fb < fx1 && fb < fx2 && fb < fa:
			a, fa = x2, fx2
		case fx1 < fa && fx1 < fx2 && fx1 < fb:
			b, fb = x2, fx2
		case fx2 < fa && fx2 < fx1 && fx2 < fb:
			a, fa = x1, fx1
		}
	}

	return Minimum1{X: a, Y: fa}, &wberrors.IterationsEnded{
		Best:     Minimum1{X: a, Y: fa},
		Residual: math.Abs(b - a),
		Iters:    maxIter,
	}
}
