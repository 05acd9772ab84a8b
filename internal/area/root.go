// Package area implements the curvilinear-triangle area kernel: a
// false-position root finder locating where two bounding curves cross,
// and an adaptive-Simpson quadrature with a panel-doubling sample cache,
// composed into top/bottom-triangle area estimators.
package area

import (
	"math"

	"github.com/halvardsen/numwb/internal/function"
	"github.com/halvardsen/numwb/internal/wberrors"
)

// falsePositionRoot locates where f and g cross on [from, to]: it brackets
// d(x) = f(x) − g(x) and repeatedly replaces whichever endpoint shares
// d's sign at the secant crossing, stopping once both the bracket width
// and |d(c)| fall under eps. It returns the crossing's x and the curves'
// shared y there.
func falsePositionRoot(f, g function.Func1, from, to, eps float64, maxIter int) (x, y float64, err error) {
	d := func(t float64) (float64, error) {
		fv, err := f.Apply(t)
		if err != nil {
			return 0, &wberrors.FunctionError{Where: "area.root.f", Err: err}
		}
		gv, err := g.Apply(t)
		if err != nil {
			return 0, &wberrors.FunctionError{Where: "area.root.g", Err: err}
		}
		return fv - gv, nil
	}

	a, b := from, to
	fa, err := d(a)
	if err != nil {
		return 0, 0, err
	}
	fb, err := d(b)
	if err != nil {
		return 0, 0, err
	}

	if fa == 0 {
		gv, err := g.Apply(a)
		return a, gv, err
	}
	if fb == 0 {
		gv, err := g.Apply(b)
		return b, gv, err
	}

	switch {
	case fa > 0 && fb < 0:
		a, b = b, a
		fa, fb = fb, fa
	case fa < 0 && fb > 0:
		// already in the expected orientation
	default:
		return 0, 0, wberrors.ErrBadRange
	}

	for iter := 0; iter < maxIter; iter++ {
		if a == b || fa*fb > 0 {
			return 0, 0, wberrors.ErrBadRange
		}

		c := (a*fb - b*fa) / (fb - fa)
		fc, err := d(c)
		if err != nil {
			return 0, 0, err
		}
		if fc == 0 {
			gv, err := g.Apply(c)
			return c, gv, err
		}

		if fc > 0 {
			if math.Abs(c-b) < eps && math.Abs(fc) < eps {
				gv, err := g.Apply(c)
				return c, gv, err
			}
			b, fb = c, fc
		} else {
			if math.Abs(a-c) < eps && math.Abs(fc) < eps {
				gv, err := g.Apply(c)
				return c, gv, err
			}
			a, fa = c, fc
		}
	}

	return 0, 0, &wberrors.IterationsEnded{Best: [2]float64{a, b}, Residual: math.Abs(b - a), Iters: maxIter}
}
