// Package spline implements the natural cubic spline: given n nodes
// (x_i, y_i) with strictly increasing x, it solves a tridiagonal system
// for the not-a-knot-free ("natural") second-derivative coefficients via
// the Thomas algorithm, then evaluates the resulting piecewise cubic.
package spline

import (
	"github.com/halvardsen/numwb/internal/wberrors"
)

// coef is one piecewise-cubic segment's coefficients for
// y(x) = d·x³ + c·x² + b·x + a.
type coef struct {
	a, b, c, d float64
}

// Spline is an immutable natural cubic spline built from a strictly
// ascending sequence of (x, y) nodes.
type Spline struct {
	pts   []Point
	coefs []coef
}

// Point is one interpolation node.
type Point struct {
	X, Y float64
}

// New builds a Spline through pts, which must already be sorted strictly
// ascending by X (the reference implementation does not re-sort; neither
// does this one, so a caller building from unsorted data should sort first).
func New(pts []Point) *Spline {
	return &Spline{pts: pts, coefs: calcSplineParams(pts)}
}

// Apply evaluates the spline at arg, using whichever segment brackets it.
// An empty Spline returns wberrors.ErrTableEmpty; arg outside [x_min, x_max]
// returns *wberrors.OutOfBounds.
func (s *Spline) Apply(arg float64) (float64, error) {
	if len(s.pts) == 0 {
		return 0, wberrors.ErrTableEmpty
	}

	for i := 1; i < len(s.pts); i++ {
		x := s.pts[i].X
		prevX := s.pts[i-1].X
		if prevX <= arg && x >= arg {
			c := s.coefs[i-1]
			return c.d*arg*arg*arg + c.c*arg*arg + c.b*arg + c.a, nil
		}
	}

	return 0, &wberrors.OutOfBounds{Arg: arg, LowerX: s.pts[0].X, UpperX: s.pts[len(s.pts)-1].X}
}

// Coefficients returns a copy of the per-segment (a,b,c,d) coefficients, in
// node order, for callers that want to export or display them directly.
func (s *Spline) Coefficients() [][4]float64 {
	out := make([][4]float64, len(s.coefs))
	for i, c := range s.coefs {
		out[i] = [4]float64{c.a, c.b, c.c, c.d}
	}
	return out
}

func calcSplineParams(pts []Point) []coef {
	n := len(pts)
	if n < 2 {
		return nil
	}

	b := make([]float64, n)
	d := make([]float64, n)
	a := make([]float64, n-1)
	c := make([]float64, n-1)

	for i := 1; i < n-1; i++ {
		mui := (pts[i].X - pts[i-1].X) / (pts[i+1].X - pts[i-1].X)
		lambdai := (pts[i+1].X - pts[i].X) / (pts[i+1].X - pts[i-1].X)

		d[i] = 3.0 * (mui*(pts[i+1].Y-pts[i].Y)/(pts[i+1].X-pts[i].X) +
			lambdai*(pts[i].Y-pts[i-1].Y)/(pts[i].X-pts[i-1].X))
		a[i-1] = lambdai
		b[i] = 2.0
		c[i] = mui
	}

	d[0] = 3.0 * (pts[1].Y - pts[0].Y) / (pts[1].X - pts[0].X)
	d[n-1] = 3.0 * (pts[n-1].Y - pts[n-2].Y) / (pts[n-1].X - pts[n-2].X)
	b[0] = 2.0
	c[0] = 1.0
	a[n-2] = 1.0
	b[n-1] = 2.0

	// Thomas algorithm forward sweep.
	y := make([]float64, n)
	alpha := make([]float64, n)
	beta := make([]float64, n)

	y[0] = b[0]
	alpha[0] = -c[0] / y[0]
	beta[0] = d[0] / y[0]
	for i := 1; i < n-1; i++ {
		y[i] = b[i] + a[i-1]*alpha[i-1]
		alpha[i] = -c[i] / y[i]
		beta[i] = (d[i] - a[i-1]*beta[i-1]) / y[i]
	}

	// Back substitution for the derivative values m_i.
	m := make([]float64, n)
	m[n-1] = beta[n-1]
	for i := 1; i < n-1; i++ {
		j := n - i - 1
		m[j] = alpha[j]*m[j+1] + beta[j]
	}

	coefs := make([]coef, n-1)
	for i := 0; i < n-1; i++ {
		segA := pts[i].Y
		segB := pts[i+1].Y
		segC := pts[i].X
		segD := pts[i+1].X
		mip1 := m[i+1]
		mi := m[i]

		div1 := (segD - segC) * (segD - segC) * (segD - segC)
		div2 := (segD - segC) * (segD - segC)

		coefs[i] = coef{
			a: (segA*segD*segD*segD-3.0*segA*segC*segD*segD-segC*segC*segC*segB+3.0*segD*segC*segC*segB)/div1 +
				(-mi*segC*segD*segD-mip1*segD*segC*segC)/div2,
			b: (6.0*segA*segD*segC+2.0*segB*segC*segC-2.0*segC*segC*segB-6.0*segD*segB*segC)/div1 +
				(mi*segD*segD+2.0*mi*segD*segC+2.0*mip1*segD*segC+mip1*segC*segC)/div2,
			c: (-3.0*segA*segD-3.0*segA*segC+3.0*segB*segC+3.0*segD*segB)/div1 +
				(-2.0*mi*segD-mi*segC-mip1*segD-2.0*mip1*segC)/div2,
			d: (2.0*segA-2.0*segB)/div1 + (mi+mip1)/div2,
		}
	}

	return coefs
}
