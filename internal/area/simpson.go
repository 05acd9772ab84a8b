package area

import (
	"github.com/halvardsen/numwb/internal/function"
	"github.com/halvardsen/numwb/internal/wberrors"
)

// simpsonCache is a panel-doubling Simpson quadrature over [from, to]: each
// call to step doubles the panel count and grows cache rather than
// reallocating, reusing the function samples already taken at the
// previous panel count. cache must only ever be driven through step for
// the same (f, from, to) triple it was first used with.
type simpsonCache struct {
	n     int
	cache []float64
}

func (s *simpsonCache) step(f function.Func1, from, to float64) (float64, error) {
	if len(s.cache) < 3 {
		y0, err := f.Apply(from)
		if err != nil {
			return 0, &wberrors.FunctionError{Where: "area.simpson", Err: err}
		}
		y1, err := f.Apply(to)
		if err != nil {
			return 0, &wberrors.FunctionError{Where: "area.simpson", Err: err}
		}
		y2, err := f.Apply((from + to) / 2)
		if err != nil {
			return 0, &wberrors.FunctionError{Where: "area.simpson", Err: err}
		}
		s.cache = append(s.cache, y0, y1, y2)
		s.n = 2
		return (2*y0 + 2*y1 + 4*y2) * (to - from) / 6, nil
	}

	n := s.n
	step := (to - from) / float64(n)
	sum := 0.0
	for i := 0; i < n; i++ {
		x := float64(i)*step + from
		y, err := f.Apply(x)
		if err != nil {
			return 0, &wberrors.FunctionError{Where: "area.simpson", Err: err}
		}
		s.cache = append(s.cache, y)
		sum += y
	}
	sum *= 4.0
	for i := 1; i < n; i++ {
		sum += s.cache[i] * 2.0
	}
	sum += s.cache[0] + s.cache[n]

	s.n = n * 2
	newStep := (to - from) / float64(s.n)
	return sum * newStep / 3.0, nil
}
