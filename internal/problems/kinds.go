package problems

import (
	"github.com/halvardsen/numwb/internal/area"
	"github.com/halvardsen/numwb/internal/function"
	"github.com/halvardsen/numwb/internal/integraleq"
	"github.com/halvardsen/numwb/internal/minimize"
	"github.com/halvardsen/numwb/internal/spline"
	"github.com/halvardsen/numwb/internal/wberrors"
)

func runFredholm1(p Params) (Result, error) {
	kernel, err := func2MustGet(p, "kernel", "x", "s")
	if err != nil {
		return Result{}, err
	}
	rightSide, err := func1MustGet(p, "rightSide", "x")
	if err != nil {
		return Result{}, err
	}
	from, err := p.float("from")
	if err != nil {
		return Result{}, err
	}
	to, err := p.float("to")
	if err != nil {
		return Result{}, err
	}
	n, err := p.int("n")
	if err != nil {
		return Result{}, err
	}
	eps := p.floatOr("eps", 1e-9)
	maxIter := p.intOr("maxIter", 10000)

	tbl, err := integraleq.Fredholm1(kernel, rightSide, from, to, n, eps, maxIter)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: tbl}, nil
}

func runFredholm2(p Params) (Result, error) {
	kernel, err := func2MustGet(p, "kernel", "x", "s")
	if err != nil {
		return Result{}, err
	}
	rightSide, err := func1MustGet(p, "rightSide", "x")
	if err != nil {
		return Result{}, err
	}
	from, err := p.float("from")
	if err != nil {
		return Result{}, err
	}
	to, err := p.float("to")
	if err != nil {
		return Result{}, err
	}
	lambda, err := p.float("lambda")
	if err != nil {
		return Result{}, err
	}
	n, err := p.int("n")
	if err != nil {
		return Result{}, err
	}
	eps := p.floatOr("eps", 1e-9)
	maxIter := p.intOr("maxIter", 10000)

	tbl, err := integraleq.Fredholm2(kernel, rightSide, from, to, lambda, n, eps, maxIter)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: tbl}, nil
}

func runVolterra2(p Params) (Result, error) {
	kernel, err := func2MustGet(p, "kernel", "x", "s")
	if err != nil {
		return Result{}, err
	}
	rightSide, err := func1MustGet(p, "rightSide", "x")
	if err != nil {
		return Result{}, err
	}
	from, err := p.float("from")
	if err != nil {
		return Result{}, err
	}
	to, err := p.float("to")
	if err != nil {
		return Result{}, err
	}
	lambda, err := p.float("lambda")
	if err != nil {
		return Result{}, err
	}
	n, err := p.int("n")
	if err != nil {
		return Result{}, err
	}

	tbl, err := integraleq.Volterra2(kernel, rightSide, from, to, lambda, n)
	if err != nil {
		return Result{}, err
	}
	return Result{Table: tbl}, nil
}

func runGolden(p Params) (Result, error) {
	objective, err := func1MustGet(p, "objective", "x")
	if err != nil {
		return Result{}, err
	}
	from, err := p.float("from")
	if err != nil {
		return Result{}, err
	}
	to, err := p.float("to")
	if err != nil {
		return Result{}, err
	}
	widthTolerance := p.floatOr("widthTolerance", 1e-6)
	maxIter := p.intOr("maxIter", 1000)

	min, err := minimize.GoldenSection(objective, from, to, widthTolerance, maxIter)
	if err != nil {
		return Result{}, err
	}
	return Result{Minimum1: &min}, nil
}

func runGradient(p Params) (Result, error) {
	vars, err := p.stringSlice("vars")
	if err != nil {
		return Result{}, err
	}
	objectiveFormula, err := p.string("objective")
	if err != nil {
		return Result{}, err
	}
	objective, err := funcN(objectiveFormula, vars)
	if err != nil {
		return Result{}, err
	}
	gradFormulas, err := p.stringSlice("gradient")
	if err != nil {
		return Result{}, err
	}
	if len(gradFormulas) != len(vars) {
		return Result{}, &wberrors.InvalidParam{Name: "gradient", Message: "must have one formula per variable in vars"}
	}
	grad := make([]function.FuncN, len(gradFormulas))
	for i, f := range gradFormulas {
		g, err := funcN(f, vars)
		if err != nil {
			return Result{}, err
		}
		grad[i] = g
	}
	x0f, err := floatSlice(p, "x0")
	if err != nil {
		return Result{}, err
	}
	eps := p.floatOr("eps", 1e-6)
	maxIter := p.intOr("maxIter", 1000)

	min, err := minimize.GradientDescent(objective, grad, x0f, eps, maxIter)
	if err != nil {
		return Result{}, err
	}
	return Result{MinimumN: &min}, nil
}

func runPenalty(p Params) (Result, error) {
	objective, err := func1MustGet(p, "objective", "x")
	if err != nil {
		return Result{}, err
	}
	constraintFormulas, err := p.stringSlice("constraints")
	if err != nil {
		return Result{}, err
	}
	constraints, err := func1List(constraintFormulas, "x")
	if err != nil {
		return Result{}, err
	}
	from, err := p.float("from")
	if err != nil {
		return Result{}, err
	}
	to, err := p.float("to")
	if err != nil {
		return Result{}, err
	}
	startEps := p.floatOr("startEps", 1.0)
	minStep := p.floatOr("minStep", 1e-6)
	maxIter := p.intOr("maxIter", 1000)

	min, err := minimize.Penalty(objective, constraints, from, to, startEps, minStep, maxIter)
	if err != nil {
		return Result{}, err
	}
	return Result{Minimum1: &min}, nil
}

func runArea(p Params) (Result, error) {
	a, err := func1MustGet(p, "a", "x")
	if err != nil {
		return Result{}, err
	}
	b, err := func1MustGet(p, "b", "x")
	if err != nil {
		return Result{}, err
	}
	c, err := func1MustGet(p, "c", "x")
	if err != nil {
		return Result{}, err
	}
	abBracket, err := p.bracket("abBracket")
	if err != nil {
		return Result{}, err
	}
	acBracket, err := p.bracket("acBracket")
	if err != nil {
		return Result{}, err
	}
	bcBracket, err := p.bracket("bcBracket")
	if err != nil {
		return Result{}, err
	}
	rootStartEps := p.floatOr("rootStartEps", 0.001)
	areaEps := p.floatOr("areaEps", 0.0001)
	maxIter := p.intOr("maxIter", 1000)

	tri, err := area.Calc(a, b, c, abBracket, acBracket, bcBracket, rootStartEps, areaEps, maxIter)
	if err != nil {
		return Result{}, err
	}
	return Result{Triangle: &tri}, nil
}

func runSpline(p Params) (Result, error) {
	raw, ok := p["points"]
	if !ok {
		return Result{}, &wberrors.InvalidParam{Name: "points", Message: "missing"}
	}
	list, ok := raw.([]any)
	if !ok {
		return Result{}, &wberrors.InvalidParam{Name: "points", Message: "expected a list of [x, y] pairs"}
	}
	pts := make([]spline.Point, len(list))
	for i, el := range list {
		pair, ok := el.([]any)
		if !ok || len(pair) != 2 {
			return Result{}, &wberrors.InvalidParam{Name: "points", Message: "every element must be a 2-element [x, y] pair"}
		}
		x, xok := toFloat(pair[0])
		y, yok := toFloat(pair[1])
		if !xok || !yok {
			return Result{}, &wberrors.InvalidParam{Name: "points", Message: "x and y must be numbers"}
		}
		pts[i] = spline.Point{X: x, Y: y}
	}

	return Result{Spline: spline.New(pts)}, nil
}

func func1MustGet(p Params, name, varX string) (function.Func1, error) {
	formula, err := p.string(name)
	if err != nil {
		return nil, err
	}
	return func1(formula, varX)
}

func func2MustGet(p Params, name, varX, varY string) (function.Func2, error) {
	formula, err := p.string(name)
	if err != nil {
		return nil, err
	}
	return func2(formula, varX, varY)
}

func floatSlice(p Params, name string) ([]float64, error) {
	v, ok := p[name]
	if !ok {
		return nil, &wberrors.InvalidParam{Name: name, Message: "missing"}
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, &wberrors.InvalidParam{Name: name, Message: "expected a list of numbers"}
	}
	out := make([]float64, len(raw))
	for i, el := range raw {
		n, ok := toFloat(el)
		if !ok {
			return nil, &wberrors.InvalidParam{Name: name, Message: "every element must be a number"}
		}
		out[i] = n
	}
	return out, nil
}
