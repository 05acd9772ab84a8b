package problems

import (
	"github.com/halvardsen/numwb/internal/expr"
	"github.com/halvardsen/numwb/internal/function"
	"github.com/halvardsen/numwb/internal/util"
	"github.com/halvardsen/numwb/internal/wberrors"
)

// Params is a named problem's literal parameter bundle, decoded from either
// a TOML preset file or a JSON solve request — both land on the same
// map[string]any shape before a kind's run function sees it, so the
// config loader and the HTTP handlers share one set of accessors rather
// than each rolling its own decode step.
type Params map[string]any

func (p Params) float(name string) (float64, error) {
	v, ok := p[name]
	if !ok {
		return 0, &wberrors.InvalidParam{Name: name, Message: "missing"}
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, &wberrors.InvalidParam{Name: name, Message: "expected a number"}
	}
}

func (p Params) floatOr(name string, fallback float64) float64 {
	v, err := p.float(name)
	if err != nil {
		return fallback
	}
	return v
}

func (p Params) int(name string) (int, error) {
	v, err := p.float(name)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func (p Params) intOr(name string, fallback int) int {
	v, err := p.int(name)
	if err != nil {
		return fallback
	}
	return v
}

func (p Params) string(name string) (string, error) {
	v, ok := p[name]
	if !ok {
		return "", &wberrors.InvalidParam{Name: name, Message: "missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &wberrors.InvalidParam{Name: name, Message: "expected a string"}
	}
	return s, nil
}

func (p Params) bracket(name string) ([2]float64, error) {
	v, ok := p[name]
	if !ok {
		return [2]float64{}, &wberrors.InvalidParam{Name: name, Message: "missing"}
	}
	raw, ok := v.([]any)
	if !ok || len(raw) != 2 {
		return [2]float64{}, &wberrors.InvalidParam{Name: name, Message: "expected a two-element bracket [from, to]"}
	}
	var out [2]float64
	for i, el := range raw {
		n, ok := toFloat(el)
		if !ok {
			return [2]float64{}, &wberrors.InvalidParam{Name: name, Message: "bracket endpoints must be numbers"}
		}
		out[i] = n
	}
	return out, nil
}

func (p Params) stringSlice(name string) ([]string, error) {
	v, ok := p[name]
	if !ok {
		return nil, &wberrors.InvalidParam{Name: name, Message: "missing"}
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, &wberrors.InvalidParam{Name: name, Message: "expected a list of strings"}
	}
	out := make([]string, len(raw))
	for i, el := range raw {
		s, ok := el.(string)
		if !ok {
			return nil, &wberrors.InvalidParam{Name: name, Message: "every element must be a string"}
		}
		out[i] = s
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// checkVars validates the free variables a parsed formula actually
// references against the names a problem kind expects it to use: every
// free variable must be one of allowed (an unrecognised name is almost
// always a typo'd parameter, not an intentional extra variable), and if
// requireAll is set every name in allowed must also be referenced (a
// kernel K(x,s) that never mentions s is not a kernel).
func checkVars(formula string, ast *expr.AST, allowed util.StringSet, requireAll bool) error {
	used := expr.Vars(ast)

	if extra := used.Difference(allowed); !extra.Empty() {
		return &wberrors.InvalidParam{Name: formula, Message: "references unexpected variable(s) " + extra.StringOrdered() + ", expected only " + allowed.StringOrdered()}
	}
	if requireAll {
		if missing := allowed.Difference(used); !missing.Empty() {
			return &wberrors.InvalidParam{Name: formula, Message: "does not reference required variable(s) " + missing.StringOrdered()}
		}
	}
	return nil
}

// func1 parses formula as a one-variable expression bound to varX, matching
// the ExprFunc1 shape of internal/function for any of the 1-D objectives,
// constraints, or kernels a problem parameter names as formula text.
func func1(formula, varX string) (function.Func1, error) {
	rt := expr.NewDefaultRuntime(nil)
	ast, err := expr.Parse(formula, rt)
	if err != nil {
		return nil, err
	}
	if err := checkVars(formula, ast, util.StringSetOf([]string{varX}), false); err != nil {
		return nil, err
	}
	return function.ExprFunc1{AST: ast, Base: rt, Var: varX}, nil
}

// func2 parses formula as a two-variable kernel K(varX, varY); a kernel is
// required to reference both coordinates.
func func2(formula, varX, varY string) (function.Func2, error) {
	rt := expr.NewDefaultRuntime(nil)
	ast, err := expr.Parse(formula, rt)
	if err != nil {
		return nil, err
	}
	if err := checkVars(formula, ast, util.StringSetOf([]string{varX, varY}), true); err != nil {
		return nil, err
	}
	return function.ExprFunc2{AST: ast, Base: rt, VarX: varX, VarY: varY}, nil
}

// funcN parses formula as a function of len(vars) named coordinates, the
// shape a gradient-descent objective or partial-derivative formula takes.
func funcN(formula string, vars []string) (function.FuncN, error) {
	rt := expr.NewDefaultRuntime(nil)
	ast, err := expr.Parse(formula, rt)
	if err != nil {
		return nil, err
	}
	if err := checkVars(formula, ast, util.StringSetOf(vars), false); err != nil {
		return nil, err
	}
	return function.ExprFuncN{AST: ast, Base: rt, Vars: vars}, nil
}

// func1List parses each formula in formulas as a one-variable expression,
// used for a penalty problem's list of constraint formulas.
func func1List(formulas []string, varX string) ([]function.Func1, error) {
	out := make([]function.Func1, len(formulas))
	for i, f := range formulas {
		fn, err := func1(f, varX)
		if err != nil {
			return nil, err
		}
		out[i] = fn
	}
	return out, nil
}
