package function

import (
	"github.com/halvardsen/numwb/internal/expr"
	"github.com/halvardsen/numwb/internal/wberrors"
)

// ExprFunc1 evaluates a parsed formula as a function of a single named
// variable, e.g. the user-entered f(x) in a minimisation or area problem.
// Base carries whatever other variables and functions the formula
// references besides Var (constants pulled from a problem's parameters,
// say); WithVar rebinds Var per call without mutating Base, so the same
// ExprFunc1 is safe to evaluate repeatedly or concurrently.
type ExprFunc1 struct {
	AST  *expr.AST
	Base *expr.DefaultRuntime
	Var  string
}

func (f ExprFunc1) Apply(x float64) (float64, error) {
	return expr.Eval(f.AST, f.Base.WithVar(f.Var, x))
}

// ExprFunc2 evaluates a parsed formula as a function of two named
// variables — the shape an integral-equation kernel K(x,s) takes.
type ExprFunc2 struct {
	AST  *expr.AST
	Base *expr.DefaultRuntime
	VarX string
	VarY string
}

func (f ExprFunc2) Apply(x, y float64) (float64, error) {
	return expr.Eval(f.AST, f.Base.WithVar(f.VarX, x).WithVar(f.VarY, y))
}

// ExprFuncN evaluates a parsed formula as a function of an ordered
// coordinate vector, binding Vars[i] to args[i]. This is the shape a
// gradient-descent objective and its partial-derivative formulas take
// when entered as expression text rather than native Go.
type ExprFuncN struct {
	AST  *expr.AST
	Base *expr.DefaultRuntime
	Vars []string
}

func (f ExprFuncN) Apply(args []float64) (float64, error) {
	if len(args) != len(f.Vars) {
		return 0, &wberrors.SizeMismatch{Name: "ExprFuncN.Apply", Got: len(args), Expected: len(f.Vars)}
	}
	rt := f.Base
	for i, name := range f.Vars {
		rt = rt.WithVar(name, args[i])
	}
	return expr.Eval(f.AST, rt)
}
