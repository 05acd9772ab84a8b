package expr

import (
	"math"

	"github.com/halvardsen/numwb/internal/wberrors"
)

// Runtime is the binding environment an AST is evaluated against:
// variable lookup, function dispatch, and function-name recognition.
// Runtime satisfies FuncNamer so that the same value used to parse a
// formula can also evaluate it.
type Runtime interface {
	GetVar(name string) (float64, bool)
	EvalFunc(name string, args []float64) (float64, error)
	HasFunc(name string) bool
}

// builtinFunc is a native implementation of one of the default runtime's
// intrinsics.
type builtinFunc struct {
	arity int
	fn    func(args []float64) (float64, error)
}

var builtins = map[string]builtinFunc{
	"sin":  {1, func(a []float64) (float64, error) { return math.Sin(a[0]), nil }},
	"cos":  {1, func(a []float64) (float64, error) { return math.Cos(a[0]), nil }},
	"sqrt": {1, func(a []float64) (float64, error) {
		if a[0] < 0 {
			return 0, &wberrors.MathError{Op: "sqrt", Message: "negative argument"}
		}
		return math.Sqrt(a[0]), nil
	}},
	"exp": {1, func(a []float64) (float64, error) { return math.Exp(a[0]), nil }},
	"ln": {1, func(a []float64) (float64, error) {
		if a[0] <= 0 {
			return 0, &wberrors.MathError{Op: "ln", Message: "non-positive argument"}
		}
		return math.Log(a[0]), nil
	}},
	"abs": {1, func(a []float64) (float64, error) { return math.Abs(a[0]), nil }},
	"pow": {2, func(a []float64) (float64, error) { return math.Pow(a[0], a[1]), nil }},
}

// DefaultRuntime recognises sin, cos, pow, sqrt, exp, ln, abs plus
// whatever variables are bound at construction. The zero value has no
// bound variables; use NewDefaultRuntime or WithVar to populate one.
type DefaultRuntime struct {
	vars map[string]float64
}

// NewDefaultRuntime returns a DefaultRuntime with the given variable
// bindings. Passing nil is equivalent to binding no variables.
func NewDefaultRuntime(vars map[string]float64) *DefaultRuntime {
	bound := make(map[string]float64, len(vars))
	for k, v := range vars {
		bound[k] = v
	}
	return &DefaultRuntime{vars: bound}
}

// WithVar returns a copy of r with name bound to value, leaving r
// untouched. This lets a caller build a larger variable alphabet without
// re-parsing: a kernel that needs to bind "x" and "s" per grid point
// calls WithVar twice per evaluation rather than reconstructing a
// Runtime from scratch.
func (r *DefaultRuntime) WithVar(name string, value float64) *DefaultRuntime {
	bound := make(map[string]float64, len(r.vars)+1)
	for k, v := range r.vars {
		bound[k] = v
	}
	bound[name] = value
	return &DefaultRuntime{vars: bound}
}

func (r *DefaultRuntime) GetVar(name string) (float64, bool) {
	v, ok := r.vars[name]
	return v, ok
}

func (r *DefaultRuntime) HasFunc(name string) bool {
	_, ok := builtins[name]
	return ok
}

func (r *DefaultRuntime) EvalFunc(name string, args []float64) (float64, error) {
	b, ok := builtins[name]
	if !ok {
		return 0, &wberrors.UndefinedFunction{Name: name}
	}
	if len(args) != b.arity {
		return 0, &wberrors.InvalidArgCount{Name: name, Got: len(args), Expected: b.arity}
	}
	return b.fn(args)
}
