// Package function is the uniform real-function abstraction that every
// kernel in this repository is written against. It mirrors the
// tagged-union node shape of internal/expr.AST — a small closed set of
// concrete variants behind a capability interface — rather than a deep
// interface hierarchy: there are at most four concrete shapes (Constant,
// Lambda, Tabulated, Expr) in the entire core.
package function

// Func1 is a real-valued map of one variable that may fail — the shape
// every 1-D kernel in this repository is written against.
type Func1 interface {
	Apply(x float64) (float64, error)
}

// Func2 is a real-valued map of two variables, used by 2-D kernel
// functions (e.g. integral-equation kernels K(x,s)).
type Func2 interface {
	Apply(x, y float64) (float64, error)
}

// FuncN is a real-valued map of an arbitrary-length coordinate vector,
// used by the N-D minimiser and the penalty method's objective/constraint
// functions.
type FuncN interface {
	Apply(args []float64) (float64, error)
}

// Constant is the trivial function that ignores its arguments and always
// returns the same value. It satisfies Func1, Func2, and FuncN.
type Constant float64

func (c Constant) Apply(x float64) (float64, error)       { return float64(c), nil }
func (c Constant) Apply2(x, y float64) (float64, error)    { return float64(c), nil }
func (c Constant) ApplyN(args []float64) (float64, error)  { return float64(c), nil }

// constant1, constant2, constantN adapt Constant to the exact single-method
// interfaces above (Constant itself exposes three differently-named methods
// so a single value can serve all three arities without an identifier
// clash).
type constant1 struct{ c Constant }

func (w constant1) Apply(x float64) (float64, error) { return w.c.Apply(x) }

type constant2 struct{ c Constant }

func (w constant2) Apply(x, y float64) (float64, error) { return w.c.Apply2(x, y) }

type constantN struct{ c Constant }

func (w constantN) Apply(args []float64) (float64, error) { return w.c.ApplyN(args) }

// AsFunc1, AsFunc2, AsFuncN adapt a Constant to the requested arity.
func (c Constant) AsFunc1() Func1 { return constant1{c} }
func (c Constant) AsFunc2() Func2 { return constant2{c} }
func (c Constant) AsFuncN() FuncN { return constantN{c} }

// Lambda1 wraps a plain Go closure as a Func1. It is the escape hatch for
// kernel functions the other three variants cannot express (e.g. built-in
// test-problem kernels registered in internal/problems).
type Lambda1 func(x float64) (float64, error)

func (f Lambda1) Apply(x float64) (float64, error) { return f(x) }

// Lambda2 wraps a plain Go closure as a Func2.
type Lambda2 func(x, y float64) (float64, error)

func (f Lambda2) Apply(x, y float64) (float64, error) { return f(x, y) }

// LambdaN wraps a plain Go closure as a FuncN.
type LambdaN func(args []float64) (float64, error)

func (f LambdaN) Apply(args []float64) (float64, error) { return f(args) }
