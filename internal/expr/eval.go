package expr

import (
	"github.com/halvardsen/numwb/internal/wberrors"
)

// Eval tree-walks a, evaluating binary operators and unary minus natively
// and dispatching Call nodes and Var lookups through rt. Evaluation is
// re-entrant: the same AST can be evaluated concurrently under different
// Runtimes since nothing here mutates a.
func Eval(a *AST, rt Runtime) (float64, error) {
	switch {
	case a.num != nil:
		return a.num.value, nil

	case a.v != nil:
		v, ok := rt.GetVar(a.v.name)
		if !ok {
			return 0, &wberrors.UndefinedVariable{Name: a.v.name}
		}
		return v, nil

	case a.neg != nil:
		v, err := Eval(a.neg.inner, rt)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case a.binOp != nil:
		left, err := Eval(a.binOp.left, rt)
		if err != nil {
			return 0, err
		}
		right, err := Eval(a.binOp.right, rt)
		if err != nil {
			return 0, err
		}
		switch a.binOp.op {
		case OpAdd:
			return left + right, nil
		case OpSub:
			return left - right, nil
		case OpMul:
			return left * right, nil
		case OpDiv:
			if right == 0 {
				return 0, &wberrors.MathError{Op: "/", Message: "division by zero"}
			}
			return left / right, nil
		default:
			return 0, &wberrors.MathError{Op: "binop", Message: "unknown operator"}
		}

	case a.call != nil:
		args := make([]float64, len(a.call.args))
		for i, argNode := range a.call.args {
			v, err := Eval(argNode, rt)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return rt.EvalFunc(a.call.name, args)

	default:
		return 0, &wberrors.ParseError{Message: "empty AST node"}
	}
}
