package expr

import "github.com/halvardsen/numwb/internal/util"

// Vars returns the set of free variable names referenced anywhere in a.
// A name counted here is exactly one the parser did not recognise as a
// function call head: the identifier tokens not recognised as functions
// by the parsing runtime.
func Vars(a *AST) util.StringSet {
	s := util.NewStringSet()
	collectVars(a, s)
	return s
}

func collectVars(a *AST, into util.StringSet) {
	switch {
	case a == nil:
		return
	case a.v != nil:
		into.Add(a.v.name)
	case a.neg != nil:
		collectVars(a.neg.inner, into)
	case a.binOp != nil:
		collectVars(a.binOp.left, into)
		collectVars(a.binOp.right, into)
	case a.call != nil:
		for _, arg := range a.call.args {
			collectVars(arg, into)
		}
	}
}
