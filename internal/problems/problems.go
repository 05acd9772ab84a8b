// Package problems is the thin dispatcher tying a named problem kind to
// the parameter decode / kernel run / result shape triple: a name resolves
// to one handler out of a small fixed set, and the CLI and the HTTP
// service both call Run rather than duplicating kernel-selection logic.
// Dispatch is a package-level map, the same shape internal/expr's default
// runtime uses for its builtin table, so the two name-to-behavior lookups
// in this module read the same way.
package problems

import (
	"github.com/halvardsen/numwb/internal/area"
	"github.com/halvardsen/numwb/internal/minimize"
	"github.com/halvardsen/numwb/internal/spline"
	"github.com/halvardsen/numwb/internal/table"
	"github.com/halvardsen/numwb/internal/wberrors"
)

// Kind names one of the eight problem shapes the workbench can dispatch.
type Kind string

const (
	Fredholm1 Kind = "fredholm1"
	Fredholm2 Kind = "fredholm2"
	Volterra2 Kind = "volterra2"
	Golden    Kind = "golden"
	Gradient  Kind = "gradient"
	Penalty   Kind = "penalty"
	Area      Kind = "area"
	Spline    Kind = "spline"
)

// Result is the outcome of a successful dispatch. Exactly one of the
// pointer fields is populated, matching the shape of the Kind that produced
// it — the solve record the CLI prints and the HTTP service persists is
// built directly from whichever field is non-nil.
type Result struct {
	Kind     Kind
	Table    *table.Table
	Minimum1 *minimize.Minimum1
	MinimumN *minimize.MinimumN
	Triangle *area.Triangle
	Spline   *spline.Spline
}

type runFunc func(p Params) (Result, error)

var registry = map[Kind]runFunc{
	Fredholm1: runFredholm1,
	Fredholm2: runFredholm2,
	Volterra2: runVolterra2,
	Golden:    runGolden,
	Gradient:  runGradient,
	Penalty:   runPenalty,
	Area:      runArea,
	Spline:    runSpline,
}

// Run decodes p against kind's definition and executes it, returning
// *wberrors.UnknownProblemKind if kind names nothing in the registry.
func Run(kind Kind, p Params) (Result, error) {
	fn, ok := registry[kind]
	if !ok {
		return Result{}, &wberrors.UnknownProblemKind{Kind: string(kind)}
	}
	res, err := fn(p)
	if err != nil {
		return Result{}, err
	}
	res.Kind = kind
	return res, nil
}

// Kinds returns every registered problem kind, in the fixed declaration
// order above — used by the CLI's help listing and the server's
// kind-validation on preset save.
func Kinds() []Kind {
	return []Kind{Fredholm1, Fredholm2, Volterra2, Golden, Gradient, Penalty, Area, Spline}
}

// Registered reports whether kind names a known problem.
func Registered(kind Kind) bool {
	_, ok := registry[kind]
	return ok
}
