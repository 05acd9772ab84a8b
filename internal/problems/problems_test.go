package problems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsListsAllRegistered(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, Registered(k))
	}
}

func TestRunUnknownKind(t *testing.T) {
	_, err := Run(Kind("not-a-kind"), Params{})
	require.Error(t, err)
}

func TestRunGoldenSection(t *testing.T) {
	res, err := Run(Golden, Params{
		"objective": "(x-3)*(x-3)",
		"from":      0.0,
		"to":        10.0,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Minimum1)
	assert.InDelta(t, 3.0, res.Minimum1.X, 0.01)
}

func TestRunGoldenSectionMissingParam(t *testing.T) {
	_, err := Run(Golden, Params{"from": 0.0, "to": 10.0})
	require.Error(t, err)
}

func TestRunSplineFromPoints(t *testing.T) {
	res, err := Run(Spline, Params{
		"points": []any{
			[]any{0.0, 0.0},
			[]any{1.0, 1.0},
			[]any{2.0, 4.0},
			[]any{3.0, 9.0},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Spline)
}

func TestRunPenalty(t *testing.T) {
	res, err := Run(Penalty, Params{
		"objective":   "x*x",
		"constraints": []any{"1-x"},
		"from":        0.0,
		"to":          10.0,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Minimum1)
	assert.InDelta(t, 1.0, res.Minimum1.X, 0.05)
}

func TestRunVolterra2(t *testing.T) {
	res, err := Run(Volterra2, Params{
		"kernel":    "exp(x-s)",
		"rightSide": "1",
		"from":      0.0,
		"to":        1.0,
		"lambda":    1.0,
		"n":         20,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Table)
	assert.Equal(t, Volterra2, res.Kind)
}
