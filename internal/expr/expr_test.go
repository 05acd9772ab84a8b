package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndEvalBasics(t *testing.T) {
	rt := NewDefaultRuntime(map[string]float64{"x": 8})

	ast, err := Parse("122+904-23.1*(72-x/4)", rt)
	require.NoError(t, err)

	got, err := Eval(ast, rt)
	require.NoError(t, err)
	assert.InDelta(t, -591.0, got, 1e-9)
}

func TestParseImplicitMultiplication(t *testing.T) {
	rt := NewDefaultRuntime(map[string]float64{"x": 2.0})

	ast, err := Parse("2sin(x)-3cos(4x)", rt)
	require.NoError(t, err)

	got, err := Eval(ast, rt)
	require.NoError(t, err)

	want := 2*math.Sin(2) - 3*math.Cos(8)
	assert.InDelta(t, want, got, 1e-12)
}

func TestParseImplicitMultiplicationVariants(t *testing.T) {
	rt := NewDefaultRuntime(map[string]float64{"x": 3, "y": 4})

	cases := []struct {
		expr string
		want float64
	}{
		{"2x", 6},
		{"x y", 12},
		{"2(x+1)", 8},
		{"2pow(x,2)", 18},
	}

	for _, c := range cases {
		ast, err := Parse(c.expr, rt)
		require.NoError(t, err, c.expr)
		got, err := Eval(ast, rt)
		require.NoError(t, err, c.expr)
		assert.InDelta(t, c.want, got, 1e-9, c.expr)
	}
}

func TestDivisionByZero(t *testing.T) {
	rt := NewDefaultRuntime(nil)
	ast, err := Parse("1/0", rt)
	require.NoError(t, err)

	_, err = Eval(ast, rt)
	require.Error(t, err)
}

func TestSqrtNegativeDomainError(t *testing.T) {
	rt := NewDefaultRuntime(nil)
	ast, err := Parse("sqrt(-1)", rt)
	require.NoError(t, err)

	_, err = Eval(ast, rt)
	require.Error(t, err)
}

func TestUndefinedVariable(t *testing.T) {
	rt := NewDefaultRuntime(nil)
	ast, err := Parse("x+1", rt)
	require.NoError(t, err)

	_, err = Eval(ast, rt)
	require.Error(t, err)
}

func TestBareDotIsNotANumber(t *testing.T) {
	// A bare '.' has no digits on either side, so the tokenizer does not
	// treat it as a number; it falls through to identifier matching and
	// parses as a (likely unbound) variable reference instead.
	rt := NewDefaultRuntime(nil)
	ast, err := Parse(".", rt)
	require.NoError(t, err)

	_, err = Eval(ast, rt)
	require.Error(t, err)
}

func TestQueryVars(t *testing.T) {
	rt := NewDefaultRuntime(nil)
	ast, err := Parse("sin(x)*y + pow(z, 2)", rt)
	require.NoError(t, err)

	vars := Vars(ast)
	assert.True(t, vars.Has("x"))
	assert.True(t, vars.Has("y"))
	assert.True(t, vars.Has("z"))
	assert.Equal(t, 3, vars.Len())
}

func TestLeftAssociativity(t *testing.T) {
	rt := NewDefaultRuntime(nil)
	ast, err := Parse("10-3-2", rt)
	require.NoError(t, err)

	got, err := Eval(ast, rt)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)
}

func TestWithVarComposition(t *testing.T) {
	base := NewDefaultRuntime(map[string]float64{"x": 1})
	withS := base.WithVar("s", 2)

	ast, err := Parse("x+s", base)
	require.NoError(t, err)

	got, err := Eval(ast, withS)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-12)
}
