package eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/akarpov/reasonpath/internal/expr"
	"github.com/akarpov/reasonpath/internal/path"
)

func evalSrc(t *testing.T, src string, scope map[string]cty.Value) cty.Value {
	t.Helper()
	e, err := expr.ParseExpression(src)
	require.NoError(t, err)
	v, err := Expression(e, scope)
	require.NoError(t, err)
	return v
}

func TestExpression(t *testing.T) {
	scope := map[string]cty.Value{
		"a": cty.NumberIntVal(3),
		"b": cty.NumberIntVal(4),
	}

	testCases := []struct {
		name string
		src  string
		want cty.Value
	}{
		{name: "addition", src: "a + b", want: cty.NumberIntVal(7)},
		{name: "precedence", src: "a + b * 2", want: cty.NumberIntVal(11)},
		{name: "unary minus", src: "-a", want: cty.NumberIntVal(-3)},
		{name: "division", src: "b / 2", want: cty.NumberIntVal(2)},
		{name: "modulo", src: "b % a", want: cty.NumberIntVal(1)},
		{name: "comparison", src: "a < b", want: cty.True},
		{name: "equality", src: "a == 3", want: cty.True},
		{name: "inequality", src: "a != 3", want: cty.False},
		{name: "call min", src: "min(a, b)", want: cty.NumberIntVal(3)},
		{name: "call abs", src: "abs(a - b)", want: cty.NumberIntVal(1)},
		{name: "call pow", src: "pow(a, 2)", want: cty.NumberIntVal(9)},
		{name: "nested calls", src: "max(min(a, b), 1)", want: cty.NumberIntVal(3)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := evalSrc(t, tc.src, scope)
			assert.True(t, tc.want.RawEquals(got), "want %s, got %s", tc.want.GoString(), got.GoString())
		})
	}
}

func TestExpressionIndex(t *testing.T) {
	scope := map[string]cty.Value{
		"xs": cty.ListVal([]cty.Value{cty.NumberIntVal(10), cty.NumberIntVal(20)}),
	}

	got := evalSrc(t, "xs[1]", scope)
	assert.True(t, cty.NumberIntVal(20).RawEquals(got))

	e, err := expr.ParseExpression("xs[5]")
	require.NoError(t, err)
	_, err = Expression(e, scope)
	assert.ErrorContains(t, err, "out of range")
}

func TestExpressionErrors(t *testing.T) {
	scope := map[string]cty.Value{"a": cty.NumberIntVal(1)}

	testCases := []struct {
		name    string
		src     string
		errPart string
	}{
		{name: "undefined name", src: "a + missing", errPart: `undefined name "missing"`},
		{name: "unknown function", src: "sqrt(a)", errPart: `unknown function "sqrt"`},
		{name: "division by zero", src: "a / 0", errPart: "division by zero"},
		{name: "modulo by zero", src: "a % 0", errPart: "modulo by zero"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := expr.ParseExpression(tc.src)
			require.NoError(t, err)
			_, err = Expression(e, scope)
			assert.ErrorContains(t, err, tc.errPart)
		})
	}
}

func TestRun(t *testing.T) {
	src := `
x = a + b
y = x
z = y * 2
unused = a - b
return z
`
	p, err := path.Extract(context.Background(), src, []string{"a", "b"})
	require.NoError(t, err)

	binding := NumberBinding(map[string]float64{"a": 3, "b": 4})
	out, err := Run(p, binding)
	require.NoError(t, err)
	require.Contains(t, out, "z")
	assert.True(t, cty.NumberIntVal(14).RawEquals(out["z"]), "got %s", out["z"].GoString())
}

func TestRunUndefinedReturnVar(t *testing.T) {
	p, err := path.Extract(context.Background(), "x = a + 1\nreturn ghost\n", []string{"a"})
	require.NoError(t, err)

	_, err = Run(p, NumberBinding(map[string]float64{"a": 1}))
	assert.ErrorContains(t, err, `return variable "ghost" is never defined`)
}

func TestVerifyEquivalence(t *testing.T) {
	src := `
x = a + b
y = x
z = y * 2
unused = a - b
return z
`
	p, err := path.Extract(context.Background(), src, []string{"a", "b"})
	require.NoError(t, err)
	simplified := p.Simplify()

	binding := NumberBinding(map[string]float64{"a": 3, "b": 4})
	assert.NoError(t, VerifyEquivalence(p, simplified, binding, 1e-6))
}

func TestVerifyEquivalenceAfterShadowedAlias(t *testing.T) {
	src := "a = p + 1\nb = a\na = b * 2\nreturn a\n"
	p, err := path.Extract(context.Background(), src, []string{"p"})
	require.NoError(t, err)

	// p=2: a=3, b=3, a=6. The simplified path must still compute 6.
	binding := NumberBinding(map[string]float64{"p": 2})
	assert.NoError(t, VerifyEquivalence(p, p.Simplify(), binding, 1e-6))
}

func TestVerifyEquivalenceMismatch(t *testing.T) {
	a, err := path.Extract(context.Background(), "z = p * 2\nreturn z\n", []string{"p"})
	require.NoError(t, err)
	b, err := path.Extract(context.Background(), "z = p * 3\nreturn z\n", []string{"p"})
	require.NoError(t, err)

	err = VerifyEquivalence(a, b, NumberBinding(map[string]float64{"p": 1}), 1e-6)
	require.Error(t, err)

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Len(t, mismatch.Mismatches, 1)
	assert.Equal(t, "z", mismatch.Mismatches[0].Variable)
}

func TestVerifyEquivalenceTolerance(t *testing.T) {
	a, err := path.Extract(context.Background(), "z = p / 3\nreturn z\n", []string{"p"})
	require.NoError(t, err)
	b, err := path.Extract(context.Background(), "z = p * 0.33333333\nreturn z\n", []string{"p"})
	require.NoError(t, err)

	binding := NumberBinding(map[string]float64{"p": 1})
	assert.Error(t, VerifyEquivalence(a, b, binding, 1e-12))
	assert.NoError(t, VerifyEquivalence(a, b, binding, 1e-6))
}
