package path

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/reasonpath/internal/expr"
)

const sampleSource = `
x = a + b
y = x
z = y * 2
unused = a - b
return z
`

func TestExtract(t *testing.T) {
	p, err := Extract(context.Background(), sampleSource, []string{"a", "b"})
	require.NoError(t, err)

	steps := p.Steps()
	require.Len(t, steps, 4)

	assert.Equal(t, 1, steps[0].StepID)
	assert.Equal(t, "x", steps[0].Variable)
	assert.Equal(t, "a + b", steps[0].Expression)
	assert.Empty(t, steps[0].Dependencies)
	assert.Equal(t, []string{"a", "b"}, steps[0].DependenciesInput)

	assert.Equal(t, 2, steps[1].StepID)
	assert.Equal(t, "y", steps[1].Variable)
	assert.Equal(t, []int{1}, steps[1].Dependencies)
	assert.Empty(t, steps[1].DependenciesInput)

	assert.Equal(t, 3, steps[2].StepID)
	assert.Equal(t, "z", steps[2].Variable)
	assert.Equal(t, "y * 2", steps[2].Expression)
	assert.Equal(t, []int{2}, steps[2].Dependencies)

	assert.Equal(t, 4, steps[3].StepID)
	assert.Equal(t, "unused", steps[3].Variable)
	assert.Equal(t, []string{"a", "b"}, steps[3].DependenciesInput)

	assert.Equal(t, []string{"z"}, p.ReturnVars())
	assert.Equal(t, []string{"a", "b"}, p.Params())
}

func TestExtractIsDeterministic(t *testing.T) {
	first, err := Extract(context.Background(), sampleSource, []string{"a", "b"})
	require.NoError(t, err)
	second, err := Extract(context.Background(), sampleSource, []string{"a", "b"})
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	for i, s := range first.Steps() {
		assert.Equal(t, s, second.Steps()[i])
	}
	assert.Equal(t, first.ReturnVars(), second.ReturnVars())
}

func TestExtractFunctionUsesHeaderParams(t *testing.T) {
	src := `func solution(a, b) {
		total = a + b
		return total
	}`
	p, err := ExtractFunction(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, p.Params())
	require.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"a", "b"}, p.StepByVar("total").DependenciesInput)
}

func TestExtractEmptyParamsFallBackToHeader(t *testing.T) {
	src := `func f(a) {
		x = a + 1
		return x
	}`
	p, err := Extract(context.Background(), src, []string{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, p.Params())
	require.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"a"}, p.StepByID(1).DependenciesInput)
}

func TestExtractExplicitParamsOverrideHeader(t *testing.T) {
	src := `func solution(a, b) {
		total = a + b
		return total
	}`
	p, err := Extract(context.Background(), src, []string{"a"})
	require.NoError(t, err)

	// b is neither a parameter nor a prior step, so it is dropped.
	step := p.StepByVar("total")
	require.NotNil(t, step)
	assert.Equal(t, []string{"a"}, step.DependenciesInput)
	assert.Empty(t, step.Dependencies)
}

func TestExtractRedefinitionShadowsEarlierStep(t *testing.T) {
	src := `
x = a + 1
x = x * 2
y = x
return y
`
	p, err := Extract(context.Background(), src, []string{"a"})
	require.NoError(t, err)
	require.Equal(t, 3, p.Len())

	// A reference to the step's own name is never a dependency, even when it
	// resolves to an earlier definition. Later steps see the latest one.
	assert.Empty(t, p.StepByID(2).Dependencies)
	assert.Equal(t, []int{2}, p.StepByID(3).Dependencies)
	assert.Same(t, p.StepByID(2), p.StepByVar("x"))
}

func TestExtractSelfReferenceIsNotADependency(t *testing.T) {
	p, err := Extract(context.Background(), "x = x + a\nreturn x\n", []string{"a"})
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())
	assert.Empty(t, p.StepByID(1).Dependencies)
	assert.Equal(t, []string{"a"}, p.StepByID(1).DependenciesInput)
}

func TestExtractSkipsUnsupportedStatements(t *testing.T) {
	src := `
x = a + 1
if x > 0 {
	x = 0
}
y = x * 2
return y
`
	p, err := Extract(context.Background(), src, []string{"a"})
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())
	assert.Equal(t, "x", p.StepByID(1).Variable)
	assert.Equal(t, "y", p.StepByID(2).Variable)
}

func TestExtractParseError(t *testing.T) {
	_, err := Extract(context.Background(), "x = a @ b\n", []string{"a", "b"})
	require.Error(t, err)
	var perr *expr.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestStepByID(t *testing.T) {
	p, err := Extract(context.Background(), sampleSource, []string{"a", "b"})
	require.NoError(t, err)

	assert.Nil(t, p.StepByID(0))
	assert.Nil(t, p.StepByID(5))
	require.NotNil(t, p.StepByID(4))
	assert.Equal(t, "unused", p.StepByID(4).Variable)
}
