package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Rendering a parsed rendering must reproduce itself, otherwise canonical
// text is useless as a merge key.
func TestRenderIsFixedPoint(t *testing.T) {
	sources := []string{
		"a + b * c",
		"(a + b) * c",
		"a - (b - c)",
		"-x",
		"-(a + b)",
		"min(a, b) + max(c, 1)",
		"xs[i + 1] * 2",
		"a / b % c",
		"a >= b",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			e, err := ParseExpression(src)
			require.NoError(t, err)

			once := Render(e)
			reparsed, err := ParseExpression(once)
			require.NoError(t, err)
			assert.Equal(t, once, Render(reparsed))
		})
	}
}

func TestIdents(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want []string
	}{
		{name: "binary", src: "a + b", want: []string{"a", "b"}},
		{name: "duplicates collapse", src: "a + a * b", want: []string{"a", "b"}},
		{name: "call name is not an identifier", src: "min(a, b)", want: []string{"a", "b"}},
		{name: "subscript key counts", src: "xs[i]", want: []string{"xs", "i"}},
		{name: "literal only", src: "1 + 2", want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := ParseExpression(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, Idents(e))
		})
	}
}

func TestSubstitute(t *testing.T) {
	e, err := ParseExpression("y * 2 + min(y, z)")
	require.NoError(t, err)

	out := Substitute(e, map[string]string{"y": "x"})
	assert.Equal(t, "x * 2 + min(x, z)", Render(out))

	// The original expression is untouched.
	assert.Equal(t, "y * 2 + min(y, z)", Render(e))
}
