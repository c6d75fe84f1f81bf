package path

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	p, err := Extract(context.Background(), sampleSource, []string{"a", "b"})
	require.NoError(t, err)

	levels, err := p.Levels()
	require.NoError(t, err)
	require.Len(t, levels, 3)

	assert.Equal(t, 0, levels[0].Level)
	assert.Equal(t, []int{1, 4}, stepIDs(levels[0]))
	assert.Equal(t, 1, levels[1].Level)
	assert.Equal(t, []int{2}, stepIDs(levels[1]))
	assert.Equal(t, 2, levels[2].Level)
	assert.Equal(t, []int{3}, stepIDs(levels[2]))
}

func TestLevelsEmptyPath(t *testing.T) {
	p, err := Extract(context.Background(), "", nil)
	require.NoError(t, err)

	levels, err := p.Levels()
	require.NoError(t, err)
	assert.Empty(t, levels)
}

// Every step must sit exactly one level above its deepest dependency.
func TestLevelsRespectDependencyDepth(t *testing.T) {
	src := `
a1 = p + 1
b1 = p + 2
c1 = a1 + b1
d1 = c1 * a1
e1 = d1 + b1
return e1
`
	p, err := Extract(context.Background(), src, []string{"p"})
	require.NoError(t, err)

	levels, err := p.Levels()
	require.NoError(t, err)

	depth := make(map[int]int)
	for _, lv := range levels {
		for _, s := range lv.Steps {
			depth[s.StepID] = lv.Level
		}
	}
	require.Len(t, depth, p.Len())

	for _, s := range p.Steps() {
		want := 0
		for _, depID := range s.Dependencies {
			if depth[depID]+1 > want {
				want = depth[depID] + 1
			}
		}
		assert.Equal(t, want, depth[s.StepID], "step %d", s.StepID)
	}
}

func TestLevelsIntegrityViolation(t *testing.T) {
	// Assembled by hand: a two-step cycle can never come out of Extract, but
	// leveling must still refuse to pretend the layering is complete.
	p := newPath(nil)
	p.addStep(&Step{StepID: 1, Variable: "a", Expression: "b + 1", Dependencies: []int{2}})
	p.addStep(&Step{StepID: 2, Variable: "b", Expression: "a + 1", Dependencies: []int{1}})
	p.addStep(&Step{StepID: 3, Variable: "c", Expression: "1"})

	levels, err := p.Levels()
	require.Error(t, err)

	var integrity *GraphIntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, []int{1, 2}, integrity.Missing)

	// The partial layering still carries the unaffected step.
	require.Len(t, levels, 1)
	assert.Equal(t, []int{3}, stepIDs(levels[0]))
}

func stepIDs(lv Level) []int {
	ids := make([]int, 0, len(lv.Steps))
	for _, s := range lv.Steps {
		ids = append(ids, s.StepID)
	}
	return ids
}
