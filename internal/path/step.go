package path

import (
	"fmt"
	"strings"
)

// Step is one assignment in a reasoning path: the assigned variable, the
// canonical text of its right-hand side, and its resolved dependencies.
//
// Dependencies lists step ids of earlier steps in the same path, sorted
// ascending. DependenciesInput lists referenced declared parameters, sorted.
// Identifiers that resolve to neither are dropped during extraction.
type Step struct {
	StepID            int
	Variable          string
	Expression        string
	Dependencies      []int
	DependenciesInput []string
}

func (s *Step) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step %d: %s = %s", s.StepID, s.Variable, s.Expression)
	if len(s.Dependencies) > 0 {
		fmt.Fprintf(&b, " (depends on %v)", s.Dependencies)
	}
	if len(s.DependenciesInput) > 0 {
		fmt.Fprintf(&b, " (inputs %s)", strings.Join(s.DependenciesInput, ", "))
	}
	return b.String()
}

// clone returns an independent copy of the step.
func (s *Step) clone() *Step {
	c := &Step{
		StepID:     s.StepID,
		Variable:   s.Variable,
		Expression: s.Expression,
	}
	c.Dependencies = append(c.Dependencies, s.Dependencies...)
	c.DependenciesInput = append(c.DependenciesInput, s.DependenciesInput...)
	return c
}

// Level is one layer of the topological ordering: every step in it depends
// only on steps in strictly lower layers. Levels are derived on demand, not
// stored.
type Level struct {
	Level int
	Steps []*Step
}
