// Package compare produces structural diffs between two reasoning paths.
//
// Steps are aligned strictly by variable name: two steps with the same name
// but unrelated computations are reported as changed, and two steps with
// different names computing the same value are treated as wholly unrelated.
// That is a documented limitation of name-based alignment, not a bug.
package compare

import (
	"sort"

	"github.com/akarpov/reasonpath/internal/path"
)

// Change describes a variable defined in both paths whose expression or
// dependency shape differs. Dependencies are compared by the variable names
// of the steps they target, so the comparison is insensitive to step ids.
type Change struct {
	Variable    string
	ExpressionA string
	ExpressionB string
	DepsA       []string
	DepsB       []string
	InputsA     []string
	InputsB     []string
}

// Diff is the result of comparing two paths.
type Diff struct {
	Changed []Change // variables in both paths that differ, sorted by name
	OnlyA   []string // variables defined only in the first path, sorted
	OnlyB   []string // variables defined only in the second path, sorted
}

// Empty reports whether the two paths were structurally identical under
// name alignment.
func (d *Diff) Empty() bool {
	return len(d.Changed) == 0 && len(d.OnlyA) == 0 && len(d.OnlyB) == 0
}

// Paths compares the latest definition of every variable in a against the
// one in b.
func Paths(a, b *path.Path) *Diff {
	diff := &Diff{}

	varsA := definedVars(a)
	varsB := definedVars(b)

	for _, name := range varsA {
		sa := a.StepByVar(name)
		sb := b.StepByVar(name)
		if sb == nil {
			diff.OnlyA = append(diff.OnlyA, name)
			continue
		}
		depsA := depVariables(a, sa)
		depsB := depVariables(b, sb)
		if sa.Expression == sb.Expression &&
			equalStrings(depsA, depsB) &&
			equalStrings(sa.DependenciesInput, sb.DependenciesInput) {
			continue
		}
		diff.Changed = append(diff.Changed, Change{
			Variable:    name,
			ExpressionA: sa.Expression,
			ExpressionB: sb.Expression,
			DepsA:       depsA,
			DepsB:       depsB,
			InputsA:     append([]string(nil), sa.DependenciesInput...),
			InputsB:     append([]string(nil), sb.DependenciesInput...),
		})
	}
	for _, name := range varsB {
		if a.StepByVar(name) == nil {
			diff.OnlyB = append(diff.OnlyB, name)
		}
	}
	return diff
}

// definedVars returns the variable names with a live symbol-table entry,
// sorted for deterministic report order.
func definedVars(p *path.Path) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, s := range p.Steps() {
		if p.StepByVar(s.Variable) != s {
			continue // shadowed earlier definition
		}
		if _, ok := seen[s.Variable]; !ok {
			seen[s.Variable] = struct{}{}
			names = append(names, s.Variable)
		}
	}
	sort.Strings(names)
	return names
}

// depVariables maps a step's dependency ids to the variables they define.
func depVariables(p *path.Path, s *path.Step) []string {
	var names []string
	for _, id := range s.Dependencies {
		if dep := p.StepByID(id); dep != nil {
			names = append(names, dep.Variable)
		}
	}
	sort.Strings(names)
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
