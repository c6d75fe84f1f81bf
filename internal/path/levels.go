package path

import (
	"fmt"
	"sort"
)

// GraphIntegrityError reports that topological leveling could not account
// for every step. Given the extraction invariant that dependencies only
// reference strictly earlier steps this should never occur; when it does,
// the partial layering is returned alongside the error so the caller can
// report it rather than fabricate a complete-looking one.
type GraphIntegrityError struct {
	Missing []int // step ids that were never leveled
}

func (e *GraphIntegrityError) Error() string {
	return fmt.Sprintf("dependency graph integrity violated: %d step(s) not leveled: %v", len(e.Missing), e.Missing)
}

// Levels computes the layered topological ordering of the path using
// Kahn-style scheduling over step-to-step dependency edges. Edges to
// external parameters are not step edges and are ignored. Within each level
// steps appear in ascending step id order, which makes the layering
// deterministic for identical input.
//
// Every step S satisfies level(S) = 1 + max(level(d)) over its dependencies,
// or level 0 with none.
func (p *Path) Levels() ([]Level, error) {
	inDegree := make(map[int]int, len(p.steps))
	dependents := make(map[int][]int, len(p.steps))
	known := make(map[int]*Step, len(p.steps))
	for _, s := range p.steps {
		known[s.StepID] = s
		inDegree[s.StepID] = 0
	}
	for _, s := range p.steps {
		for _, depID := range s.Dependencies {
			if _, ok := known[depID]; !ok {
				continue
			}
			dependents[depID] = append(dependents[depID], s.StepID)
			inDegree[s.StepID]++
		}
	}

	var frontier []int
	for _, s := range p.steps {
		if inDegree[s.StepID] == 0 {
			frontier = append(frontier, s.StepID)
		}
	}
	sort.Ints(frontier)

	var levels []Level
	leveled := 0
	for depth := 0; len(frontier) > 0; depth++ {
		level := Level{Level: depth}
		var next []int
		for _, id := range frontier {
			level.Steps = append(level.Steps, known[id])
			leveled++
			for _, depID := range dependents[id] {
				inDegree[depID]--
				if inDegree[depID] == 0 {
					next = append(next, depID)
				}
			}
		}
		levels = append(levels, level)
		sort.Ints(next)
		frontier = next
	}

	if leveled != len(p.steps) {
		seen := make(map[int]struct{}, leveled)
		for _, lv := range levels {
			for _, s := range lv.Steps {
				seen[s.StepID] = struct{}{}
			}
		}
		var missing []int
		for _, s := range p.steps {
			if _, ok := seen[s.StepID]; !ok {
				missing = append(missing, s.StepID)
			}
		}
		return levels, &GraphIntegrityError{Missing: missing}
	}
	return levels, nil
}
