package path

import (
	"github.com/akarpov/reasonpath/internal/expr"
)

// Simplify derives a canonical path from p: pure-alias steps are removed,
// dependencies on them are redirected to the aliases' recorded sources,
// steps not reachable from a declared return variable are dropped, and the
// survivors are re-indexed densely from 1. The receiver is never modified.
//
// A step is a pure alias when its expression is a bare reference that bound
// to exactly one earlier step or declared parameter at extraction time. An
// alias whose variable is itself a declared return value is observable and
// is kept. Alias sources are tracked by recorded step id, never by a name
// lookup in the final symbol table, so redefining a variable after it was
// aliased cannot divert an edge to the wrong defining step.
//
// Alias identifiers inside surviving expressions are substituted with their
// resolved source's name when that name still binds to the same definition
// at the point of use. When an intervening redefinition makes the name
// ambiguous the original identifier is left in place; the rewritten
// dependency edges stay correct either way.
//
// With no declared return variables there is nothing to trace reachability
// from; an equivalent copy is returned unchanged.
func (p *Path) Simplify() *Path {
	if len(p.returnVars) == 0 || len(p.steps) == 0 {
		return p.clone()
	}

	returnSet := make(map[string]struct{}, len(p.returnVars))
	for _, name := range p.returnVars {
		returnSet[name] = struct{}{}
	}

	// Stage 1: alias detection. The extractor already resolved what a bare
	// reference bound to when the step was read, so the recorded dependency
	// sets identify the source step or parameter directly.
	type source struct {
		stepID int // defining step, 0 when the source is a parameter
		param  string
	}
	aliasOf := make(map[int]source)
	for _, s := range p.steps {
		if _, ok := bareReference(s.Expression); !ok {
			continue
		}
		if _, observable := returnSet[s.Variable]; observable {
			continue
		}
		switch {
		case len(s.Dependencies) == 1 && len(s.DependenciesInput) == 0:
			aliasOf[s.StepID] = source{stepID: s.Dependencies[0]}
		case len(s.Dependencies) == 0 && len(s.DependenciesInput) == 1:
			aliasOf[s.StepID] = source{param: s.DependenciesInput[0]}
		}
	}
	// Chains resolve transitively and terminate because an alias always
	// targets a strictly earlier step.
	resolved := make(map[int]source, len(aliasOf))
	for id := range aliasOf {
		src := aliasOf[id]
		for src.stepID != 0 {
			next, ok := aliasOf[src.stepID]
			if !ok {
				break
			}
			src = next
		}
		resolved[id] = src
	}

	// defs records every definition of a name in step order, to check what
	// a name binds to at a given point.
	defs := make(map[string][]int)
	for _, s := range p.steps {
		defs[s.Variable] = append(defs[s.Variable], s.StepID)
	}
	prevDef := func(name string, beforeID int) int {
		last := 0
		for _, id := range defs[name] {
			if id >= beforeID {
				break
			}
			last = id
		}
		return last
	}

	// Stage 2: redirect dependencies on eliminated aliases to their resolved
	// sources. An alias resolving to a parameter becomes an input dependency.
	type interim struct {
		orig   *Step
		text   string
		deps   map[int]struct{}
		inputs map[string]struct{}
	}
	var order []*interim
	byOldID := make(map[int]*interim)
	for _, s := range p.steps {
		if _, redundant := aliasOf[s.StepID]; redundant {
			continue
		}
		it := &interim{
			orig:   s,
			text:   s.Expression,
			deps:   make(map[int]struct{}),
			inputs: make(map[string]struct{}),
		}
		for _, name := range s.DependenciesInput {
			it.inputs[name] = struct{}{}
		}
		repl := make(map[string]string)
		for _, depID := range s.Dependencies {
			src, redundant := resolved[depID]
			if !redundant {
				it.deps[depID] = struct{}{}
				continue
			}
			if src.param != "" {
				it.inputs[src.param] = struct{}{}
			} else {
				it.deps[src.stepID] = struct{}{}
			}
			// The identifier that bound to the eliminated alias is renamed
			// to its source only while the source's own name still binds to
			// the same definition here.
			dep := p.StepByID(depID)
			if src.param != "" {
				if prevDef(src.param, s.StepID) == 0 {
					repl[dep.Variable] = src.param
				}
			} else if final := p.StepByID(src.stepID); prevDef(final.Variable, s.StepID) == src.stepID {
				repl[dep.Variable] = final.Variable
			}
		}
		if len(repl) > 0 {
			if e, err := expr.ParseExpression(s.Expression); err == nil {
				it.text = expr.Render(expr.Substitute(e, repl))
			}
		}
		order = append(order, it)
		byOldID[s.StepID] = it
	}

	// Stage 3: backward reachability from the defining steps of the return
	// variables. Those steps are exempt from alias elimination, so each has
	// a surviving entry.
	reachable := make(map[int]bool)
	var queue []int
	for _, rv := range p.returnVars {
		if st := p.symbols[rv]; st != nil && !reachable[st.StepID] {
			reachable[st.StepID] = true
			queue = append(queue, st.StepID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for depID := range byOldID[id].deps {
			if !reachable[depID] {
				reachable[depID] = true
				queue = append(queue, depID)
			}
		}
	}

	// Stage 4: re-index survivors densely in encounter order and remap the
	// retained edges onto the new ids.
	result := newPath(p.params)
	result.returnVars = append([]string(nil), p.returnVars...)
	newID := make(map[int]int)
	for _, it := range order {
		if !reachable[it.orig.StepID] {
			continue
		}
		newID[it.orig.StepID] = len(result.steps) + 1
	}
	for _, it := range order {
		id, ok := newID[it.orig.StepID]
		if !ok {
			continue
		}
		step := &Step{
			StepID:            id,
			Variable:          it.orig.Variable,
			Expression:        it.text,
			DependenciesInput: sortedStrings(it.inputs),
		}
		depSet := make(map[int]struct{}, len(it.deps))
		for old := range it.deps {
			if mapped, ok := newID[old]; ok {
				depSet[mapped] = struct{}{}
			}
		}
		step.Dependencies = sortedInts(depSet)
		result.addStep(step)
	}
	return result
}

// clone returns a structurally equal, independent copy of the path.
func (p *Path) clone() *Path {
	c := newPath(p.params)
	for _, s := range p.steps {
		c.addStep(s.clone())
	}
	c.returnVars = append([]string(nil), p.returnVars...)
	return c
}

// bareReference reports whether the canonical expression text is nothing
// more than a single identifier, and returns that identifier.
func bareReference(text string) (string, bool) {
	e, err := expr.ParseExpression(text)
	if err != nil {
		return "", false
	}
	id, ok := e.(*expr.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}
