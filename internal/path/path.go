package path

import (
	"context"
	"sort"

	"github.com/akarpov/reasonpath/internal/ctxlog"
	"github.com/akarpov/reasonpath/internal/expr"
)

// Path is the ordered collection of steps for one computation, together with
// its symbol table and declared return variables. Build it with Extract or
// ExtractFunction; after that it is read-only except through Simplify, which
// derives a fresh path.
type Path struct {
	steps      []*Step
	symbols    map[string]*Step // variable name -> latest defining step
	returnVars []string
	params     []string
}

func newPath(params []string) *Path {
	return &Path{
		symbols: make(map[string]*Step),
		params:  append([]string(nil), params...),
	}
}

// addStep appends a step and registers it as the latest definition of its
// variable. An earlier step with the same name stays in the sequence but is
// no longer reachable by name.
func (p *Path) addStep(s *Step) {
	p.steps = append(p.steps, s)
	p.symbols[s.Variable] = s
}

// Steps returns the steps in source encounter order. The returned slice is
// the caller's to iterate, not to modify.
func (p *Path) Steps() []*Step {
	return append([]*Step(nil), p.steps...)
}

// Len returns the number of steps.
func (p *Path) Len() int { return len(p.steps) }

// StepByID returns the step with the given id, or nil.
func (p *Path) StepByID(id int) *Step {
	if id < 1 || id > len(p.steps) {
		return nil
	}
	// Step ids are dense and assigned in encounter order.
	return p.steps[id-1]
}

// StepByVar returns the latest step defining the given variable, or nil.
func (p *Path) StepByVar(name string) *Step {
	return p.symbols[name]
}

// ReturnVars returns the declared return variable names, sorted.
func (p *Path) ReturnVars() []string {
	return append([]string(nil), p.returnVars...)
}

// Params returns the computation's declared parameter names.
func (p *Path) Params() []string {
	return append([]string(nil), p.params...)
}

// Extract builds a reasoning path from the textual body of a computation.
// params names the external parameters; when the caller supplies none and
// the source carries its own `func name(...)` header, the header's parameter
// list is used. Statements outside the restricted grammar are skipped with a
// debug log entry. A source that fails to parse at all yields an
// *expr.ParseError.
func Extract(ctx context.Context, src string, params []string) (*Path, error) {
	prog, err := expr.ParseProgram(src)
	if err != nil {
		return nil, err
	}
	if prog.HasHeader && len(params) == 0 {
		params = prog.Params
	}
	return fromProgram(ctx, prog, params), nil
}

// ExtractFunction builds a reasoning path from a self-describing function
// source, taking the parameter list from its header.
func ExtractFunction(ctx context.Context, src string) (*Path, error) {
	return Extract(ctx, src, nil)
}

func fromProgram(ctx context.Context, prog *expr.Program, params []string) *Path {
	logger := ctxlog.FromContext(ctx)

	paramSet := make(map[string]struct{}, len(params))
	for _, name := range params {
		paramSet[name] = struct{}{}
	}

	p := newPath(params)
	returnSet := make(map[string]struct{})

	for _, stmt := range prog.Stmts {
		switch st := stmt.(type) {
		case *expr.AssignStmt:
			step := &Step{
				StepID:     len(p.steps) + 1,
				Variable:   st.Name,
				Expression: expr.Render(st.RHS),
			}
			depSet := make(map[int]struct{})
			inputSet := make(map[string]struct{})
			for _, name := range expr.Idents(st.RHS) {
				if name == st.Name {
					continue
				}
				if _, ok := paramSet[name]; ok {
					inputSet[name] = struct{}{}
					continue
				}
				if dep := p.symbols[name]; dep != nil {
					depSet[dep.StepID] = struct{}{}
					continue
				}
				// Neither a prior local nor a declared parameter: dropped.
				logger.Debug("unresolved identifier ignored", "name", name, "variable", st.Name)
			}
			step.Dependencies = sortedInts(depSet)
			step.DependenciesInput = sortedStrings(inputSet)
			p.addStep(step)

		case *expr.ReturnStmt:
			returnSet[st.Target] = struct{}{}

		case *expr.BadStmt:
			logger.Debug("unsupported statement skipped", "line", st.Line, "text", st.Text)
		}
	}

	p.returnVars = sortedStrings(returnSet)
	return p
}

func sortedInts(set map[int]struct{}) []int {
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
