package document

import (
	"fmt"
	"sort"
)

// GraphNode is one merged visualization node. Steps that share a variable
// name and canonical expression across sources collapse into a single node;
// the Sources list records which computations produced it.
type GraphNode struct {
	ID            string   `json:"id"`
	Variable      string   `json:"variable"`
	Expression    string   `json:"expression"`
	Kind          string   `json:"kind"` // "step" or "input"
	Sources       []string `json:"sources"`
	RelativeLevel float64  `json:"relative_level"` // 0..1 for steps, -1 for inputs
}

// GraphEdge is a directed dependency edge, from the dependency to the
// dependent node.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MergedGraph carries everything an external renderer needs to draw many
// reasoning paths as one graph: merged nodes, dependency edges, and a
// relative topological level per node for vertical layout. The core does no
// rendering itself.
type MergedGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

type nodeKey struct {
	variable   string
	expression string
}

// MergeGraph folds the ground-truth and sample level records of a processed
// document into a single visualization graph. Node identity is the
// (variable, expression) pair; the first source to introduce a node fixes
// its relative level.
func MergeGraph(doc *Document) *MergedGraph {
	graph := &MergedGraph{}
	nodes := make(map[nodeKey]*GraphNode)
	sources := make(map[nodeKey]map[string]struct{})
	edgeSeen := make(map[GraphEdge]struct{})

	newNode := func(key nodeKey, kind string, relLevel float64) *GraphNode {
		if n, ok := nodes[key]; ok {
			return n
		}
		n := &GraphNode{
			ID:            fmt.Sprintf("node_%d", len(graph.Nodes)),
			Variable:      key.variable,
			Expression:    key.expression,
			Kind:          kind,
			RelativeLevel: relLevel,
		}
		graph.Nodes = append(graph.Nodes, *n)
		nodes[key] = n
		sources[key] = make(map[string]struct{})
		return n
	}

	inputNames := make([]string, 0, len(doc.FactualAssignment))
	for name := range doc.FactualAssignment {
		inputNames = append(inputNames, name)
	}
	sort.Strings(inputNames)

	type item struct {
		source string
		levels []LevelRecord
	}
	var items []item
	if doc.GroundTruth != nil {
		items = append(items, item{"ground_truth", doc.GroundTruth.Levels})
	}
	for _, r := range doc.Results {
		items = append(items, item{fmt.Sprintf("sample_%d", r.SampleID), r.Levels})
	}

	for _, it := range items {
		if len(it.levels) == 0 {
			continue
		}

		// Every computation sees the full factual assignment as inputs.
		for _, name := range inputNames {
			key := nodeKey{variable: name, expression: "input: " + name}
			newNode(key, "input", -1)
			sources[key][it.source] = struct{}{}
		}

		maxLevel := it.levels[len(it.levels)-1].Level
		stepKey := make(map[int]nodeKey)
		for _, lv := range it.levels {
			rel := 0.0
			if maxLevel > 0 {
				rel = float64(lv.Level) / float64(maxLevel)
			}
			for _, step := range lv.Steps {
				key := nodeKey{variable: step.Variable, expression: step.Expression}
				newNode(key, "step", rel)
				sources[key][it.source] = struct{}{}
				stepKey[step.StepID] = key
			}
		}

		// Edges after all of this source's nodes exist, since dependencies
		// always point at lower levels.
		for _, lv := range it.levels {
			for _, step := range lv.Steps {
				to := nodes[stepKey[step.StepID]].ID
				for _, depID := range step.Dependencies {
					if key, ok := stepKey[depID]; ok {
						addEdge(graph, edgeSeen, nodes[key].ID, to)
					}
				}
				for _, name := range step.DependenciesInput {
					key := nodeKey{variable: name, expression: "input: " + name}
					if n, ok := nodes[key]; ok {
						addEdge(graph, edgeSeen, n.ID, to)
					}
				}
			}
		}
	}

	// Fold the accumulated source sets back into the flattened node list.
	for i := range graph.Nodes {
		key := nodeKey{variable: graph.Nodes[i].Variable, expression: graph.Nodes[i].Expression}
		var list []string
		for s := range sources[key] {
			list = append(list, s)
		}
		sort.Strings(list)
		graph.Nodes[i].Sources = list
	}
	return graph
}

func addEdge(graph *MergedGraph, seen map[GraphEdge]struct{}, from, to string) {
	edge := GraphEdge{From: from, To: to}
	if _, ok := seen[edge]; ok {
		return
	}
	seen[edge] = struct{}{}
	graph.Edges = append(graph.Edges, edge)
}
