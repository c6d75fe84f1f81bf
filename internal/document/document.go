// Package document reads, processes, and writes reasoning documents: the
// JSON records exchanged with the surrounding tooling (sampling, evaluation,
// visualization). Field names and the two-element [level, steps] encoding of
// topological levels are load-bearing for downstream consumers and must not
// change shape.
package document

import (
	"encoding/json"
	"fmt"

	"github.com/akarpov/reasonpath/internal/path"
)

// StepRecord is the persisted form of a single reasoning step.
type StepRecord struct {
	StepID            int      `json:"step_id"`
	Variable          string   `json:"variable"`
	Expression        string   `json:"expression"`
	Dependencies      []int    `json:"dependencies"`
	DependenciesInput []string `json:"dependencies_input"`
}

// LevelRecord is one topological layer. On the wire it is the two-element
// array [level, [step...]], not an object.
type LevelRecord struct {
	Level int
	Steps []StepRecord
}

func (l LevelRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{l.Level, l.Steps})
}

func (l *LevelRecord) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("level record must be a [level, steps] pair, got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &l.Level); err != nil {
		return fmt.Errorf("level index: %w", err)
	}
	if err := json.Unmarshal(raw[1], &l.Steps); err != nil {
		return fmt.Errorf("level steps: %w", err)
	}
	return nil
}

// GroundTruth is the reference computation. Older documents store it as a
// bare function string; both shapes are accepted on input.
type GroundTruth struct {
	FunctionStr string        `json:"function_str"`
	Levels      []LevelRecord `json:"reasoning_path_topological_levels,omitempty"`
}

func (g *GroundTruth) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &g.FunctionStr)
	}
	type alias GroundTruth
	return json.Unmarshal(data, (*alias)(g))
}

// FunctionInfo describes one sampled computation and where it came from.
type FunctionInfo struct {
	FunctionStr string         `json:"function_str"`
	Source      map[string]any `json:"source,omitempty"`
}

// Result is one sampled computation with its processed topological levels.
type Result struct {
	SampleID int           `json:"sample_id"`
	Function FunctionInfo  `json:"function"`
	Levels   []LevelRecord `json:"reasoning_path_topological_levels,omitempty"`
}

// Document is a full reasoning document: a reference computation, many
// sampled variants, and the factual assignment both are evaluated under.
type Document struct {
	Config            map[string]any     `json:"config,omitempty"`
	FactualAssignment map[string]float64 `json:"factual_assignment,omitempty"`
	GroundTruth       *GroundTruth       `json:"ground_truth_function,omitempty"`
	Results           []*Result          `json:"results,omitempty"`
}

// NewStepRecord converts a step into its persisted form. Empty dependency
// sets become empty JSON arrays, never null, to match the legacy encoding.
func NewStepRecord(s *path.Step) StepRecord {
	rec := StepRecord{
		StepID:            s.StepID,
		Variable:          s.Variable,
		Expression:        s.Expression,
		Dependencies:      make([]int, 0, len(s.Dependencies)),
		DependenciesInput: make([]string, 0, len(s.DependenciesInput)),
	}
	rec.Dependencies = append(rec.Dependencies, s.Dependencies...)
	rec.DependenciesInput = append(rec.DependenciesInput, s.DependenciesInput...)
	return rec
}

// NewLevelRecords converts a computed layering into its persisted form.
func NewLevelRecords(levels []path.Level) []LevelRecord {
	records := make([]LevelRecord, 0, len(levels))
	for _, lv := range levels {
		rec := LevelRecord{Level: lv.Level, Steps: make([]StepRecord, 0, len(lv.Steps))}
		for _, s := range lv.Steps {
			rec.Steps = append(rec.Steps, NewStepRecord(s))
		}
		records = append(records, rec)
	}
	return records
}
