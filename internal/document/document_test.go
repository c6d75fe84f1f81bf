package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelRecordEncodesAsPair(t *testing.T) {
	rec := LevelRecord{
		Level: 0,
		Steps: []StepRecord{{
			StepID:            1,
			Variable:          "x",
			Expression:        "a + b",
			Dependencies:      []int{},
			DependenciesInput: []string{"a", "b"},
		}},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `[0, [{
		"step_id": 1,
		"variable": "x",
		"expression": "a + b",
		"dependencies": [],
		"dependencies_input": ["a", "b"]
	}]]`, string(data))

	var decoded LevelRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec, decoded)
}

func TestLevelRecordRejectsWrongArity(t *testing.T) {
	var rec LevelRecord
	err := json.Unmarshal([]byte(`[0, [], "extra"]`), &rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pair")
}

func TestGroundTruthAcceptsBareString(t *testing.T) {
	var doc Document
	raw := `{"ground_truth_function": "x = a + b\nreturn x"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.NotNil(t, doc.GroundTruth)
	assert.Equal(t, "x = a + b\nreturn x", doc.GroundTruth.FunctionStr)
}

func TestGroundTruthAcceptsObject(t *testing.T) {
	var doc Document
	raw := `{"ground_truth_function": {"function_str": "x = a\nreturn x"}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.NotNil(t, doc.GroundTruth)
	assert.Equal(t, "x = a\nreturn x", doc.GroundTruth.FunctionStr)
}

func TestDocumentRoundTrip(t *testing.T) {
	raw := `{
		"config": {"model": "test"},
		"factual_assignment": {"a": 3, "b": 4},
		"ground_truth_function": {"function_str": "x = a + b\nreturn x"},
		"results": [
			{"sample_id": 0, "function": {"function_str": "y = a * b\nreturn y"}}
		]
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, map[string]float64{"a": 3, "b": 4}, doc.FactualAssignment)
	require.Len(t, doc.Results, 1)
	assert.Equal(t, 0, doc.Results[0].SampleID)

	data, err := json.Marshal(&doc)
	require.NoError(t, err)

	var again Document
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, doc, again)
}
