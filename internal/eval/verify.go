package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/akarpov/reasonpath/internal/path"
)

// Mismatch is one return variable whose original and simplified values
// disagree beyond the tolerance.
type Mismatch struct {
	Variable   string
	Original   cty.Value
	Simplified cty.Value
}

// MismatchError reports that a simplified path does not reproduce the
// original path's return values. It is a verification failure, not a parser
// bug, and is surfaced per item so batch processing continues.
type MismatchError struct {
	Mismatches []Mismatch
}

func (e *MismatchError) Error() string {
	parts := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		parts[i] = fmt.Sprintf("%s: %s != %s", m.Variable, m.Original.GoString(), m.Simplified.GoString())
	}
	return "evaluation mismatch: " + strings.Join(parts, "; ")
}

// VerifyEquivalence evaluates both paths on the same binding and checks
// that every return variable declared by the original computes the same
// value in the simplified path, within the floating-point tolerance.
func VerifyEquivalence(original, simplified *path.Path, binding map[string]cty.Value, tolerance float64) error {
	origVals, err := Run(original, binding)
	if err != nil {
		return fmt.Errorf("evaluating original: %w", err)
	}
	simpVals, err := Run(simplified, binding)
	if err != nil {
		return fmt.Errorf("evaluating simplified: %w", err)
	}

	var mismatches []Mismatch
	for _, rv := range original.ReturnVars() {
		got, ok := simpVals[rv]
		if !ok {
			mismatches = append(mismatches, Mismatch{Variable: rv, Original: origVals[rv], Simplified: cty.NilVal})
			continue
		}
		if !withinTolerance(origVals[rv], got, tolerance) {
			mismatches = append(mismatches, Mismatch{Variable: rv, Original: origVals[rv], Simplified: got})
		}
	}
	if len(mismatches) > 0 {
		return &MismatchError{Mismatches: mismatches}
	}
	return nil
}

func withinTolerance(a, b cty.Value, tolerance float64) bool {
	if a.Type() == cty.Number && b.Type() == cty.Number {
		af, _ := a.AsBigFloat().Float64()
		bf, _ := b.AsBigFloat().Float64()
		return math.Abs(af-bf) <= tolerance
	}
	return a.RawEquals(b)
}
