package document

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/akarpov/reasonpath/internal/ctxlog"
	"github.com/akarpov/reasonpath/internal/eval"
	"github.com/akarpov/reasonpath/internal/path"
)

// Options controls how a document's computations are processed.
type Options struct {
	// Simplify canonicalizes each path (alias elimination, dead-code
	// elimination, re-indexing) before leveling.
	Simplify bool
	// Verify re-evaluates original and simplified paths on the factual
	// assignment and reports disagreements.
	Verify bool
	// Tolerance is the absolute difference allowed by Verify.
	Tolerance float64
}

// DefaultOptions matches the historical conversion pipeline.
func DefaultOptions() Options {
	return Options{Simplify: true, Verify: true, Tolerance: 1e-6}
}

// Issue records a per-item failure. One bad computation never aborts the
// rest of the document.
type Issue struct {
	Item string
	Err  error
}

// Summary is the outcome of processing one document.
type Summary struct {
	Processed int
	Failed    int
	Issues    []Issue
}

// Process extracts, optionally simplifies and verifies, and levels every
// computation in the document, attaching the resulting level records in
// place. Parse failures, integrity violations, and evaluation mismatches
// are collected as issues while processing continues.
func Process(ctx context.Context, doc *Document, opts Options) *Summary {
	logger := ctxlog.FromContext(ctx)
	summary := &Summary{}

	// With no factual assignment, params stays nil so extraction falls back
	// to each function's own header parameters.
	var params []string
	if len(doc.FactualAssignment) > 0 {
		params = make([]string, 0, len(doc.FactualAssignment))
		for name := range doc.FactualAssignment {
			params = append(params, name)
		}
		sort.Strings(params)
	}
	binding := eval.NumberBinding(doc.FactualAssignment)

	if doc.GroundTruth != nil {
		levels, err := processFunction(ctx, "ground_truth", doc.GroundTruth.FunctionStr, params, binding, opts)
		if err != nil {
			summary.fail("ground_truth", err)
			logger.Error("processing ground truth failed", "error", err)
		} else {
			doc.GroundTruth.Levels = levels
			summary.Processed++
		}
	}

	for _, result := range doc.Results {
		item := fmt.Sprintf("sample_%d", result.SampleID)
		levels, err := processFunction(ctx, item, result.Function.FunctionStr, params, binding, opts)
		if err != nil {
			summary.fail(item, err)
			logger.Error("processing sample failed", "sample_id", result.SampleID, "error", err)
			continue
		}
		result.Levels = levels
		summary.Processed++
	}
	return summary
}

func processFunction(ctx context.Context, item, src string, params []string, binding map[string]cty.Value, opts Options) ([]LevelRecord, error) {
	logger := ctxlog.FromContext(ctx)

	p, err := path.Extract(ctx, src, params)
	if err != nil {
		return nil, err
	}

	leveled := p
	if opts.Simplify {
		leveled = p.Simplify()
		if opts.Verify && len(binding) > 0 {
			if err := eval.VerifyEquivalence(p, leveled, binding, opts.Tolerance); err != nil {
				var mismatch *eval.MismatchError
				if errors.As(err, &mismatch) {
					// A mismatch means the simplified reconstruction is not
					// trustworthy; report it and fall back to the original.
					logger.Warn("simplified path failed verification", "item", item, "error", err)
					return nil, err
				}
				// Evaluation itself failed (unknown function, missing
				// binding, ...). The layering is still valid; log and go on.
				logger.Debug("verification skipped", "item", item, "reason", err)
			}
		}
	}

	levels, err := leveled.Levels()
	if err != nil {
		var integrity *path.GraphIntegrityError
		if errors.As(err, &integrity) {
			// Never emit a partial layering as if it were complete.
			logger.Warn("graph integrity violation", "item", item, "missing", integrity.Missing)
		}
		return nil, err
	}
	return NewLevelRecords(levels), nil
}

func (s *Summary) fail(item string, err error) {
	s.Failed++
	s.Issues = append(s.Issues, Issue{Item: item, Err: err})
}
