package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akarpov/reasonpath/internal/ctxlog"
	"github.com/akarpov/reasonpath/internal/document"
	"github.com/akarpov/reasonpath/internal/fsutil"
)

// Run executes the batch pipeline: discover input documents, process each
// one, and write the results to the output directory. One failing document
// does not stop the batch; Run only errors when nothing succeeds.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	files, err := fsutil.DiscoverFiles(a.config.InputPath, ".json")
	if err != nil {
		return fmt.Errorf("discovering input documents: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .json documents found under %s", a.config.InputPath)
	}
	a.logger.Info("Starting document processing.", "documents", len(files), "output_dir", a.runConf.Output.Dir)

	if err := os.MkdirAll(a.runConf.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	opts := document.Options{
		Simplify:  a.runConf.Analysis.Simplify,
		Verify:    a.runConf.Analysis.Verify,
		Tolerance: a.runConf.Analysis.Tolerance,
	}

	var processed, failed int
	for _, file := range files {
		if err := a.processDocument(ctx, file, opts); err != nil {
			a.logger.Error("Document failed.", "file", file, "error", err)
			failed++
			continue
		}
		processed++
	}

	a.logger.Info("Processing complete.", "processed", processed, "failed", failed)
	if processed == 0 && failed > 0 {
		return fmt.Errorf("all %d document(s) failed", failed)
	}
	return nil
}

func (a *App) processDocument(ctx context.Context, file string, opts document.Options) error {
	doc, err := document.Load(file)
	if err != nil {
		return err
	}

	summary := document.Process(ctx, doc, opts)
	for _, issue := range summary.Issues {
		a.logger.Warn("Computation skipped.", "file", file, "item", issue.Item, "error", issue.Err)
	}
	if summary.Processed == 0 && summary.Failed > 0 {
		return fmt.Errorf("no computation in %s could be processed", file)
	}

	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	stepsPath := filepath.Join(a.runConf.Output.Dir, base+"_steps.json")
	if err := document.Save(stepsPath, doc, a.runConf.Output.Indent); err != nil {
		return err
	}
	a.logger.Debug("Document written.", "file", stepsPath, "computations", summary.Processed)

	if a.runConf.Output.Merged {
		graph := document.MergeGraph(doc)
		graphPath := filepath.Join(a.runConf.Output.Dir, base+"_graph.json")
		if err := document.SaveGraph(graphPath, graph, a.runConf.Output.Indent); err != nil {
			return err
		}
		a.logger.Debug("Merged graph written.", "file", graphPath, "nodes", len(graph.Nodes))
	}
	return nil
}
