// Package pipeline runs the batch: walk the input tree, parse files on a
// bounded worker pool, and write the per-document outputs plus the catalog
// index in one deterministic final phase.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dgallion1/jbooks/internal/catalog"
	"github.com/dgallion1/jbooks/internal/extract"
	"github.com/dgallion1/jbooks/internal/grid"
)

// Runner converts one input tree into the normalized output artifacts.
type Runner struct {
	workers     int
	maxGridRows int
	log         *slog.Logger
}

func NewRunner(workers, maxGridRows int, log *slog.Logger) *Runner {
	if workers <= 0 {
		workers = 4
	}
	return &Runner{workers: workers, maxGridRows: maxGridRows, log: log}
}

// fileResult is what one worker hands back for one input file.
type fileResult struct {
	path   string // input-relative, slash-separated
	format grid.SourceType
	doc    *grid.Document
	err    error
}

// Run performs the full walk-and-convert. A missing input root is an
// expected condition, not an error: the summary comes back empty and any
// previously generated output is left untouched.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (*Summary, error) {
	summary := newSummary()

	if _, err := os.Stat(inputDir); os.IsNotExist(err) {
		r.log.Info("input root does not exist, nothing to do", "dir", inputDir)
		return summary, nil
	}

	paths, err := collectFiles(inputDir)
	if err != nil {
		return nil, fmt.Errorf("walk input: %w", err)
	}
	r.log.Info("starting batch", "files", len(paths), "workers", r.workers)

	// Files are mutually independent; parse them on a bounded pool and
	// re-establish ordering afterwards.
	queue := make(chan string, len(paths))
	results := make(chan fileResult, len(paths))
	var wg sync.WaitGroup
	for range r.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range queue {
				select {
				case <-ctx.Done():
					results <- fileResult{path: rel, err: ctx.Err()}
					continue
				default:
				}
				results <- r.parseOne(inputDir, rel)
			}
		}()
	}
	for _, p := range paths {
		queue <- p
	}
	close(queue)
	wg.Wait()
	close(results)

	var docs []*grid.Document
	for res := range results {
		switch {
		case errors.Is(res.err, extract.ErrUnsupported):
			summary.Skipped++
		case res.err != nil:
			r.log.Error("parse failed", "path", res.path, "error", res.err)
			summary.addError(res.path, res.err)
		case res.doc == nil:
			r.log.Info("no extractable tables", "path", res.path)
			summary.Processed[string(res.format)]++
			summary.NoTables++
		default:
			summary.Processed[string(res.format)]++
			summary.Documents++
			summary.Grids += len(res.doc.Grids)
			docs = append(docs, res.doc)
		}
	}

	entries := catalog.Finalize(docs)
	if err := r.writeOutputs(outputDir, docs, entries); err != nil {
		return nil, err
	}
	return summary, nil
}

// parseOne reads and extracts a single file into a Document, or nil when
// the extractor recovered no non-empty grids.
func (r *Runner) parseOne(inputDir, rel string) fileResult {
	data, err := os.ReadFile(filepath.Join(inputDir, filepath.FromSlash(rel)))
	if err != nil {
		return fileResult{path: rel, err: fmt.Errorf("read: %w", err)}
	}
	grids, format, err := extract.Extract(rel, data, r.maxGridRows)
	if err != nil {
		return fileResult{path: rel, format: format, err: err}
	}
	if len(grids) == 0 {
		return fileResult{path: rel, format: format}
	}

	service, appropriation, label := catalog.Describe(rel)
	return fileResult{
		path:   rel,
		format: format,
		doc: &grid.Document{
			Service:       service,
			Appropriation: appropriation,
			Document:      label,
			SourceFile:    rel,
			Type:          format,
			Grids:         grids,
		},
	}
}

// writeOutputs is the single final write phase: one file per document
// plus the catalog index. Failures here are the only fatal condition.
func (r *Runner) writeOutputs(outputDir string, docs []*grid.Document, entries []catalog.Entry) error {
	docsDir := filepath.Join(outputDir, "documents")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, d := range docs {
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", d.ID, err)
		}
		path := filepath.Join(docsDir, d.ID+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write document %s: %w", d.ID, err)
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "catalog.json"), data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// collectFiles lists every regular file under root as a sorted,
// slash-separated relative path.
func collectFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
