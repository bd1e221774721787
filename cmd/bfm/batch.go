package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-bfm"
)

// dirPermissions is the mode of created output directories.
const dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// FileResult holds the outcome of processing one file.
type FileResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// processBatch processes files concurrently, one pooled Processor per
// in-flight file. Results keep the order of files.
func processBatch(ctx context.Context, pool *bfm.ProcessorPool, files []FileJob, p *commandParams) []FileResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]FileResult, len(files))
	var g errgroup.Group
	g.SetLimit(min(pool.Size(), len(files)))
	for i, f := range files {
		g.Go(func() error {
			results[i] = processFile(ctx, pool, f, p)
			return nil
		})
	}
	_ = g.Wait() // per-file errors live in results
	return results
}

// processFile processes one file and writes its output.
func processFile(ctx context.Context, pool *bfm.ProcessorPool, f FileJob, p *commandParams) (result FileResult) {
	start := p.now()
	result = FileResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	defer func() { result.Duration = p.now().Sub(start) }()

	proc, err := pool.Acquire(ctx)
	if err != nil {
		result.Err = err
		return result
	}
	defer pool.Release(proc)

	src, err := os.ReadFile(f.InputPath)
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrReadInput, err)
		return result
	}

	out, err := execute(ctx, proc, p, src)
	if err == nil {
		out, err = relocateOutput(p, out, f.InputPath, f.OutputPath)
	}
	if err != nil {
		result.Err = err
		return result
	}

	if err := writeOutput(f.OutputPath, out, nil); err != nil {
		result.Err = err
		return result
	}

	p.logger.Debug("file processed", slog.String("input", f.InputPath), slog.String("output", f.OutputPath))
	return result
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed files.
func countResults(results []FileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs batch results and returns an error wrapping the
// first failure, if any.
func printResults(results []FileResult, quiet, verbose bool, env *Environment) error {
	summary := countResults(results)

	var firstErr error
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if firstErr != nil {
		return fmt.Errorf("%d of %d files failed: %w", summary.Failed, len(results), firstErr)
	}
	return nil
}
