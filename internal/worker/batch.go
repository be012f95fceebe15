package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vgauthier/recevo/internal/model"
)

// Analyzer screens one claim document from disk
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string, meta model.ClaimMetadata) (*model.Analysis, error)
}

// ClaimJob screens one claim file
type ClaimJob struct {
	Path     string
	Meta     model.ClaimMetadata
	Analyzer Analyzer
	Limiter  *Limiter
}

// Execute runs the screening for one file
func (j *ClaimJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, BucketAnalyze); err != nil {
			return &ClaimResult{Path: j.Path, Error: err}
		}
	}

	analysis, err := j.Analyzer.AnalyzeFile(ctx, j.Path, j.Meta)
	if err != nil {
		return &ClaimResult{Path: j.Path, Error: err}
	}
	return &ClaimResult{Path: j.Path, Analysis: analysis}
}

// ClaimResult is the outcome of screening one claim file
type ClaimResult struct {
	Path     string
	Analysis *model.Analysis
	Error    error
}

// GetError returns the error from the screening, if any
func (r *ClaimResult) GetError() error {
	return r.Error
}

// BatchProcessor screens a set of claim files concurrently. The same
// metadata applies to every file in the run; per-claim metadata goes
// through the single-document path.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. A positive
// requestsPerSecond throttles the run, which matters when an LLM
// provider sits behind the analyzer.
func NewBatchProcessor(analyzer Analyzer, concurrency int, requestsPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}

	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessFiles screens the given claim files concurrently. Results
// come back sorted by path regardless of completion order.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string, meta model.ClaimMetadata) []*ClaimResult {
	if len(paths) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&ClaimJob{
			Path:     path,
			Meta:     meta,
			Analyzer: b.analyzer,
			Limiter:  b.limiter,
		})
	}

	results := pool.Wait()

	claimResults := make([]*ClaimResult, len(results))
	for i, result := range results {
		claimResults[i] = result.(*ClaimResult)
	}
	sort.Slice(claimResults, func(i, j int) bool {
		return claimResults[i].Path < claimResults[j].Path
	})

	return claimResults
}

// ProcessDir screens every claim file found under dir
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string, meta model.ClaimMetadata) ([]*ClaimResult, error) {
	paths, err := CollectClaimFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("collect claim files: %w", err)
	}

	return b.ProcessFiles(ctx, paths, meta), nil
}

// claimExtensions are the document formats the loader understands
var claimExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// CollectClaimFiles walks dir and returns the claim documents in it,
// sorted. Hidden files and unknown extensions are skipped.
func CollectClaimFiles(dir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if claimExtensions[strings.ToLower(filepath.Ext(name))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}
