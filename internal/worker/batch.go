package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/proctrim/internal/model"
)

// Processor turns one extracted-text artifact into a trim decision.
type Processor interface {
	ProcessPath(path string) (*model.DecisionRow, error)
}

// TrimJob processes a single document through the trim pipeline.
type TrimJob struct {
	Path      string
	Processor Processor
}

// Execute runs the job. A failing document never aborts the batch; the
// error travels in the result.
func (j *TrimJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &TrimResult{Path: j.Path, Error: err}
	}
	row, err := j.Processor.ProcessPath(j.Path)
	return &TrimResult{
		Path:  j.Path,
		Row:   row,
		Error: err,
	}
}

// TrimResult is the outcome for one document.
type TrimResult struct {
	Path  string
	Row   *model.DecisionRow
	Error error
}

// GetError returns the processing error, if any.
func (r *TrimResult) GetError() error {
	return r.Error
}

// BatchProcessor runs the trim pipeline over many documents concurrently.
type BatchProcessor struct {
	processor   Processor
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. A nil limiter disables
// dispatch pacing.
func NewBatchProcessor(processor Processor, concurrency int, limiter *Limiter) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessPaths processes the given artifact paths concurrently. Results
// come back sorted by path so registry output is stable across runs.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*TrimResult {
	if len(paths) == 0 {
		return []*TrimResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		if err := b.limiter.Wait(ctx); err != nil {
			pool.Shutdown()
			return nil
		}
		pool.Submit(&TrimJob{
			Path:      path,
			Processor: b.processor,
		})
	}

	results := pool.Wait()

	trimResults := make([]*TrimResult, len(results))
	for i, result := range results {
		trimResults[i] = result.(*TrimResult)
	}
	sort.Slice(trimResults, func(i, j int) bool {
		return trimResults[i].Path < trimResults[j].Path
	})

	return trimResults
}

// ProcessDir processes every extracted-text JSON artifact under dir.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*TrimResult, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return b.ProcessPaths(ctx, paths), nil
}

// ProcessFile reads artifact paths from a list file and processes them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*TrimResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read path list: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads one path per line, skipping blanks and
// #-comments, and dropping duplicates.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
