package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proctrim/internal/model"
	"github.com/ppiankov/proctrim/internal/pipeline"
	"github.com/ppiankov/proctrim/internal/registry"
	"github.com/ppiankov/proctrim/internal/worker"
)

var (
	concurrency   int
	batchTimeout  time.Duration
	batchListFile string
	batchRegistry string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [text-dir]",
	Short: "Trim every extracted document and write the decision registry",
	Long: `Batch runs the trim pipeline over every extracted-text artifact in
the text directory (or a directory given as the argument), in parallel,
and writes the decision registry CSV when done.

One corrupt document never aborts the batch; its failure is reported and
the rest of the corpus proceeds.

Example:
  proctrim batch
  proctrim batch data/extraction_json/text --concurrency 8
  proctrim batch --file paths.txt --registry out/registry.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchListFile, "file", "", "file listing artifact paths (one per line)")
	batchCmd.Flags().StringVar(&batchRegistry, "registry", "", "decision registry output (default: configured path)")
	batchCmd.Flags().StringVar(&trimRefsCSV, "refs", "", "references CSV (default: configured path)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	refs, err := loadReferences(cfg)
	if err != nil {
		return err
	}

	textDir := cfg.Paths.TextDir
	if len(args) == 1 {
		textDir = args[0]
	}
	registryPath := batchRegistry
	if registryPath == "" {
		registryPath = cfg.Paths.TrimRegistryPath
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	p := pipeline.New(cfg, refs)
	limiter := worker.NewLimiter(cfg.RateLimiting.DocsPerSecond, cfg.RateLimiting.BurstSize)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers, limiter)

	var results []*worker.TrimResult
	if batchListFile != "" {
		results, err = processor.ProcessFile(ctx, batchListFile)
	} else {
		results, err = processor.ProcessDir(ctx, textDir)
	}
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}
	if results == nil {
		return fmt.Errorf("batch cancelled: %w", ctx.Err())
	}

	var rows []*model.DecisionRow
	counts := map[model.TrimStatus]int{}
	failed := 0

	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "failed %s: %v\n", result.Path, result.Error)
			continue
		}
		rows = append(rows, result.Row)
		counts[result.Row.TrimStatus]++
	}

	if err := registry.WriteTrimRegistry(rows, registryPath); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processed %d documents: %d not_needed, %d trimmed_auto, %d manual_review, %d failed\n",
		len(results), counts[model.StatusNotNeeded], counts[model.StatusTrimmedAuto],
		counts[model.StatusManualReview], failed)
	fmt.Fprintf(os.Stderr, "Registry: %s\n", registryPath)

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}
