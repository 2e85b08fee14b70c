package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proctrim/internal/llm"
	"github.com/ppiankov/proctrim/internal/model"
)

var (
	sectionsProvider string
	sectionsModel    string
	sectionsOut      string
)

// sectionsCmd represents the sections command
var sectionsCmd = &cobra.Command{
	Use:   "sections [trimmed-dir]",
	Short: "Extract labeled sections from trimmed abstracts via an LLM",
	Long: `Sections runs an LLM over every trimmed abstract artifact and pulls
out labeled, verbatim snippets (clinical presentation, diagnostics,
treatment, outcome, limitations). Snippets the model cannot quote from
the source are discarded.

This step is optional and purely additive: it never changes trim
decisions or trimmed artifacts.

Example:
  proctrim sections --llm-provider openai --llm-model gpt-4o-mini
  proctrim sections data/extraction_json/text_trimmed --out data/extraction_json/sections`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSections,
}

func init() {
	rootCmd.AddCommand(sectionsCmd)

	sectionsCmd.Flags().StringVar(&sectionsProvider, "llm-provider", "openai", "LLM provider (openai)")
	sectionsCmd.Flags().StringVar(&sectionsModel, "llm-model", "", "LLM model name")
	sectionsCmd.Flags().StringVar(&sectionsOut, "out", "data/extraction_json/sections", "output directory for section artifacts")
}

func runSections(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if sectionsProvider != "" {
		cfg.LLM.Provider = sectionsProvider
	}
	if sectionsModel != "" {
		cfg.LLM.Model = sectionsModel
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}
	if provider == nil {
		return fmt.Errorf("no LLM provider configured; pass --llm-provider or set llm.provider")
	}

	trimmedDir := cfg.Paths.TrimmedDir
	if len(args) == 1 {
		trimmedDir = args[0]
	}

	paths, err := filepath.Glob(filepath.Join(trimmedDir, "*.json"))
	if err != nil {
		return fmt.Errorf("scan %s: %w", trimmedDir, err)
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return fmt.Errorf("no trimmed artifacts under %s", trimmedDir)
	}

	extractor := llm.NewExtractor(provider)
	ctx := context.Background()

	failed := 0
	for _, path := range paths {
		rec, err := readTrimmedRecord(path)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			continue
		}
		sections, err := extractor.ExtractRecord(ctx, rec)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "sections %s: %v\n", rec.PaperID, err)
			continue
		}
		written, err := llm.WriteRecord(sections, sectionsOut)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "write %s: %v\n", rec.PaperID, err)
			continue
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "%s -> %s\n", rec.PaperID, written)
		}
	}

	fmt.Fprintf(os.Stderr, "Sections extracted for %d/%d abstracts into %s\n",
		len(paths)-failed, len(paths), sectionsOut)
	if failed > 0 {
		return fmt.Errorf("%d of %d abstracts failed", failed, len(paths))
	}
	return nil
}

func readTrimmedRecord(path string) (*model.TrimmedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec model.TrimmedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &rec, nil
}
