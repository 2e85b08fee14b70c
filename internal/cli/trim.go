package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proctrim/internal/model"
	"github.com/ppiankov/proctrim/internal/pipeline"
	"github.com/ppiankov/proctrim/internal/registry"
)

var trimRefsCSV string

// trimCmd represents the trim command
var trimCmd = &cobra.Command{
	Use:   "trim <text-json>",
	Short: "Trim a single extracted document",
	Long: `Trim runs proceedings detection and abstract matching on one
extracted-text JSON artifact. When the document is a proceedings volume
and the target abstract is found with sufficient confidence, the trimmed
artifact is written to the trimmed directory; otherwise nothing is
written and the decision explains why.

Example:
  proctrim trim data/extraction_json/text/11849.json
  proctrim trim data/extraction_json/text/11849.json --refs data/references/references_export.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runTrim,
}

func init() {
	rootCmd.AddCommand(trimCmd)

	trimCmd.Flags().StringVar(&trimRefsCSV, "refs", "", "references CSV (default: configured path)")
}

func runTrim(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	refs, err := loadReferences(cfg)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, refs)
	row, err := p.ProcessPath(args[0])
	if err != nil {
		return fmt.Errorf("trim failed: %w", err)
	}

	printDecision(row)
	return nil
}

func loadReferences(cfg *model.Config) (map[string]model.Reference, error) {
	path := trimRefsCSV
	if path == "" {
		path = cfg.Paths.ReferencesCSV
	}
	refs, err := registry.LoadReferences(path)
	if err != nil {
		return nil, fmt.Errorf("load references: %w", err)
	}
	return refs, nil
}

func printDecision(row *model.DecisionRow) {
	fmt.Printf("paper_id:    %s\n", row.PaperID)
	fmt.Printf("status:      %s\n", row.TrimStatus)
	fmt.Printf("reason:      %s\n", row.TrimReason)
	fmt.Printf("detected:    %v (pages=%d, blocks=%d, markers=%d)\n",
		row.Signals.ProceedingsDetected, row.Signals.NPages,
		row.Signals.AbstractBlockCount, row.Signals.ProgramMarkerCount)
	if row.HasBlock {
		fmt.Printf("best block:  %s %q\n", row.MatchedBlockCode, row.MatchedBlockTitle)
		fmt.Printf("scores:      title=%.4f author=%.4f match=%.4f\n",
			row.TitleScore, row.AuthorScore, row.MatchScore)
	}
	if row.TrimmedTextJSONPath != "" {
		fmt.Printf("artifact:    %s\n", row.TrimmedTextJSONPath)
	}
	if row.TrimStatus == model.StatusManualReview {
		fmt.Fprintln(os.Stderr, "Manual review required; no artifact written.")
	}
}
