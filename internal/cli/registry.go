package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proctrim/internal/registry"
)

var registryOut string

// registryCmd represents the registry command
var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Build the per-paper artifact presence registry",
	Long: `Registry joins the reference export with the PDF, extracted-text and
trimmed-text directories into one CSV: for every known paper ID, which
artifacts exist and where.

Example:
  proctrim registry
  proctrim registry --out data/references/paper_artifact_registry.csv`,
	RunE: runRegistry,
}

func init() {
	rootCmd.AddCommand(registryCmd)

	registryCmd.Flags().StringVar(&registryOut, "out", "", "output CSV (default: configured path)")
	registryCmd.Flags().StringVar(&trimRefsCSV, "refs", "", "references CSV (default: configured path)")
}

func runRegistry(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	refs, err := loadReferences(cfg)
	if err != nil {
		return err
	}

	outPath := registryOut
	if outPath == "" {
		outPath = cfg.Paths.ArtifactRegistryPath
	}

	inv, err := registry.ScanArtifacts(cfg.Paths, refs)
	if err != nil {
		return fmt.Errorf("scan artifacts: %w", err)
	}

	if err := registry.BuildArtifactRegistry(inv, outPath, time.Now()); err != nil {
		return fmt.Errorf("build registry: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Artifact registry: %s (%d references, %d PDFs, %d text, %d trimmed)\n",
		outPath, len(inv.References), len(inv.PDFs), len(inv.TextJSON), len(inv.Trimmed))
	return nil
}
