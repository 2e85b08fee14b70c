package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proctrim/internal/cache"
	"github.com/ppiankov/proctrim/internal/extract"
	"github.com/ppiankov/proctrim/internal/model"
)

var (
	extractOut     string
	extractNoCache bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <pdf-or-dir>",
	Short: "Extract page text from source PDFs",
	Long: `Extract reads one PDF, or every PDF under a directory, and writes a
page-structured text JSON artifact per paper into the text directory.

Extraction results are cached by the sha256 of the PDF bytes, so re-running
over an unchanged corpus is cheap.

Example:
  proctrim extract data/pdf_original
  proctrim extract data/pdf_original/11849_paper.pdf --out data/extraction_json/text`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractOut, "out", "", "output directory (default: configured text dir)")
	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "disable the extraction cache")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outDir := extractOut
	if outDir == "" {
		outDir = cfg.Paths.TextDir
	}

	paths, err := collectPDFs(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found under %s", args[0])
	}

	extractor := extract.NewPDFExtractor(buildCache(cfg), cfg.Cache.TTL)

	failed := 0
	for _, path := range paths {
		rec, err := extractor.Extract(path)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "extract %s: %v\n", path, err)
			continue
		}
		written, err := extract.WriteRecord(rec, outDir)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			continue
		}
		if cfg.Output.Verbose {
			ocr := ""
			if rec.NeedsOCR {
				ocr = " (needs OCR)"
			}
			fmt.Fprintf(os.Stderr, "%s: %d pages%s -> %s\n", rec.PaperID, rec.NPages, ocr, written)
		}
	}

	fmt.Fprintf(os.Stderr, "Extracted %d/%d documents into %s\n", len(paths)-failed, len(paths), outDir)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(paths))
	}
	return nil
}

// collectPDFs resolves the argument to a sorted list of PDF paths.
func collectPDFs(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", arg, err)
	}
	if !info.IsDir() {
		return []string{arg}, nil
	}

	paths, err := filepath.Glob(filepath.Join(arg, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", arg, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// buildCache creates the extraction cache per configuration. Returns nil
// when caching is disabled.
func buildCache(cfg *model.Config) cache.Cache {
	if extractNoCache || !cfg.Cache.Enabled {
		return nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
		}
		dir = filepath.Join(home, ".proctrim", "cache")
	}
	return cache.NewLayeredCache(cfg.Cache.TTL, dir, cfg.Cache.TTL)
}
