package registry

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/proctrim/internal/model"
)

var artifactRegistryHeader = []string{
	"paper_id",
	"covidence_id",
	"title",
	"reference_present",
	"pdf_present",
	"pdf_paths",
	"text_json_present",
	"text_json_path",
	"text_trimmed_present",
	"text_trimmed_path",
	"artifact_types",
	"generated_at_utc",
}

// ArtifactInventory captures which artifacts exist for every known paper ID:
// the reference row, downloaded PDFs, the text extraction JSON, and the
// trimmed JSON.
type ArtifactInventory struct {
	References map[string]model.Reference
	PDFs       map[string][]string
	TextJSON   map[string]string
	Trimmed    map[string]string
}

// ScanArtifacts inventories the artifact directories configured in paths.
// Missing directories contribute nothing rather than failing: partially
// populated data trees are the normal state mid-pipeline.
func ScanArtifacts(paths model.PathsConfig, refs map[string]model.Reference) (*ArtifactInventory, error) {
	inv := &ArtifactInventory{
		References: refs,
		PDFs:       make(map[string][]string),
		TextJSON:   make(map[string]string),
		Trimmed:    make(map[string]string),
	}

	pdfs, err := globOrEmpty(filepath.Join(paths.PDFDir, "*.pdf"))
	if err != nil {
		return nil, err
	}
	for _, path := range pdfs {
		id := paperIDFromFilename(filepath.Base(path))
		inv.PDFs[id] = append(inv.PDFs[id], path)
	}

	for dir, target := range map[string]map[string]string{
		paths.TextDir:    inv.TextJSON,
		paths.TrimmedDir: inv.Trimmed,
	} {
		files, err := globOrEmpty(filepath.Join(dir, "*.json"))
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			stem := strings.TrimSuffix(filepath.Base(path), ".json")
			target[stem] = path
		}
	}
	return inv, nil
}

// BuildArtifactRegistry writes the per-paper artifact presence registry.
func BuildArtifactRegistry(inv *ArtifactInventory, outPath string, generatedAt time.Time) error {
	ids := make(map[string]struct{})
	for id := range inv.References {
		ids[id] = struct{}{}
	}
	for id := range inv.PDFs {
		ids[id] = struct{}{}
	}
	for id := range inv.TextJSON {
		ids[id] = struct{}{}
	}
	for id := range inv.Trimmed {
		ids[id] = struct{}{}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create artifact registry: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(artifactRegistryHeader); err != nil {
		return fmt.Errorf("write artifact registry header: %w", err)
	}

	timestamp := generatedAt.UTC().Format(time.RFC3339)
	for _, id := range sortPaperIDs(ids) {
		ref, hasRef := inv.References[id]
		pdfPaths := inv.PDFs[id]
		textPath := inv.TextJSON[id]
		trimmedPath := inv.Trimmed[id]

		var types []string
		if hasRef {
			types = append(types, "reference")
		}
		if len(pdfPaths) > 0 {
			types = append(types, "pdf")
		}
		if textPath != "" {
			types = append(types, "text")
		}
		if trimmedPath != "" {
			types = append(types, "text_trimmed")
		}

		record := []string{
			id,
			ref.CovidenceID,
			ref.Title,
			strconv.FormatBool(hasRef),
			strconv.FormatBool(len(pdfPaths) > 0),
			strings.Join(pdfPaths, " | "),
			strconv.FormatBool(textPath != ""),
			textPath,
			strconv.FormatBool(trimmedPath != ""),
			trimmedPath,
			strings.Join(types, " | "),
			timestamp,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write artifact registry row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush artifact registry: %w", err)
	}
	return f.Close()
}

// sortPaperIDs orders numeric IDs numerically and everything else
// lexically after them.
func sortPaperIDs(ids map[string]struct{}) []string {
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool {
		ni, iNum := strconv.Atoi(sorted[i])
		nj, jNum := strconv.Atoi(sorted[j])
		switch {
		case iNum == nil && jNum == nil:
			return ni < nj
		case iNum == nil:
			return true
		case jNum == nil:
			return false
		default:
			return sorted[i] < sorted[j]
		}
	})
	return sorted
}

// paperIDFromFilename extracts the leading paper ID from a prefixed
// filename like "11849_Stiff person syndrome.pdf".
func paperIDFromFilename(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if idx := strings.Index(stem, "_"); idx >= 0 {
		return strings.TrimSpace(stem[:idx])
	}
	return strings.TrimSpace(stem)
}

func globOrEmpty(pattern string) ([]string, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}
	sort.Strings(files)
	return files, nil
}
