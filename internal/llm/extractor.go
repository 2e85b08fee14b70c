package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/proctrim/internal/model"
)

// SectionRecord is the per-paper section artifact.
type SectionRecord struct {
	PaperID        string            `json:"paper_id"`
	Model          string            `json:"model"`
	ExtractedAtUTC string            `json:"extracted_at_utc"`
	Sections       map[string]string `json:"sections"`
}

// Extractor runs section extraction over trimmed abstract records. It never
// feeds anything back into trim decisions.
type Extractor struct {
	provider Provider
	now      func() time.Time
}

// NewExtractor creates an extractor over the given provider.
func NewExtractor(provider Provider) *Extractor {
	return &Extractor{
		provider: provider,
		now:      time.Now,
	}
}

// ExtractRecord extracts sections from one trimmed record. Snippets that
// cannot be located verbatim in the source text are discarded: a section
// the model paraphrased is worth less than an empty one.
func (e *Extractor) ExtractRecord(ctx context.Context, rec *model.TrimmedRecord) (*SectionRecord, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	text := joinPages(rec.Pages)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("trimmed record %s has no text", rec.PaperID)
	}

	resp, err := e.provider.ExtractSections(ctx, SectionsRequest{
		PaperID: rec.PaperID,
		Title:   rec.MatchedBlockTitle,
		Text:    text,
	})
	if err != nil {
		return nil, err
	}

	sections := make(map[string]string, len(SectionNames))
	for _, name := range SectionNames {
		snippet := resp.Sections[name]
		if snippet != "" && !grounded(text, snippet) {
			snippet = ""
		}
		sections[name] = snippet
	}

	return &SectionRecord{
		PaperID:        rec.PaperID,
		Model:          resp.Model,
		ExtractedAtUTC: e.now().UTC().Format(time.RFC3339),
		Sections:       sections,
	}, nil
}

// WriteRecord writes the section artifact as <paper_id>.json under dir.
func WriteRecord(rec *SectionRecord, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create sections directory: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal section record: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, rec.PaperID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write section record: %w", err)
	}
	return path, nil
}

// grounded reports whether snippet occurs in text, ignoring case and
// whitespace runs. PDF extraction mangles spacing, so exact matching would
// reject honest quotes.
func grounded(text, snippet string) bool {
	return strings.Contains(squash(text), squash(snippet))
}

func squash(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func joinPages(pages []model.Page) string {
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, page.Text)
	}
	return strings.Join(parts, "\n")
}
