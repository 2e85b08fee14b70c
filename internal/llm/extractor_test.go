package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/proctrim/internal/model"
)

type stubProvider struct {
	sections map[string]string
	err      error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *stubProvider) ExtractSections(ctx context.Context, req SectionsRequest) (*SectionsResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &SectionsResponse{Sections: p.sections, Model: "stub-model"}, nil
}

func trimmedRecord() *model.TrimmedRecord {
	return &model.TrimmedRecord{
		PaperID:           "11849",
		MatchedBlockTitle: "Stiff person syndrome",
		Pages: []model.Page{
			{PageIndex: 1, Text: "A 45-year-old woman presented with progressive rigidity.\nMRI of the spine was unremarkable."},
			{PageIndex: 2, Text: "Treatment with IVIG led to marked improvement."},
		},
	}
}

func TestExtractRecord_KeepsGroundedSnippets(t *testing.T) {
	provider := &stubProvider{sections: map[string]string{
		"clinical_presentation": "A 45-year-old woman presented with progressive rigidity.",
		"diagnostics":           "MRI of the   spine was unremarkable.", // spacing noise tolerated
		"treatment":             "Treatment with IVIG led to marked improvement.",
		"outcome":               "",
		"limitations":           "",
	}}

	e := NewExtractor(provider)
	e.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	rec, err := e.ExtractRecord(context.Background(), trimmedRecord())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if rec.Sections["clinical_presentation"] == "" || rec.Sections["treatment"] == "" {
		t.Error("grounded snippets should survive")
	}
	if rec.Sections["diagnostics"] == "" {
		t.Error("whitespace differences should not fail grounding")
	}
	if rec.ExtractedAtUTC != "2026-03-01T12:00:00Z" {
		t.Errorf("unexpected timestamp %q", rec.ExtractedAtUTC)
	}
	if rec.Model != "stub-model" {
		t.Errorf("unexpected model %q", rec.Model)
	}
}

func TestExtractRecord_DiscardsParaphrases(t *testing.T) {
	provider := &stubProvider{sections: map[string]string{
		"clinical_presentation": "The patient had stiffness.", // not a quote
		"treatment":             "Treatment with IVIG led to marked improvement.",
	}}

	e := NewExtractor(provider)
	rec, err := e.ExtractRecord(context.Background(), trimmedRecord())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if rec.Sections["clinical_presentation"] != "" {
		t.Error("paraphrased snippet should be discarded")
	}
	if rec.Sections["treatment"] == "" {
		t.Error("quoted snippet should survive")
	}
	// Every section name is present in the artifact, empty or not.
	for _, name := range SectionNames {
		if _, ok := rec.Sections[name]; !ok {
			t.Errorf("section %q missing from artifact", name)
		}
	}
}

func TestExtractRecord_EmptyText(t *testing.T) {
	e := NewExtractor(&stubProvider{})
	rec := &model.TrimmedRecord{PaperID: "778"}
	if _, err := e.ExtractRecord(context.Background(), rec); err == nil {
		t.Fatal("expected an error for a record without text")
	}
}

func TestParseSections(t *testing.T) {
	content := "```json\n{\"clinical_presentation\": \"a quote\", \"bogus\": \"ignored\", \"outcome\": \" trailing \"}\n```"
	sections, err := parseSections(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sections["clinical_presentation"] != "a quote" {
		t.Errorf("unexpected snippet %q", sections["clinical_presentation"])
	}
	if sections["outcome"] != "trailing" {
		t.Errorf("snippet should be trimmed, got %q", sections["outcome"])
	}
	if _, ok := sections["bogus"]; ok {
		t.Error("unknown keys should be dropped")
	}

	if _, err := parseSections("not json"); err == nil {
		t.Error("expected an error for malformed replies")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("A title", "Abstract body text.")
	for _, name := range SectionNames {
		if !strings.Contains(prompt, name) {
			t.Errorf("prompt missing section %q", name)
		}
	}
	if !strings.Contains(prompt, "Abstract body text.") {
		t.Error("prompt missing the abstract text")
	}
}

func TestNewProvider(t *testing.T) {
	if p, err := NewProvider(Config{}); p != nil || err != nil {
		t.Errorf("empty provider should disable extraction, got %v, %v", p, err)
	}
	if _, err := NewProvider(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Error("expected an error for an unknown provider")
	}
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("expected an error without an API key")
	}
	if p, err := NewProvider(Config{Provider: "openai", APIKey: "sk-test"}); err != nil || p == nil {
		t.Errorf("expected a provider, got %v, %v", p, err)
	}
}
