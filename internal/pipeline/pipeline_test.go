package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/proctrim/internal/model"
)

func testPipeline(t *testing.T, refs map[string]model.Reference) *Pipeline {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Paths.TrimmedDir = t.TempDir()
	p := New(cfg, refs)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

// proceedingsRecord builds a 60-page proceedings document containing the
// target abstract among decoys.
func proceedingsRecord() *model.TextRecord {
	rec := &model.TextRecord{
		PaperID:        "11849",
		SourceFilename: "11849_Program-and-Abstracts.pdf",
		SourceSHA256:   "cafe1234",
		NPages:         60,
	}
	var front strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&front, "%d. Decoy abstract number %d about migraine\n", 200+i, i)
	}
	rec.Pages = append(rec.Pages, model.Page{PageIndex: 0, Text: front.String()})
	rec.Pages = append(rec.Pages, model.Page{PageIndex: 1, Text: strings.Join([]string{
		"101. Stiff Person Syndrome And Anti GAD Antibodies A Case Series",
		"J. Smith, MD, A. Doe, PhD, et al.",
		"Department of Neurology, University Hospital",
		"Background: we report three cases.",
		"Annals of Neurology Vol 88 (suppl)",
	}, "\n")})
	for i := 2; i < 60; i++ {
		rec.Pages = append(rec.Pages, model.Page{PageIndex: i, Text: "deep body text"})
	}
	return rec
}

func targetReference() map[string]model.Reference {
	return map[string]model.Reference{
		"11849": {
			CovidenceID: "11849",
			Title:       "Stiff person syndrome and anti-GAD antibodies: a case series",
			Authors:     "Smith, J.; Doe, A.",
		},
	}
}

func TestProcessRecord_TrimmedAuto(t *testing.T) {
	p := testPipeline(t, targetReference())
	rec := proceedingsRecord()

	row, err := p.ProcessRecord(rec, "text/11849.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if row.TrimStatus != model.StatusTrimmedAuto {
		t.Fatalf("expected trimmed_auto, got %s (%s)", row.TrimStatus, row.TrimReason)
	}
	if row.MatchedBlockCode != "101" {
		t.Errorf("expected block 101, got %q", row.MatchedBlockCode)
	}
	if row.TitleScore != 1.0 {
		t.Errorf("case/punctuation-only title should score 1.0, got %f", row.TitleScore)
	}
	if row.AuthorScore != 1.0 {
		t.Errorf("both surnames in preview should score 1.0, got %f", row.AuthorScore)
	}
	if row.TrimmedTextJSONPath == "" {
		t.Fatal("trimmed artifact path missing from the row")
	}

	var artifact model.TrimmedRecord
	data, err := os.ReadFile(row.TrimmedTextJSONPath)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatalf("artifact not valid JSON: %v", err)
	}
	if artifact.NPages == 0 || artifact.OriginalNPages != 60 {
		t.Errorf("unexpected artifact page counts: %+v", artifact)
	}

	// Round-trip containment: each trimmed page is a strict subset of the
	// corresponding source page.
	source := make(map[int]string)
	for _, page := range rec.Pages {
		source[page.PageIndex] = page.Text
	}
	for _, page := range artifact.Pages {
		for _, line := range strings.Split(page.Text, "\n") {
			if !strings.Contains(source[page.PageIndex], line) {
				t.Errorf("trimmed line %q not found on source page %d", line, page.PageIndex)
			}
		}
	}
}

func TestProcessRecord_Idempotent(t *testing.T) {
	p := testPipeline(t, targetReference())

	first, err := p.ProcessRecord(proceedingsRecord(), "text/11849.json")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	artifact1, err := os.ReadFile(first.TrimmedTextJSONPath)
	if err != nil {
		t.Fatalf("first artifact: %v", err)
	}

	second, err := p.ProcessRecord(proceedingsRecord(), "text/11849.json")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	artifact2, err := os.ReadFile(second.TrimmedTextJSONPath)
	if err != nil {
		t.Fatalf("second artifact: %v", err)
	}

	if *first != *second {
		t.Errorf("decision rows differ between identical runs:\n%+v\n%+v", first, second)
	}
	if string(artifact1) != string(artifact2) {
		t.Error("trimmed artifacts differ between identical runs")
	}
}

func TestProcessRecord_NotNeeded(t *testing.T) {
	p := testPipeline(t, targetReference())
	rec := &model.TextRecord{
		PaperID: "11849",
		NPages:  10,
		Pages: []model.Page{
			{PageIndex: 0, Text: "A standalone paper about one topic\nwith ordinary prose"},
		},
	}

	row, err := p.ProcessRecord(rec, "text/11849.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.TrimStatus != model.StatusNotNeeded {
		t.Errorf("expected not_needed, got %s", row.TrimStatus)
	}
	if row.HasBlock {
		t.Error("no blocks may be recorded when detection fails")
	}
	if row.TrimmedTextJSONPath != "" {
		t.Error("no artifact path for a not_needed outcome")
	}
}

func TestProcessRecord_StaleArtifactDeleted(t *testing.T) {
	p := testPipeline(t, targetReference())

	// First run trims and writes the artifact.
	row, err := p.ProcessRecord(proceedingsRecord(), "text/11849.json")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	artifactPath := row.TrimmedTextJSONPath

	// Reprocessing a now-short version of the document downgrades to
	// not_needed and must delete the stale artifact.
	short := &model.TextRecord{
		PaperID: "11849",
		NPages:  5,
		Pages:   []model.Page{{PageIndex: 0, Text: "just a short paper"}},
	}
	row, err = p.ProcessRecord(short, "text/11849.json")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if row.TrimStatus != model.StatusNotNeeded {
		t.Fatalf("expected not_needed, got %s", row.TrimStatus)
	}
	if _, err := os.Stat(artifactPath); !os.IsNotExist(err) {
		t.Error("stale trimmed artifact should have been deleted")
	}
}

func TestProcessRecord_ManualReviewLowConfidence(t *testing.T) {
	// Reference title unrelated to every block: best candidate exists but
	// fails the gate, and its scores are still recorded for follow-up.
	refs := map[string]model.Reference{
		"777": {CovidenceID: "777", Title: "Something entirely unrelated to neurology", Authors: "Nobody, X."},
	}
	p := testPipeline(t, refs)

	rec := proceedingsRecord()
	rec.PaperID = "777"

	row, err := p.ProcessRecord(rec, "text/777.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.TrimStatus != model.StatusManualReview {
		t.Fatalf("expected manual_review_required, got %s", row.TrimStatus)
	}
	if !row.HasBlock {
		t.Error("best candidate scores must be recorded for human follow-up")
	}
	if row.TitleScore >= 0.55 {
		t.Errorf("expected a low title score, got %f", row.TitleScore)
	}
}

func TestProcessRecord_ManualReviewNoBlocks(t *testing.T) {
	// Program marker forces detection, but no abstract-start lines exist.
	refs := targetReference()
	p := testPipeline(t, refs)

	rec := &model.TextRecord{
		PaperID:        "11849",
		SourceFilename: "11849_Program-and-Abstracts.pdf",
		NPages:         80,
	}
	for i := 0; i < 80; i++ {
		rec.Pages = append(rec.Pages, model.Page{PageIndex: i, Text: "prose without session codes"})
	}

	row, err := p.ProcessRecord(rec, "text/11849.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.TrimStatus != model.StatusManualReview {
		t.Fatalf("expected manual_review_required, got %s", row.TrimStatus)
	}
	if row.HasBlock {
		t.Error("no block fields may be set when segmentation yields nothing")
	}
}

func TestProcessRecord_MissingPagesIsError(t *testing.T) {
	p := testPipeline(t, nil)

	if _, err := p.ProcessRecord(&model.TextRecord{PaperID: "x", NPages: 50}, "text/x.json"); err == nil {
		t.Fatal("expected an error for a record without a page list")
	}
}

func TestProcessPath_RoundTrip(t *testing.T) {
	p := testPipeline(t, targetReference())

	dir := t.TempDir()
	path := filepath.Join(dir, "11849.json")
	data, err := json.Marshal(proceedingsRecord())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	row, err := p.ProcessPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.TrimStatus != model.StatusTrimmedAuto {
		t.Errorf("expected trimmed_auto, got %s", row.TrimStatus)
	}
	if row.SourceTextJSONPath != path {
		t.Errorf("source path not recorded, got %q", row.SourceTextJSONPath)
	}
}
