package extract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/proctrim/internal/model"
)

func TestPaperIDFromPath(t *testing.T) {
	cases := map[string]string{
		"data/pdf_original/11849_Stiff person syndrome.pdf": "11849",
		"778.pdf":               "778",
		"/abs/path/992_a_b.pdf": "992",
		"plainstem.pdf":         "plainstem",
	}
	for in, want := range cases {
		if got := PaperIDFromPath(in); got != want {
			t.Errorf("PaperIDFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePageText(t *testing.T) {
	got := normalizePageText("Stiff person\r\nsyndrome\rcase")
	want := "Stiff person\nsyndrome\ncase"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNeedsOCR(t *testing.T) {
	cases := []struct {
		nPages, low int
		want        bool
	}{
		{0, 0, false},
		{10, 5, false}, // exactly half does not trip the flag
		{10, 6, true},
		{1, 1, true},
		{60, 0, false},
	}
	for _, tc := range cases {
		if got := needsOCR(tc.nPages, tc.low); got != tc.want {
			t.Errorf("needsOCR(%d, %d) = %v, want %v", tc.nPages, tc.low, got, tc.want)
		}
	}
}

func TestWriteRecord(t *testing.T) {
	dir := t.TempDir()
	rec := &model.TextRecord{
		PaperID:        "11849",
		SourceFilename: "11849_proceedings.pdf",
		SourceSHA256:   strings.Repeat("ab", 32),
		Extractor:      extractorName,
		NPages:         2,
		PageCharCounts: []int{120, 80},
		Pages: []model.Page{
			{PageIndex: 0, Text: "first page"},
			{PageIndex: 1, Text: "second page"},
		},
	}

	path, err := WriteRecord(rec, dir)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "11849.json" {
		t.Errorf("unexpected artifact name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("artifact should end with a newline")
	}

	var back model.TextRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.PaperID != rec.PaperID || back.NPages != rec.NPages || len(back.Pages) != 2 {
		t.Errorf("round-trip mismatch: %+v", back)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	e := NewPDFExtractor(nil, 0)
	if _, err := e.Extract(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
