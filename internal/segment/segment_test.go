package segment

import (
	"strings"
	"testing"

	"github.com/ppiankov/proctrim/internal/classify"
	"github.com/ppiankov/proctrim/internal/model"
)

func record(pages ...string) *model.TextRecord {
	rec := &model.TextRecord{NPages: len(pages)}
	for i, text := range pages {
		rec.Pages = append(rec.Pages, model.Page{PageIndex: i, Text: text})
	}
	return rec
}

func TestFlatten(t *testing.T) {
	rec := record(
		"First   line\n\n  Second line  \n",
		"",
		"Third line",
	)

	lines := Flatten(rec)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	if lines[0].Text != "First line" || lines[0].PageIndex != 0 || lines[0].LineIndex != 0 {
		t.Errorf("unexpected first line %+v", lines[0])
	}
	// In-page index counts physical lines, so the blank line keeps index 1
	// reserved and "Second line" lands at index 2.
	if lines[1].Text != "Second line" || lines[1].LineIndex != 2 {
		t.Errorf("unexpected second line %+v", lines[1])
	}
	if lines[2].PageIndex != 2 || lines[2].LineIndex != 0 {
		t.Errorf("unexpected third line %+v", lines[2])
	}
}

func TestFlatten_EmptyDocument(t *testing.T) {
	if lines := Flatten(record("", "\n\n\n")); len(lines) != 0 {
		t.Errorf("expected no lines, got %d", len(lines))
	}
}

func proceedingsRecord() *model.TextRecord {
	page0 := strings.Join([]string{
		"Program and Abstracts of the 99th Annual Meeting",
		"Front matter before any abstract",
	}, "\n")
	page1 := strings.Join([]string{
		"101. Stiff person syndrome and anti GAD",
		"antibodies a case series",
		"J. Smith, MD, A. Doe, PhD",
		"Department of Neurology, University Hospital",
		"Background: we describe three cases.",
		"Annals of Neurology Vol 88 (suppl)",
	}, "\n")
	page2 := strings.Join([]string{
		"102. An unrelated abstract about migraine",
		"B. Brown, MD",
		"Results were unremarkable.",
	}, "\n")
	return record(page0, page1, page2)
}

func TestSegmenter_PartitionProperty(t *testing.T) {
	s := NewSegmenter(classify.NewSet(classify.DefaultMarkers()))
	lines := Flatten(proceedingsRecord())
	blocks := s.Blocks(lines)

	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	// Blocks partition the suffix starting at the first marker line.
	firstStart := blocks[0].StartIndex
	if firstStart != 2 {
		t.Errorf("expected first block to start at line 2, got %d", firstStart)
	}
	for i, block := range blocks {
		if block.StartIndex >= block.EndIndex {
			t.Errorf("block %d has empty range [%d,%d)", i, block.StartIndex, block.EndIndex)
		}
		if i > 0 && block.StartIndex != blocks[i-1].EndIndex {
			t.Errorf("gap or overlap between block %d and %d", i-1, i)
		}
	}
	if blocks[len(blocks)-1].EndIndex != len(lines) {
		t.Errorf("last block must end at the line count %d, got %d", len(lines), blocks[len(blocks)-1].EndIndex)
	}
}

func TestSegmenter_WrappedTitle(t *testing.T) {
	s := NewSegmenter(classify.NewSet(classify.DefaultMarkers()))
	blocks := s.Blocks(Flatten(proceedingsRecord()))

	got := blocks[0].TitleText
	want := "Stiff person syndrome and anti GAD antibodies a case series"
	if got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
	if blocks[0].Code != "101" {
		t.Errorf("code = %q, want 101", blocks[0].Code)
	}
	if blocks[0].StartPageIndex != 1 || blocks[0].EndPageIndex != 1 {
		t.Errorf("unexpected page span %d..%d", blocks[0].StartPageIndex, blocks[0].EndPageIndex)
	}
}

func TestSegmenter_PreviewExcludesFooter(t *testing.T) {
	s := NewSegmenter(classify.NewSet(classify.DefaultMarkers()))
	blocks := s.Blocks(Flatten(proceedingsRecord()))

	if strings.Contains(blocks[0].PreviewText, "Annals of Neurology") {
		t.Errorf("preview must not contain footer lines: %q", blocks[0].PreviewText)
	}
	if !strings.Contains(blocks[0].PreviewText, "J. Smith") {
		t.Errorf("preview should contain the author line: %q", blocks[0].PreviewText)
	}
}

func TestSegmenter_NoMarkersNoBlocks(t *testing.T) {
	s := NewSegmenter(classify.NewSet(classify.DefaultMarkers()))
	rec := record("A single paper without session codes.\nJust prose text here.")

	if blocks := s.Blocks(Flatten(rec)); len(blocks) != 0 {
		t.Errorf("expected zero blocks, got %d", len(blocks))
	}
}

func TestSegmenter_TitleStopsAtAuthorLine(t *testing.T) {
	s := NewSegmenter(classify.NewSet(classify.DefaultMarkers()))
	rec := record(strings.Join([]string{
		"103. Title on a single line",
		"J. Smith, MD, A. Doe, PhD",
		"More body text",
	}, "\n"))

	blocks := s.Blocks(Flatten(rec))
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].TitleText != "Title on a single line" {
		t.Errorf("title = %q, should stop before the author line", blocks[0].TitleText)
	}
	// Header window extends past the consumed title line.
	if !strings.Contains(blocks[0].HeaderText, "J. Smith") {
		t.Errorf("header should include the author line: %q", blocks[0].HeaderText)
	}
}
