package trim

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/proctrim/internal/classify"
	"github.com/ppiankov/proctrim/internal/model"
)

// Builder reconstructs a page-structured document holding only the winning
// block's lines.
type Builder struct {
	footer *classify.FooterLike
}

// NewBuilder creates an artifact builder using the given footer classifier.
func NewBuilder(footer *classify.FooterLike) *Builder {
	return &Builder{footer: footer}
}

// Pages groups the block's lines by page in original page order, drops
// footer-like lines, and omits pages left empty. Every emitted page is a
// strict subset of the corresponding source page.
func (b *Builder) Pages(block *model.AbstractBlock) []model.Page {
	grouped := make(map[int][]string)
	for _, ref := range block.LineRefs {
		if b.footer.Match(ref.Text) {
			continue
		}
		grouped[ref.PageIndex] = append(grouped[ref.PageIndex], ref.Text)
	}

	indices := make([]int, 0, len(grouped))
	for pageIndex := range grouped {
		indices = append(indices, pageIndex)
	}
	sort.Ints(indices)

	var pages []model.Page
	for _, pageIndex := range indices {
		text := strings.TrimSpace(strings.Join(grouped[pageIndex], "\n"))
		if text == "" {
			continue
		}
		pages = append(pages, model.Page{PageIndex: pageIndex, Text: text})
	}
	return pages
}

// Record assembles the trimmed artifact with provenance and the
// match-quality snapshot for downstream traceability.
func (b *Builder) Record(src *model.TextRecord, sourcePath string, block *model.AbstractBlock, ref model.Reference, trimmedAt time.Time) *model.TrimmedRecord {
	pages := b.Pages(block)
	charCounts := make([]int, 0, len(pages))
	for _, page := range pages {
		charCounts = append(charCounts, len(page.Text))
	}

	return &model.TrimmedRecord{
		PaperID:             src.PaperID,
		SourceFilename:      src.SourceFilename,
		SourceSHA256:        src.SourceSHA256,
		SourceTextJSONPath:  sourcePath,
		TrimStatus:          string(model.StatusTrimmedAuto),
		TrimMethod:          model.TrimMethod,
		ProceedingsDetected: true,
		Title:               strings.TrimSpace(ref.Title),
		Authors:             strings.TrimSpace(ref.Authors),
		MatchedBlockCode:    block.Code,
		MatchedBlockTitle:   block.TitleText,
		MatchScore:          round4(block.MatchScore),
		TitleScore:          round4(block.TitleScore),
		AuthorScore:         round4(block.AuthorScore),
		StartPageIndex:      block.StartPageIndex,
		EndPageIndex:        block.EndPageIndex,
		OriginalNPages:      src.NPages,
		NPages:              len(pages),
		PageCharCounts:      charCounts,
		TrimmedAtUTC:        trimmedAt.UTC().Format(time.RFC3339),
		Pages:               pages,
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
