package segment

import (
	"strings"

	"github.com/ppiankov/proctrim/internal/classify"
	"github.com/ppiankov/proctrim/internal/model"
)

const (
	// titleLookahead caps how many lines after the marker may continue a
	// wrapped title.
	titleLookahead = 4

	// headerExtraLines extends the header window past the consumed title lines.
	headerExtraLines = 4

	// previewLines bounds the preview window used for author matching.
	previewLines = 12
)

// Segmenter partitions a flattened line sequence into abstract blocks using
// abstract-start marker lines as delimiters.
type Segmenter struct {
	classifiers *classify.Set
}

// NewSegmenter creates a segmenter over the given classifier set.
func NewSegmenter(classifiers *classify.Set) *Segmenter {
	return &Segmenter{classifiers: classifiers}
}

// Blocks returns the ordered abstract blocks of the document. Blocks are
// pairwise non-overlapping and, in order, partition exactly the suffix of
// the line sequence at or after the first abstract-start marker. Documents
// with no marker lines yield no blocks.
func (s *Segmenter) Blocks(lines []model.LineRef) []*model.AbstractBlock {
	var startIndices []int
	for i, line := range lines {
		if s.classifiers.AbstractStart.Match(line.Text) {
			startIndices = append(startIndices, i)
		}
	}

	var blocks []*model.AbstractBlock
	for offset, startIndex := range startIndices {
		endIndex := len(lines)
		if offset+1 < len(startIndices) {
			endIndex = startIndices[offset+1]
		}
		blockLines := lines[startIndex:endIndex]
		if len(blockLines) == 0 {
			continue
		}

		code, firstTitlePart, _ := s.classifiers.AbstractStart.Parse(blockLines[0].Text)
		titleParts := []string{firstTitlePart}
		consumed := 1
		for _, ref := range lookahead(blockLines, titleLookahead) {
			if s.classifiers.AbstractStart.Match(ref.Text) ||
				s.classifiers.AuthorLike.Match(ref.Text) ||
				s.classifiers.Institution.Match(ref.Text) ||
				s.classifiers.Footer.Match(ref.Text) {
				break
			}
			titleParts = append(titleParts, ref.Text)
			consumed++
		}

		headerEnd := min(len(blockLines), consumed+headerExtraLines)
		headerLines := make([]string, 0, headerEnd)
		for _, ref := range blockLines[:headerEnd] {
			headerLines = append(headerLines, ref.Text)
		}

		var preview []string
		for _, ref := range blockLines[:min(len(blockLines), previewLines)] {
			if s.classifiers.Footer.Match(ref.Text) {
				continue
			}
			preview = append(preview, ref.Text)
		}

		blocks = append(blocks, &model.AbstractBlock{
			Code:           code,
			StartIndex:     startIndex,
			EndIndex:       endIndex,
			StartPageIndex: blockLines[0].PageIndex,
			EndPageIndex:   blockLines[len(blockLines)-1].PageIndex,
			TitleText:      joinParts(titleParts),
			HeaderText:     strings.Join(headerLines, " "),
			PreviewText:    strings.Join(preview, " "),
			LineRefs:       blockLines,
		})
	}
	return blocks
}

// lookahead returns the lines a wrapped title may continue into.
func lookahead(blockLines []model.LineRef, n int) []model.LineRef {
	end := min(len(blockLines), n+1)
	if end <= 1 {
		return nil
	}
	return blockLines[1:end]
}

func joinParts(parts []string) string {
	var kept []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " ")
}
