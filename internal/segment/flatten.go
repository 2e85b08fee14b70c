package segment

import (
	"strings"

	"github.com/ppiankov/proctrim/internal/model"
	"github.com/ppiankov/proctrim/internal/textutil"
)

// Flatten converts a paged text record into a single ordered sequence of
// addressable lines. Per page, physical lines are whitespace-collapsed and
// empty lines dropped; the in-page line index counts physical lines before
// dropping, so indices remain stable against the original page text.
func Flatten(rec *model.TextRecord) []model.LineRef {
	var lines []model.LineRef
	for _, page := range rec.Pages {
		for lineIndex, raw := range strings.Split(page.Text, "\n") {
			line := textutil.CollapseSpaces(raw)
			if line == "" {
				continue
			}
			lines = append(lines, model.LineRef{
				PageIndex: page.PageIndex,
				LineIndex: lineIndex,
				Text:      line,
			})
		}
	}
	return lines
}
