package detect

import (
	"strings"

	"github.com/ppiankov/proctrim/internal/classify"
	"github.com/ppiankov/proctrim/internal/model"
	"github.com/ppiankov/proctrim/internal/textutil"
)

// Detector decides whether a document is a multi-abstract proceedings
// bundle. Classifier counts are taken over a bounded front window of pages:
// proceedings front-matter density is what discriminates the document type,
// so content deep inside a long volume is never examined.
type Detector struct {
	classifiers *classify.Set
	cfg         model.DetectConfig
}

// NewDetector creates a detector with the given classifier set and thresholds.
func NewDetector(classifiers *classify.Set, cfg model.DetectConfig) *Detector {
	return &Detector{classifiers: classifiers, cfg: cfg}
}

// Signals computes the detection signal bundle for one document.
//
// Detection requires the page-count prerequisite plus any one of: enough
// abstract-start lines, dense title+author co-occurrence, or explicit program
// boilerplate in the filename or the first few pages.
func (d *Detector) Signals(rec *model.TextRecord, lines []model.LineRef) model.DetectionSignals {
	abstractStarts := 0
	titleLike := 0
	authorLike := 0
	var markerText strings.Builder
	markerText.WriteString(rec.SourceFilename)

	for _, line := range lines {
		if line.PageIndex < d.cfg.MarkerPages {
			markerText.WriteByte(' ')
			markerText.WriteString(line.Text)
		}
		if line.PageIndex >= d.cfg.FrontWindowPages {
			continue
		}
		// The three counts are independent: an abstract-start line with a
		// comma-dense title also counts as author-like.
		if d.classifiers.AbstractStart.Match(line.Text) {
			abstractStarts++
		}
		if d.classifiers.TitleLike.Match(line.Text) {
			titleLike++
		}
		if d.classifiers.AuthorLike.Match(line.Text) {
			authorLike++
		}
	}

	normalizedMarkers := textutil.Normalize(markerText.String())
	programMarkers := 0
	for _, marker := range d.classifiers.Markers.Program {
		if strings.Contains(normalizedMarkers, marker) {
			programMarkers++
		}
	}

	detected := rec.NPages >= d.cfg.MinPages &&
		(abstractStarts >= d.cfg.MinAbstractStarts ||
			(titleLike >= d.cfg.MinTitleLike && authorLike >= d.cfg.MinAuthorLike) ||
			programMarkers > 0)

	return model.DetectionSignals{
		NPages:              rec.NPages,
		AbstractBlockCount:  abstractStarts,
		TitleLikeLineCount:  titleLike,
		AuthorLikeLineCount: authorLike,
		ProgramMarkerCount:  programMarkers,
		ProceedingsDetected: detected,
	}
}
