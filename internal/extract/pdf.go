package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/ppiankov/proctrim/internal/cache"
	"github.com/ppiankov/proctrim/internal/model"
)

// extractorName identifies the text extraction backend in artifacts.
const extractorName = "ledongthuc/pdf"

// ocrMinPageChars is the stripped-text length below which a page counts as
// effectively empty; documents where more than half the pages fall under it
// are flagged as needing OCR.
const ocrMinPageChars = 50

// PDFExtractor turns source PDFs into page-structured text records.
// Results are cached by the sha256 of the file bytes, so renamed or
// re-downloaded copies of the same PDF reuse the cached extraction.
type PDFExtractor struct {
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewPDFExtractor creates an extractor. A nil cache disables caching.
func NewPDFExtractor(c cache.Cache, ttl time.Duration) *PDFExtractor {
	return &PDFExtractor{
		cache: c,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Extract reads the PDF at path and returns its text record.
func (e *PDFExtractor) Extract(path string) (*model.TextRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	if e.cache != nil {
		if raw, found := e.cache.Get(cache.Key(digest)); found {
			var rec model.TextRecord
			if err := json.Unmarshal(raw, &rec); err == nil {
				return &rec, nil
			}
		}
	}

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	nPages := reader.NumPage()
	pages := make([]model.Page, 0, nPages)
	charCounts := make([]int, 0, nPages)
	lowTextPages := 0

	for i := 1; i <= nPages; i++ {
		var text string
		page := reader.Page(i)
		if !page.V.IsNull() {
			if t, err := page.GetPlainText(nil); err == nil {
				text = normalizePageText(t)
			}
			// Extraction failures leave the page empty; the OCR flag
			// picks them up.
		}
		pages = append(pages, model.Page{PageIndex: i - 1, Text: text})
		charCounts = append(charCounts, len(text))
		if len(strings.TrimSpace(text)) < ocrMinPageChars {
			lowTextPages++
		}
	}

	rec := &model.TextRecord{
		PaperID:        PaperIDFromPath(path),
		SourceFilename: filepath.Base(path),
		SourceSHA256:   digest,
		Extractor:      extractorName,
		ExtractedAtUTC: e.now().UTC().Format(time.RFC3339),
		NPages:         nPages,
		PageCharCounts: charCounts,
		NeedsOCR:       needsOCR(nPages, lowTextPages),
		Pages:          pages,
	}

	if e.cache != nil {
		if raw, err := json.Marshal(rec); err == nil {
			_ = e.cache.Set(cache.Key(digest), raw, e.ttl)
		}
	}

	return rec, nil
}

// WriteRecord writes the record as <paper_id>.json under dir and returns
// the written path.
func WriteRecord(rec *model.TextRecord, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create text directory: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal text record: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, rec.PaperID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write text record: %w", err)
	}
	return path, nil
}

// PaperIDFromPath derives the paper ID from a source filename: the stem up
// to the first underscore, or the whole stem when there is none.
func PaperIDFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if idx := strings.Index(stem, "_"); idx >= 0 {
		stem = stem[:idx]
	}
	return strings.TrimSpace(stem)
}

// normalizePageText cleans extractor artifacts that break line handling
// downstream: non-breaking spaces and stray carriage returns.
func normalizePageText(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// needsOCR reports whether more than half of the pages carry effectively
// no extractable text.
func needsOCR(nPages, lowTextPages int) bool {
	if nPages == 0 {
		return false
	}
	return lowTextPages*2 > nPages
}
