package model

// Page is one page of extracted text, as produced by the upstream extractor.
type Page struct {
	PageIndex int    `json:"page_index"`
	Text      string `json:"text"`
}

// TextRecord is the full-text extraction artifact for one source PDF.
// This schema matches the per-paper JSON files in the text extraction directory.
type TextRecord struct {
	PaperID        string `json:"paper_id"`
	SourceFilename string `json:"source_filename"`
	SourceSHA256   string `json:"source_sha256"`
	Extractor      string `json:"extractor,omitempty"`
	ExtractedAtUTC string `json:"extracted_at_utc,omitempty"`
	NPages         int    `json:"n_pages"`
	PageCharCounts []int  `json:"page_char_counts,omitempty"`
	NeedsOCR       bool   `json:"needs_ocr,omitempty"`
	Pages          []Page `json:"pages"`
}

// LineRef addresses one non-empty, whitespace-collapsed line within a document.
type LineRef struct {
	PageIndex int
	LineIndex int
	Text      string
}

// TrimmedRecord is the page-structured artifact restricted to the matched
// abstract block. Written only for trimmed_auto outcomes.
type TrimmedRecord struct {
	PaperID             string  `json:"paper_id"`
	SourceFilename      string  `json:"source_filename"`
	SourceSHA256        string  `json:"source_sha256"`
	SourceTextJSONPath  string  `json:"source_text_json_path"`
	TrimStatus          string  `json:"trim_status"`
	TrimMethod          string  `json:"trim_method"`
	ProceedingsDetected bool    `json:"proceedings_detected"`
	Title               string  `json:"title"`
	Authors             string  `json:"authors"`
	MatchedBlockCode    string  `json:"matched_block_code"`
	MatchedBlockTitle   string  `json:"matched_block_title"`
	MatchScore          float64 `json:"match_score"`
	TitleScore          float64 `json:"title_score"`
	AuthorScore         float64 `json:"author_score"`
	StartPageIndex      int     `json:"start_page_index"`
	EndPageIndex        int     `json:"end_page_index"`
	OriginalNPages      int     `json:"original_n_pages"`
	NPages              int     `json:"n_pages"`
	PageCharCounts      []int   `json:"page_char_counts"`
	TrimmedAtUTC        string  `json:"trimmed_at_utc"`
	Pages               []Page  `json:"pages"`
}
