package model

// TrimStatus is the terminal outcome of one document's trim run.
type TrimStatus string

const (
	StatusNotNeeded    TrimStatus = "not_needed"
	StatusTrimmedAuto  TrimStatus = "trimmed_auto"
	StatusManualReview TrimStatus = "manual_review_required"
)

// TrimMethod identifies the matching strategy recorded on trimmed artifacts.
const TrimMethod = "fuzzy_title_author_block_match"

// DetectionSignals is the snapshot of classifier counts that drove the
// proceedings decision. Counts cover the bounded front window only.
type DetectionSignals struct {
	NPages              int  `json:"n_pages"`
	AbstractBlockCount  int  `json:"abstract_block_count"`
	TitleLikeLineCount  int  `json:"title_like_line_count"`
	AuthorLikeLineCount int  `json:"author_like_line_count"`
	ProgramMarkerCount  int  `json:"program_marker_count"`
	ProceedingsDetected bool `json:"proceedings_detected"`
}

// DecisionRow is the per-document audit record. Exactly one row is produced
// per processed document regardless of outcome, and it must be reproducible
// byte-for-byte given the same inputs.
type DecisionRow struct {
	PaperID             string
	CovidenceID         string
	Title               string
	Authors             string
	SourceFilename      string
	SourceTextJSONPath  string
	TrimmedTextJSONPath string
	Signals             DetectionSignals
	TrimStatus          TrimStatus
	TrimReason          string
	TrimMethod          string
	MatchedBlockCode    string
	MatchedBlockTitle   string
	TitleScore          float64
	AuthorScore         float64
	MatchScore          float64
	StartPageIndex      int
	EndPageIndex        int
	TrimmedAtUTC        string

	// HasBlock distinguishes "scored zero" from "no candidate block".
	HasBlock bool
}
