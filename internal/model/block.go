package model

// AbstractBlock is one contiguous abstract segment within a proceedings
// document. Line bounds are half-open over the flattened line sequence.
// Score fields are zero until the scorer visits the block, then write-once.
type AbstractBlock struct {
	Code           string
	StartIndex     int
	EndIndex       int
	StartPageIndex int
	EndPageIndex   int
	TitleText      string
	HeaderText     string
	PreviewText    string
	LineRefs       []LineRef

	TitleScore  float64
	AuthorScore float64
	MatchScore  float64
}

// Reference is the target paper's bibliographic metadata used for matching.
// Authors is the raw semicolon-delimited export field ("Surname, I.; ...").
type Reference struct {
	CovidenceID string
	Title       string
	Authors     string
}
