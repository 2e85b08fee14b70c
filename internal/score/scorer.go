package score

import (
	"strings"

	"github.com/ppiankov/proctrim/internal/model"
	"github.com/ppiankov/proctrim/internal/textutil"
)

// Scorer computes title/author similarity between abstract blocks and the
// target reference, and selects the best-matching block.
type Scorer struct {
	cfg model.TrimConfig
}

// NewScorer creates a scorer with the given weights and limits.
func NewScorer(cfg model.TrimConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// TitleScore compares the reference title against a block title, both
// normalized. Exact equality scores 1.0. Otherwise the result blends
// character-sequence similarity with token overlap: OCR noise degrades
// sequence similarity but usually preserves distinctive words, so whichever
// view scores higher wins.
func (s *Scorer) TitleScore(refTitle, blockTitle string) float64 {
	refNorm := textutil.Normalize(refTitle)
	blockNorm := textutil.Normalize(blockTitle)
	if refNorm == "" || blockNorm == "" {
		return 0.0
	}
	if refNorm == blockNorm {
		return 1.0
	}

	sequence := SequenceRatio(refNorm, blockNorm)

	refTokens := textutil.TokenSet(refNorm, 4)
	blockTokens := textutil.TokenSet(blockNorm, 4)
	shared := 0
	for token := range refTokens {
		if _, ok := blockTokens[token]; ok {
			shared++
		}
	}
	denom := len(refTokens)
	if denom < 1 {
		denom = 1
	}
	overlap := float64(shared) / float64(denom)
	if strings.Contains(blockNorm, refNorm) || strings.Contains(refNorm, blockNorm) {
		if overlap < 0.95 {
			overlap = 0.95
		}
	}

	blended := 0.65*sequence + 0.35*overlap
	if sequence > blended {
		return sequence
	}
	return blended
}

// ParseSurnames extracts up to MaxSurnames normalized surnames from a
// semicolon-delimited author export field ("Surname, I.; Other, J.").
// Surname is the text before the first comma of each entry; duplicates are
// dropped keeping first-seen order.
func (s *Scorer) ParseSurnames(authors string) []string {
	var surnames []string
	for _, chunk := range strings.Split(authors, ";") {
		part := strings.TrimSpace(chunk)
		if part == "" {
			continue
		}
		surname := part
		if idx := strings.Index(part, ","); idx >= 0 {
			surname = part[:idx]
		}
		normalized := textutil.Normalize(surname)
		if normalized == "" || contains(surnames, normalized) {
			continue
		}
		surnames = append(surnames, normalized)
		if len(surnames) == s.cfg.MaxSurnames {
			break
		}
	}
	return surnames
}

// AuthorScore is the fraction of reference surnames found in the block text,
// matching either as a normalized substring or with all surname words present
// as separate tokens. Zero when the reference has no parsable authors.
func (s *Scorer) AuthorScore(refAuthors, blockText string) float64 {
	surnames := s.ParseSurnames(refAuthors)
	if len(surnames) == 0 {
		return 0.0
	}

	normalizedBlock := textutil.Normalize(blockText)
	blockTokens := textutil.TokenSet(blockText, 3)

	matches := 0
	for _, surname := range surnames {
		if strings.Contains(normalizedBlock, surname) {
			matches++
			continue
		}
		if surnameWordsPresent(surname, blockTokens) {
			matches++
		}
	}
	return float64(matches) / float64(len(surnames))
}

// MatchScore combines the two component scores with the configured weights.
func (s *Scorer) MatchScore(titleScore, authorScore float64) float64 {
	return s.cfg.TitleWeight*titleScore + s.cfg.AuthorWeight*authorScore
}

// BestBlock scores every block against the reference (score fields are
// write-once) and returns the block with the strictly greatest match score.
// On exact ties the first block in document order wins; that tie-break is a
// deliberate, pinned rule. Returns nil for an empty block list.
func (s *Scorer) BestBlock(blocks []*model.AbstractBlock, ref model.Reference) *model.AbstractBlock {
	var best *model.AbstractBlock
	for _, block := range blocks {
		block.TitleScore = s.TitleScore(ref.Title, block.TitleText)
		block.AuthorScore = s.AuthorScore(ref.Authors, block.PreviewText)
		block.MatchScore = s.MatchScore(block.TitleScore, block.AuthorScore)
		if best == nil || block.MatchScore > best.MatchScore {
			best = block
		}
	}
	return best
}

func surnameWordsPresent(surname string, blockTokens map[string]struct{}) bool {
	found := false
	for _, word := range strings.Fields(surname) {
		if len(word) < 3 {
			continue
		}
		if _, ok := blockTokens[word]; !ok {
			return false
		}
		found = true
	}
	return found
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
