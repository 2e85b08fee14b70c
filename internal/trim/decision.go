package trim

import (
	"github.com/ppiankov/proctrim/internal/model"
)

// Fixed reason strings recorded on the audit row. Deterministic by design:
// the same inputs always produce the same row.
const (
	ReasonNotProceedings = "Document does not look like a large proceedings/program PDF."
	ReasonNoBlocks       = "No abstract block could be segmented from the proceedings text."
	ReasonLowConfidence  = "Proceedings detected, but the best abstract block match is below the auto-trim confidence threshold."
	ReasonTrimmed        = "Proceedings detected and the target abstract block matched with sufficient confidence."
)

// Engine converts detection signals and the best-scoring block into one of
// the three terminal outcomes. Ambiguity is an outcome here, never an error.
type Engine struct {
	cfg model.TrimConfig
}

// NewEngine creates a decision engine with the given confidence gate.
func NewEngine(cfg model.TrimConfig) *Engine {
	return &Engine{cfg: cfg}
}

// HighConfidence reports whether the block clears the auto-trim gate:
// a strong title match alone, or decent title plus author corroboration.
func (e *Engine) HighConfidence(block *model.AbstractBlock) bool {
	if block.TitleScore >= e.cfg.TitleAccept {
		return true
	}
	return block.TitleScore >= e.cfg.TitleFloor &&
		block.AuthorScore >= e.cfg.AuthorFloor &&
		block.MatchScore >= e.cfg.MatchFloor
}

// Decide returns the terminal status and its reason for one document.
// best may be nil when segmentation yielded no blocks (or never ran).
func (e *Engine) Decide(signals model.DetectionSignals, best *model.AbstractBlock) (model.TrimStatus, string) {
	if !signals.ProceedingsDetected {
		return model.StatusNotNeeded, ReasonNotProceedings
	}
	if best == nil {
		return model.StatusManualReview, ReasonNoBlocks
	}
	if !e.HighConfidence(best) {
		return model.StatusManualReview, ReasonLowConfidence
	}
	return model.StatusTrimmedAuto, ReasonTrimmed
}
