package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/proctrim/internal/classify"
	"github.com/ppiankov/proctrim/internal/detect"
	"github.com/ppiankov/proctrim/internal/model"
	"github.com/ppiankov/proctrim/internal/score"
	"github.com/ppiankov/proctrim/internal/segment"
	"github.com/ppiankov/proctrim/internal/trim"
)

// Pipeline runs the complete trim decision for one document at a time:
// flatten, detect, segment, score, decide, and build or delete the trimmed
// artifact. Pipelines are safe for concurrent use across documents; no state
// is shared between runs.
type Pipeline struct {
	detector  *detect.Detector
	segmenter *segment.Segmenter
	scorer    *score.Scorer
	engine    *trim.Engine
	builder   *trim.Builder
	refs      map[string]model.Reference
	cfg       *model.Config

	now func() time.Time
}

// New creates a pipeline from the configuration and the reference lookup.
func New(cfg *model.Config, refs map[string]model.Reference) *Pipeline {
	classifiers := classify.NewSet(classify.DefaultMarkers())
	return &Pipeline{
		detector:  detect.NewDetector(classifiers, cfg.Detect),
		segmenter: segment.NewSegmenter(classifiers),
		scorer:    score.NewScorer(cfg.Trim),
		engine:    trim.NewEngine(cfg.Trim),
		builder:   trim.NewBuilder(classifiers.Footer),
		refs:      refs,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ProcessPath loads one text extraction JSON and runs the trim decision.
func (p *Pipeline) ProcessPath(path string) (*model.DecisionRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	var rec model.TextRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", filepath.Base(path), err)
	}

	return p.ProcessRecord(&rec, path)
}

// ProcessRecord runs the trim decision for an in-memory record. sourcePath
// is recorded for provenance only. Exactly one decision row is returned for
// every completed run; genuine errors are limited to malformed input.
func (p *Pipeline) ProcessRecord(rec *model.TextRecord, sourcePath string) (*model.DecisionRow, error) {
	if rec.Pages == nil {
		return nil, fmt.Errorf("document record %s has no page list", rec.PaperID)
	}

	paperID := rec.PaperID
	if paperID == "" {
		paperID = strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	}
	ref := p.refs[paperID]
	trimmedPath := filepath.Join(p.cfg.Paths.TrimmedDir, paperID+".json")

	lines := segment.Flatten(rec)
	signals := p.detector.Signals(rec, lines)

	row := &model.DecisionRow{
		PaperID:            paperID,
		CovidenceID:        ref.CovidenceID,
		Title:              strings.TrimSpace(ref.Title),
		Authors:            strings.TrimSpace(ref.Authors),
		SourceFilename:     rec.SourceFilename,
		SourceTextJSONPath: sourcePath,
		Signals:            signals,
	}
	if row.CovidenceID == "" {
		row.CovidenceID = paperID
	}

	if !signals.ProceedingsDetected {
		if err := removeIfPresent(trimmedPath); err != nil {
			return nil, err
		}
		row.TrimStatus = model.StatusNotNeeded
		row.TrimReason = trim.ReasonNotProceedings
		return row, nil
	}

	blocks := p.segmenter.Blocks(lines)
	best := p.scorer.BestBlock(blocks, model.Reference{Title: row.Title, Authors: row.Authors})

	status, reason := p.engine.Decide(signals, best)
	row.TrimStatus = status
	row.TrimReason = reason
	if best != nil {
		row.HasBlock = true
		row.MatchedBlockCode = best.Code
		row.MatchedBlockTitle = best.TitleText
		row.TitleScore = best.TitleScore
		row.AuthorScore = best.AuthorScore
		row.MatchScore = best.MatchScore
		row.StartPageIndex = best.StartPageIndex
		row.EndPageIndex = best.EndPageIndex
	}

	if status != model.StatusTrimmedAuto {
		if err := removeIfPresent(trimmedPath); err != nil {
			return nil, err
		}
		return row, nil
	}

	trimmedAt := p.now().UTC()
	artifact := p.builder.Record(rec, sourcePath, best, model.Reference{Title: row.Title, Authors: row.Authors}, trimmedAt)
	artifact.PaperID = paperID
	if err := writeJSON(trimmedPath, artifact); err != nil {
		return nil, fmt.Errorf("write trimmed artifact: %w", err)
	}

	row.TrimMethod = model.TrimMethod
	row.TrimmedTextJSONPath = trimmedPath
	row.TrimmedAtUTC = artifact.TrimmedAtUTC
	return row, nil
}

func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale artifact: %w", err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
