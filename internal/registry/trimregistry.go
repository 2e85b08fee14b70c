package registry

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ppiankov/proctrim/internal/model"
)

// trimRegistryHeader fixes the column order of the trim decision registry.
// Downstream joins depend on it; never reorder.
var trimRegistryHeader = []string{
	"paper_id",
	"covidence_id",
	"title",
	"authors",
	"source_filename",
	"source_text_json_path",
	"trimmed_text_json_path",
	"n_pages",
	"abstract_block_count",
	"title_like_line_count",
	"author_like_line_count",
	"program_marker_count",
	"proceedings_detected",
	"trim_status",
	"trim_reason",
	"trim_method",
	"matched_block_code",
	"matched_block_title",
	"title_score",
	"author_score",
	"match_score",
	"start_page_index",
	"end_page_index",
	"trimmed_at_utc",
}

// WriteTrimRegistry writes one CSV row per decision, in the given order.
func WriteTrimRegistry(rows []*model.DecisionRow, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(trimRegistryHeader); err != nil {
		return fmt.Errorf("write registry header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(trimRegistryRecord(row)); err != nil {
			return fmt.Errorf("write registry row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush registry: %w", err)
	}
	return f.Close()
}

func trimRegistryRecord(row *model.DecisionRow) []string {
	score := func(v float64) string {
		if !row.HasBlock {
			return ""
		}
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
	pageIndex := func(v int) string {
		if !row.HasBlock {
			return ""
		}
		return strconv.Itoa(v)
	}

	return []string{
		row.PaperID,
		row.CovidenceID,
		row.Title,
		row.Authors,
		row.SourceFilename,
		row.SourceTextJSONPath,
		row.TrimmedTextJSONPath,
		strconv.Itoa(row.Signals.NPages),
		strconv.Itoa(row.Signals.AbstractBlockCount),
		strconv.Itoa(row.Signals.TitleLikeLineCount),
		strconv.Itoa(row.Signals.AuthorLikeLineCount),
		strconv.Itoa(row.Signals.ProgramMarkerCount),
		strconv.FormatBool(row.Signals.ProceedingsDetected),
		string(row.TrimStatus),
		row.TrimReason,
		row.TrimMethod,
		row.MatchedBlockCode,
		row.MatchedBlockTitle,
		score(row.TitleScore),
		score(row.AuthorScore),
		score(row.MatchScore),
		pageIndex(row.StartPageIndex),
		pageIndex(row.EndPageIndex),
		row.TrimmedAtUTC,
	}
}
