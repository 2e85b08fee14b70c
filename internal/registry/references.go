package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/proctrim/internal/model"
)

// LoadReferences reads the reference export CSV and returns a lookup from
// paper ID (the Covidence column) to bibliographic metadata. Rows without a
// Covidence ID are skipped; later duplicates overwrite earlier ones, matching
// an export that carries corrections at the bottom.
func LoadReferences(path string) (map[string]model.Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open references: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read references header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Covidence", "Title", "Authors"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("references CSV missing column %q", required)
		}
	}

	refs := make(map[string]model.Reference)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read references row: %w", err)
		}
		id := strings.TrimSpace(field(record, col["Covidence"]))
		if id == "" {
			continue
		}
		refs[id] = model.Reference{
			CovidenceID: id,
			Title:       strings.TrimSpace(field(record, col["Title"])),
			Authors:     strings.TrimSpace(field(record, col["Authors"])),
		}
	}
	return refs, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
