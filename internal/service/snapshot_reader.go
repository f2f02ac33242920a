package service

import (
	"strings"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	"github.com/noah-isme/fund-dynamics-api/pkg/config"
	"github.com/noah-isme/fund-dynamics-api/pkg/sheet"
)

// SnapshotReader turns uploaded inventory workbooks into well records.
type SnapshotReader struct {
	opts sheet.WorkbookOptions
}

// NewSnapshotReader constructs a reader for the configured workbook layout.
func NewSnapshotReader(cfg config.SnapshotConfig) *SnapshotReader {
	return &SnapshotReader{opts: sheet.WorkbookOptions{
		Sheet:    cfg.Sheet,
		SkipRows: cfg.SkipRows,
		MaxRows:  cfg.MaxRows,
	}}
}

// Read parses one uploaded workbook.
func (r *SnapshotReader) Read(name string, data []byte) ([]models.WellRecord, error) {
	table, err := sheet.ReadWorkbook(name, data, r.opts)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(table)
}

// ParseSnapshot maps table rows to well records. Rows without an identifier are
// skipped. Mode and idle reason are kept verbatim; columns outside the snapshot
// contract land in Extra.
func ParseSnapshot(table *sheet.Table) ([]models.WellRecord, error) {
	if err := table.Require(models.SnapshotColumns...); err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(models.SnapshotColumns))
	for _, col := range models.SnapshotColumns {
		known[col] = struct{}{}
	}

	records := make([]models.WellRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		id := strings.TrimSpace(table.Value(row, models.ColumnWellID))
		if id == "" {
			continue
		}
		rec := models.WellRecord{
			ID:         id,
			State:      strings.TrimSpace(table.Value(row, models.ColumnState)),
			Category:   strings.TrimSpace(table.Value(row, models.ColumnCategory)),
			Mode:       table.Value(row, models.ColumnMode),
			IdleReason: table.Value(row, models.ColumnIdleReason),
		}
		for i, header := range table.Headers {
			if _, ok := known[header]; ok || header == "" || i >= len(row) || row[i] == "" {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[header] = row[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// DedupWells keeps the first occurrence of every identifier and reports how
// many rows were dropped.
func DedupWells(records []models.WellRecord) ([]models.WellRecord, int) {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.WellRecord, 0, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out, len(records) - len(out)
}
