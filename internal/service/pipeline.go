package service

import (
	"errors"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
)

// ErrReferencesMissing is returned when BuildReport is called without references.
var ErrReferencesMissing = errors.New("reference set is required")

// BuildReport runs the full comparison: keep-first dedup, scope filter, diff,
// collapse and enrichment. It has no side effects and the same inputs always
// produce the same report.
func BuildReport(initial, terminal []models.WellRecord, refs *models.ReferenceSet, filter SnapshotFilter) (*models.Report, error) {
	if refs == nil {
		return nil, ErrReferencesMissing
	}

	uniqueA, dupA := DedupWells(initial)
	uniqueB, dupB := DedupWells(terminal)
	filteredA := filter.Apply(uniqueA)
	filteredB := filter.Apply(uniqueB)

	diff, err := Diff(filteredA, filteredB)
	if err != nil {
		return nil, err
	}

	core := CollapseEvents(diff.All())
	rows, enrich := EnrichReport(core, refs, uniqueB)

	return &models.Report{
		Rows: rows,
		Summary: models.ReportSummary{
			Exited:      len(diff.Exited),
			Entered:     len(diff.Entered),
			ModeChanged: len(diff.ModeChanged),
			Wells:       len(rows),
		},
		Stats: models.ReportStats{
			InitialRows:      len(initial),
			TerminalRows:     len(terminal),
			InitialFiltered:  len(filteredA),
			TerminalFiltered: len(filteredB),
			DuplicateRows:    dupA + dupB,
			UnmatchedOrg:     enrich.UnmatchedOrg,
			UnmatchedDevice:  enrich.UnmatchedDevice,
			UnparsedDates:    enrich.UnparsedDates,
		},
	}, nil
}
