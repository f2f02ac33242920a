package service

import (
	"errors"
	"fmt"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
)

// ErrDuplicateWell is returned when a diff input repeats an identifier.
var ErrDuplicateWell = errors.New("duplicate well identifier")

// Diff classifies wells between two filtered snapshots. Exited and mode-changed
// events follow the order of a, entered events the order of b. Modes are
// compared byte for byte.
func Diff(a, b []models.WellRecord) (models.DiffResult, error) {
	indexA, err := indexWells(a)
	if err != nil {
		return models.DiffResult{}, fmt.Errorf("initial snapshot: %w", err)
	}
	indexB, err := indexWells(b)
	if err != nil {
		return models.DiffResult{}, fmt.Errorf("terminal snapshot: %w", err)
	}

	var result models.DiffResult
	for _, rec := range a {
		later, ok := indexB[rec.ID]
		switch {
		case !ok:
			result.Exited = append(result.Exited, models.Event{WellID: rec.ID, Kind: models.EventExited})
		case later.Mode != rec.Mode:
			result.ModeChanged = append(result.ModeChanged, models.Event{
				WellID:       rec.ID,
				Kind:         models.EventModeChanged,
				PreviousMode: rec.Mode,
			})
		}
	}
	for _, rec := range b {
		if _, ok := indexA[rec.ID]; !ok {
			result.Entered = append(result.Entered, models.Event{WellID: rec.ID, Kind: models.EventEntered})
		}
	}
	return result, nil
}

func indexWells(records []models.WellRecord) (map[string]models.WellRecord, error) {
	index := make(map[string]models.WellRecord, len(records))
	for _, rec := range records {
		if _, dup := index[rec.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateWell, rec.ID)
		}
		index[rec.ID] = rec
	}
	return index, nil
}
