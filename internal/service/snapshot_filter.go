package service

import (
	"sort"
	"strings"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
)

// SnapshotFilter narrows a snapshot to the wells that take part in a comparison.
type SnapshotFilter struct {
	states   map[string]struct{}
	category string
}

// NewSnapshotFilter builds a filter keeping the given states of one category.
func NewSnapshotFilter(states []string, category string) SnapshotFilter {
	f := SnapshotFilter{states: make(map[string]struct{}, len(states)), category: category}
	for _, s := range states {
		f.states[s] = struct{}{}
	}
	return f
}

// DefaultSnapshotFilter keeps operating and idle oil wells.
func DefaultSnapshotFilter() SnapshotFilter {
	return NewSnapshotFilter([]string{models.StateInOperation, models.StateIdle}, models.CategoryOil)
}

// Apply returns the matching records in input order.
func (f SnapshotFilter) Apply(records []models.WellRecord) []models.WellRecord {
	out := make([]models.WellRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := f.states[rec.State]; !ok || rec.Category != f.category {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Key identifies the filter scope; it is part of result cache keys.
func (f SnapshotFilter) Key() string {
	states := make([]string, 0, len(f.states))
	for s := range f.states {
		states = append(states, s)
	}
	sort.Strings(states)
	return strings.Join(states, ",") + "|" + f.category
}
