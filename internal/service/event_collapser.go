package service

import (
	"sort"
	"strings"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
)

const labelSeparator = "; "

// CollapseEvents folds events into one row per well, ordered by identifier.
// Labels are deduplicated and sorted before joining.
func CollapseEvents(events []models.Event) []models.ReportCore {
	type group struct {
		kinds        []models.EventKind
		labels       map[string]struct{}
		previousMode string
	}
	groups := make(map[string]*group)
	for _, ev := range events {
		g, ok := groups[ev.WellID]
		if !ok {
			g = &group{labels: make(map[string]struct{})}
			groups[ev.WellID] = g
		}
		if _, seen := g.labels[ev.Kind.Label()]; !seen {
			g.labels[ev.Kind.Label()] = struct{}{}
			g.kinds = append(g.kinds, ev.Kind)
		}
		if ev.Kind == models.EventModeChanged {
			g.previousMode = ev.PreviousMode
		}
	}

	out := make([]models.ReportCore, 0, len(groups))
	for id, g := range groups {
		labels := make([]string, 0, len(g.labels))
		for label := range g.labels {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		sort.Slice(g.kinds, func(i, j int) bool { return g.kinds[i].Label() < g.kinds[j].Label() })
		out = append(out, models.ReportCore{
			WellID:       id,
			Kinds:        g.kinds,
			Label:        strings.Join(labels, labelSeparator),
			PreviousMode: g.previousMode,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WellID < out[j].WellID })
	return out
}
