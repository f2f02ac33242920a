package service

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
)

// excelSerialPattern matches the plain decimals Excel stores dates as.
var excelSerialPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ReportDateLayout is how dates appear in the report.
const ReportDateLayout = "02.01.2006"

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2.1.2006",
	"02.01.06",
	"01-02-06",
	"01-02-2006",
	"1/2/06",
	"1/2/2006",
	"01/02/2006 15:04",
}

// Excel serials outside this window are not treated as dates (1900-01-01 .. 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// EnrichStats counts non-fatal gaps found while joining references.
type EnrichStats struct {
	UnmatchedOrg    int
	UnmatchedDevice int
	UnparsedDates   int
}

// EnrichReport left-joins organisational, terminal snapshot, device and
// commissioning attributes onto collapsed rows. Every core row yields exactly
// one report row. terminal is the deduplicated, unfiltered later snapshot.
func EnrichReport(core []models.ReportCore, refs *models.ReferenceSet, terminal []models.WellRecord) ([]models.ReportRow, EnrichStats) {
	if refs == nil {
		refs = &models.ReferenceSet{}
	}
	later := make(map[string]models.WellRecord, len(terminal))
	for _, rec := range terminal {
		if _, ok := later[rec.ID]; !ok {
			later[rec.ID] = rec
		}
	}

	var stats EnrichStats
	rows := make([]models.ReportRow, 0, len(core))
	for _, c := range core {
		row := models.ReportRow{
			WellID:       c.WellID,
			Events:       c.Label,
			PreviousMode: optional(c.PreviousMode),
		}

		if org, ok := refs.Org[c.WellID]; ok {
			row.Unit = optional(org.Unit)
			row.SubUnit = optional(org.SubUnit)
			row.Group = optional(org.Group)
		} else {
			stats.UnmatchedOrg++
		}

		if rec, ok := later[c.WellID]; ok {
			row.IdleReason = optional(rec.IdleReason)
			row.Mode = optional(rec.Mode)
		}

		if dev, ok := refs.Devices[c.WellID]; ok {
			row.ControllerID = optional(dev.ControllerID)
			row.SensorID = optional(dev.SensorID)
		} else {
			stats.UnmatchedDevice++
		}

		if com, ok := refs.Commissioning[c.WellID]; ok {
			var bad bool
			row.CommissionedAt, bad = reportDate(com.CommissionedAt)
			if bad {
				stats.UnparsedDates++
			}
			row.InactiveSince, bad = reportDate(com.InactiveSince)
			if bad {
				stats.UnparsedDates++
			}
		}

		rows = append(rows, row)
	}

	SortReportRows(rows)
	return rows, stats
}

// SortReportRows orders rows by unit, sub-unit and group with absent values
// last, then by well identifier.
func SortReportRows(rows []models.ReportRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		for _, pair := range [][2]*string{{a.Unit, b.Unit}, {a.SubUnit, b.SubUnit}, {a.Group, b.Group}} {
			if c := compareOptional(pair[0], pair[1]); c != 0 {
				return c < 0
			}
		}
		return a.WellID < b.WellID
	})
}

func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return strings.Compare(*a, *b)
}

// ParseReportDate accepts Excel serial numbers and the common textual layouts.
func ParseReportDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if excelSerialPattern.MatchString(raw) {
		serial, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(serial) || math.IsInf(serial, 0) || serial < minExcelSerial || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// reportDate formats a raw cell; the flag is set when a non-blank value could not be parsed.
func reportDate(raw string) (*string, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	t, ok := ParseReportDate(raw)
	if !ok {
		return nil, true
	}
	formatted := t.Format(ReportDateLayout)
	return &formatted, false
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
