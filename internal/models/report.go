package models

// Report column headers in presentation order.
const (
	HeaderUnit           = ColumnUnit
	HeaderSubUnit        = ColumnSubUnit
	HeaderGroup          = ColumnGroup
	HeaderWellID         = ColumnWellID
	HeaderIdleReason     = ColumnIdleReason
	HeaderMode           = ColumnMode
	HeaderPreviousMode   = "Способ эксплуатации (было)"
	HeaderControllerID   = "ID контроллера"
	HeaderSensorID       = "ID датчика"
	HeaderCommissionedAt = ColumnCommissionedAt
	HeaderInactiveSince  = ColumnInactiveSince
	HeaderEvents         = "Изменение"
)

// ReportHeaders is the fixed column order of the comparison report.
var ReportHeaders = []string{
	HeaderUnit, HeaderSubUnit, HeaderGroup, HeaderWellID, HeaderIdleReason, HeaderMode,
	HeaderPreviousMode, HeaderControllerID, HeaderSensorID, HeaderCommissionedAt,
	HeaderInactiveSince, HeaderEvents,
}

// Report file naming.
const (
	ReportSheet    = "Результат"
	ReportBaseName = "анализ_динамики_фонда"
	ReportTitle    = "Анализ изменений движения ДФ и способов эксплуатации"
)

// ReportCore is one collapsed row per well before enrichment.
type ReportCore struct {
	WellID       string
	Kinds        []EventKind
	Label        string
	PreviousMode string
}

// ReportRow is one enriched report line. Nil pointers are absent values.
type ReportRow struct {
	Unit           *string `json:"unit"`
	SubUnit        *string `json:"subUnit"`
	Group          *string `json:"group"`
	WellID         string  `json:"wellId"`
	IdleReason     *string `json:"idleReason"`
	Mode           *string `json:"mode"`
	PreviousMode   *string `json:"previousMode"`
	ControllerID   *string `json:"controllerId"`
	SensorID       *string `json:"sensorId"`
	CommissionedAt *string `json:"commissionedAt"`
	InactiveSince  *string `json:"inactiveSince"`
	Events         string  `json:"events"`
}

// Cells renders the row in ReportHeaders order with absent values as empty cells.
func (r ReportRow) Cells() []string {
	return []string{
		deref(r.Unit), deref(r.SubUnit), deref(r.Group), r.WellID, deref(r.IdleReason),
		deref(r.Mode), deref(r.PreviousMode), deref(r.ControllerID), deref(r.SensorID),
		deref(r.CommissionedAt), deref(r.InactiveSince), r.Events,
	}
}

// ReportSummary counts events by class.
type ReportSummary struct {
	Exited      int `json:"exited"`
	Entered     int `json:"entered"`
	ModeChanged int `json:"modeChanged"`
	Wells       int `json:"wells"`
}

// ReportStats carries non-fatal observations gathered while building a report.
type ReportStats struct {
	InitialRows      int `json:"initialRows"`
	TerminalRows     int `json:"terminalRows"`
	InitialFiltered  int `json:"initialFiltered"`
	TerminalFiltered int `json:"terminalFiltered"`
	DuplicateRows    int `json:"duplicateRows"`
	UnmatchedOrg     int `json:"unmatchedOrg"`
	UnmatchedDevice  int `json:"unmatchedDevice"`
	UnparsedDates    int `json:"unparsedDates"`
}

// Report is the output of one comparison.
type Report struct {
	Rows    []ReportRow   `json:"rows"`
	Summary ReportSummary `json:"summary"`
	Stats   ReportStats   `json:"stats"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
