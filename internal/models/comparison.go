package models

import "time"

// ReportFormat enumerates downloadable renderings of a report.
type ReportFormat string

const (
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
)

// ComparisonMeta is persisted next to rendered files so downloads can be
// attributed to the uploads they came from.
type ComparisonMeta struct {
	ID           string    `json:"id"`
	InitialFile  string    `json:"initialFile"`
	TerminalFile string    `json:"terminalFile"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReportDownloadLink points at one rendered format.
type ReportDownloadLink struct {
	Format    ReportFormat `json:"format"`
	FileName  string       `json:"fileName"`
	URL       string       `json:"url"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// ComparisonResult is what a comparison request returns.
type ComparisonResult struct {
	ID           string               `json:"id"`
	InitialFile  string               `json:"initialFile"`
	TerminalFile string               `json:"terminalFile"`
	Report       Report               `json:"report"`
	Downloads    []ReportDownloadLink `json:"downloads"`
	References   string               `json:"referencesVersion"`
	CreatedAt    time.Time            `json:"createdAt"`
	Cached       bool                 `json:"cached"`
}
