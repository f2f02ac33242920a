package dto

import (
	"time"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
)

// ComparisonResponse is returned by POST /comparisons.
type ComparisonResponse struct {
	ID                string                      `json:"id"`
	InitialFile       string                      `json:"initialFile"`
	TerminalFile      string                      `json:"terminalFile"`
	Headers           []string                    `json:"headers"`
	Rows              []models.ReportRow          `json:"rows"`
	Summary           models.ReportSummary        `json:"summary"`
	Stats             models.ReportStats          `json:"stats"`
	Downloads         []models.ReportDownloadLink `json:"downloads"`
	ReferencesVersion string                      `json:"referencesVersion"`
	CreatedAt         time.Time                   `json:"createdAt"`
	Cached            bool                        `json:"cached"`
}

// NewComparisonResponse flattens a comparison result for the API.
func NewComparisonResponse(result *models.ComparisonResult) ComparisonResponse {
	rows := result.Report.Rows
	if rows == nil {
		rows = []models.ReportRow{}
	}
	return ComparisonResponse{
		ID:                result.ID,
		InitialFile:       result.InitialFile,
		TerminalFile:      result.TerminalFile,
		Headers:           models.ReportHeaders,
		Rows:              rows,
		Summary:           result.Report.Summary,
		Stats:             result.Report.Stats,
		Downloads:         result.Downloads,
		ReferencesVersion: result.References,
		CreatedAt:         result.CreatedAt,
		Cached:            result.Cached,
	}
}
