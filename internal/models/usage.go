package models

import "time"

// UsageEvent enumerates usage log entries.
type UsageEvent string

const (
	UsageProcessedFiles   UsageEvent = "processed_files"
	UsageDownloadedResult UsageEvent = "downloaded_result"
)

// UsageEntry is one append-only usage log line.
type UsageEntry struct {
	ID           string     `db:"id" json:"id,omitempty"`
	Timestamp    time.Time  `db:"logged_at" json:"timestamp"`
	Event        UsageEvent `db:"event" json:"event"`
	InitialFile  string     `db:"initial_file" json:"initialFile"`
	TerminalFile string     `db:"terminal_file" json:"terminalFile"`
}
