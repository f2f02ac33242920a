package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
)

var usageLogHeader = []string{"timestamp", "event", "initial_file", "terminal_file"}

// UsageFileRepository appends usage entries to a CSV file.
type UsageFileRepository struct {
	path string
	mu   sync.Mutex
}

// NewUsageFileRepository constructs the repository; the file is created on first append.
func NewUsageFileRepository(path string) *UsageFileRepository {
	return &UsageFileRepository{path: path}
}

// Append writes one line. The header is written when the file is new or empty.
func (r *UsageFileRepository) Append(ctx context.Context, entry models.UsageEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("prepare usage log directory: %w", err)
		}
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open usage log: %w", err)
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat usage log: %w", err)
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if info.Size() == 0 {
		_ = w.Write(usageLogHeader)
	}
	_ = w.Write([]string{
		entry.Timestamp.UTC().Format(time.RFC3339),
		string(entry.Event),
		entry.InitialFile,
		entry.TerminalFile,
	})
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode usage entry: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("append usage entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *UsageFileRepository) Recent(ctx context.Context, limit int) ([]models.UsageEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	data, err := os.ReadFile(r.path)
	r.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.UsageEntry{}, nil
		}
		return nil, fmt.Errorf("read usage log: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	var entries []models.UsageEntry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse usage log: %w", err)
		}
		if len(record) < len(usageLogHeader) || record[0] == usageLogHeader[0] {
			continue
		}
		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			continue
		}
		entries = append(entries, models.UsageEntry{
			Timestamp:    ts,
			Event:        models.UsageEvent(record[1]),
			InitialFile:  record[2],
			TerminalFile: record[3],
		})
	}

	out := make([]models.UsageEntry, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}
