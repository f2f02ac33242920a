package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
)

// UsageRepository stores usage entries in PostgreSQL.
type UsageRepository struct {
	db *sqlx.DB
}

// NewUsageRepository constructs the repository.
func NewUsageRepository(db *sqlx.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Append inserts one entry.
func (r *UsageRepository) Append(ctx context.Context, entry models.UsageEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	const query = `INSERT INTO usage_log (id, logged_at, event, initial_file, terminal_file)
	VALUES (:id, :logged_at, :event, :initial_file, :terminal_file)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("append usage entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (r *UsageRepository) Recent(ctx context.Context, limit int) ([]models.UsageEntry, error) {
	const query = `SELECT id, logged_at, event, initial_file, terminal_file
	FROM usage_log ORDER BY logged_at DESC LIMIT $1`
	entries := make([]models.UsageEntry, 0, limit)
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("list usage entries: %w", err)
	}
	return entries, nil
}

// EnsureSchema creates the usage_log table when it does not exist.
func (r *UsageRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS usage_log (
	id UUID PRIMARY KEY,
	logged_at TIMESTAMPTZ NOT NULL,
	event TEXT NOT NULL,
	initial_file TEXT NOT NULL DEFAULT '',
	terminal_file TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS usage_log_logged_at_idx ON usage_log (logged_at DESC)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure usage_log schema: %w", err)
	}
	return nil
}
