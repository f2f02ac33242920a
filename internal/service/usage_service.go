package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/fund-dynamics-api/internal/dto"
	"github.com/noah-isme/fund-dynamics-api/internal/models"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
	"github.com/noah-isme/fund-dynamics-api/pkg/jobs"
)

const usageJobType = "usage_append"

// UsageStore persists usage log entries.
type UsageStore interface {
	Append(ctx context.Context, entry models.UsageEntry) error
	Recent(ctx context.Context, limit int) ([]models.UsageEntry, error)
}

// UsageService records and lists usage log entries. Appends go through a
// single-worker queue so lines land in the order they were recorded.
type UsageService struct {
	store        UsageStore
	queue        *jobs.Queue
	validate     *validator.Validate
	metrics      *MetricsService
	logger       *zap.Logger
	defaultLimit int
	now          func() time.Time
}

// NewUsageService constructs the service.
func NewUsageService(store UsageStore, defaultLimit int, metrics *MetricsService, logger *zap.Logger) *UsageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	svc := &UsageService{
		store:        store,
		validate:     validator.New(),
		metrics:      metrics,
		logger:       logger,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
	svc.queue = jobs.NewQueue("usage-log", svc.handleJob, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 256,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
		Logger:     logger,
	})
	return svc
}

// Start launches the writer.
func (s *UsageService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop flushes pending entries and stops the writer.
func (s *UsageService) Stop() {
	s.queue.Stop()
}

// Record appends one entry. Without a running writer the entry is written synchronously.
func (s *UsageService) Record(ctx context.Context, event models.UsageEvent, initialFile, terminalFile string) error {
	entry := models.UsageEntry{
		ID:           uuid.NewString(),
		Timestamp:    s.now().UTC(),
		Event:        event,
		InitialFile:  initialFile,
		TerminalFile: terminalFile,
	}
	if !s.queue.Started() {
		return s.write(ctx, entry)
	}
	if err := s.queue.Enqueue(jobs.Job{ID: entry.ID, Type: usageJobType, Payload: entry}); err != nil {
		return s.write(ctx, entry)
	}
	return nil
}

// Recent lists the latest entries, newest first.
func (s *UsageService) Recent(ctx context.Context, query dto.UsageQuery) ([]models.UsageEntry, error) {
	if err := s.validate.Struct(query); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "limit must be between 1 and 1000")
	}
	limit := query.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	return s.store.Recent(ctx, limit)
}

func (s *UsageService) handleJob(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.UsageEntry)
	if !ok {
		return fmt.Errorf("unexpected usage payload %T", job.Payload)
	}
	return s.write(ctx, entry)
}

func (s *UsageService) write(ctx context.Context, entry models.UsageEntry) error {
	start := time.Now()
	err := s.store.Append(ctx, entry)
	s.metrics.ObserveUsageWrite(err, time.Since(start))
	if err != nil {
		s.logger.Warn("usage log append failed", zap.String("event", string(entry.Event)), zap.Error(err))
	}
	return err
}
