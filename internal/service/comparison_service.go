package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
)

const comparisonCachePrefix = "comparison:"

type snapshotReader interface {
	Read(name string, data []byte) ([]models.WellRecord, error)
}

type referenceProvider interface {
	Current(ctx context.Context) (*models.ReferenceSet, error)
}

type reportPublisher interface {
	Publish(ctx context.Context, meta models.ComparisonMeta, report *models.Report) ([]models.ReportDownloadLink, error)
}

type resultCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cacheSwitch interface {
	Enabled() bool
}

type usageRecorder interface {
	Record(ctx context.Context, event models.UsageEvent, initialFile, terminalFile string) error
}

// Upload is one uploaded snapshot file.
type Upload struct {
	Name string
	Data []byte
}

// ComparisonConfig tunes the comparison service.
type ComparisonConfig struct {
	Filter   SnapshotFilter
	CacheTTL time.Duration
}

// ComparisonService runs a comparison end to end: parse both uploads, build the
// report against the current references, publish renderings, log usage.
type ComparisonService struct {
	reader     snapshotReader
	references referenceProvider
	publisher  reportPublisher
	cache      resultCache
	usage      usageRecorder
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        ComparisonConfig
	now        func() time.Time
}

// NewComparisonService constructs the service. cache may be nil; a cache that
// reports itself disabled is treated as absent.
func NewComparisonService(reader snapshotReader, references referenceProvider, publisher reportPublisher, cache resultCache, usage usageRecorder, metrics *MetricsService, cfg ComparisonConfig, logger *zap.Logger) *ComparisonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if toggle, ok := cache.(cacheSwitch); ok && !toggle.Enabled() {
		cache = nil
	}
	return &ComparisonService{
		reader:     reader,
		references: references,
		publisher:  publisher,
		cache:      cache,
		usage:      usage,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Compare runs one comparison. The result is all or nothing: any failure
// returns an error and no report.
func (s *ComparisonService) Compare(ctx context.Context, initial, terminal Upload) (*models.ComparisonResult, error) {
	start := time.Now()
	result, err := s.compare(ctx, initial, terminal)
	if err != nil {
		s.metrics.ObserveComparison(nil, time.Since(start))
		s.logFailure(err, initial, terminal)
		return nil, err
	}
	s.metrics.ObserveComparison(&result.Report.Summary, time.Since(start))

	if err := s.usage.Record(ctx, models.UsageProcessedFiles, initial.Name, terminal.Name); err != nil {
		s.logger.Warn("usage entry not recorded", zap.Error(err))
	}
	return result, nil
}

func (s *ComparisonService) compare(ctx context.Context, initial, terminal Upload) (*models.ComparisonResult, error) {
	refs, err := s.references.Current(ctx)
	if err != nil {
		return nil, err
	}

	key := s.cacheKey(initial, terminal, refs.Version)
	if s.cache != nil {
		var cached models.ComparisonResult
		err := s.cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			s.metrics.RecordCacheOperation(true)
			cached.Cached = true
			return &cached, nil
		case errors.Is(err, appErrors.ErrCacheMiss):
			s.metrics.RecordCacheOperation(false)
		default:
			s.logger.Warn("comparison cache lookup failed", zap.Error(err))
		}
	}

	initialWells, err := s.reader.Read(initial.Name, initial.Data)
	if err != nil {
		return nil, err
	}
	terminalWells, err := s.reader.Read(terminal.Name, terminal.Data)
	if err != nil {
		return nil, err
	}

	report, err := BuildReport(initialWells, terminalWells, refs, s.cfg.Filter)
	if err != nil {
		return nil, err
	}

	meta := models.ComparisonMeta{
		ID:           uuid.NewString(),
		InitialFile:  initial.Name,
		TerminalFile: terminal.Name,
		CreatedAt:    s.now().UTC(),
	}
	links, err := s.publisher.Publish(ctx, meta, report)
	if err != nil {
		return nil, err
	}

	result := &models.ComparisonResult{
		ID:           meta.ID,
		InitialFile:  meta.InitialFile,
		TerminalFile: meta.TerminalFile,
		Report:       *report,
		Downloads:    links,
		References:   refs.Version,
		CreatedAt:    meta.CreatedAt,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("comparison cache write failed", zap.Error(err))
		}
	}

	s.logger.Info("comparison completed",
		zap.String("comparison_id", meta.ID),
		zap.String("references", refs.Version),
		zap.Int("exited", report.Summary.Exited),
		zap.Int("entered", report.Summary.Entered),
		zap.Int("mode_changed", report.Summary.ModeChanged),
		zap.Int("duplicates", report.Stats.DuplicateRows),
		zap.Int("unparsed_dates", report.Stats.UnparsedDates),
	)
	return result, nil
}

func (s *ComparisonService) cacheKey(initial, terminal Upload, version string) string {
	h := sha256.New()
	_, _ = h.Write(initial.Data)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(terminal.Data)
	_, _ = h.Write([]byte("\x00" + version + "\x00" + s.cfg.Filter.Key()))
	return comparisonCachePrefix + hex.EncodeToString(h.Sum(nil))
}

func (s *ComparisonService) logFailure(err error, initial, terminal Upload) {
	fields := []zap.Field{
		zap.String("initial_file", initial.Name),
		zap.String("terminal_file", terminal.Name),
		zap.Error(err),
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) || isDomainError(err) {
		s.logger.Info("comparison rejected", fields...)
		return
	}
	s.logger.Error("comparison failed", fields...)
}

func isDomainError(err error) bool {
	var (
		schemaErr *appErrors.SchemaError
		parseErr  *appErrors.ParseError
		refErr    *appErrors.ReferenceNotFoundError
	)
	return errors.As(err, &schemaErr) || errors.As(err, &parseErr) || errors.As(err, &refErr)
}
