package service

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	"github.com/noah-isme/fund-dynamics-api/pkg/config"
)

type referenceLoader interface {
	Load(ctx context.Context) (*models.ReferenceSet, error)
}

type resultInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ReferenceService owns the current reference set and decides when it is reloaded.
type ReferenceService struct {
	loader  referenceLoader
	policy  string
	current atomic.Pointer[models.ReferenceSet]
	cache   resultInvalidator
	metrics *MetricsService
	logger  *zap.Logger

	reloadMu sync.Mutex
	errMu    sync.RWMutex
	lastErr  error
}

// NewReferenceService constructs the service. cache may be nil.
func NewReferenceService(loader referenceLoader, policy string, cache resultInvalidator, metrics *MetricsService, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy != config.ReloadPerRequest {
		policy = config.ReloadOnStartup
	}
	return &ReferenceService{loader: loader, policy: policy, cache: cache, metrics: metrics, logger: logger}
}

// Current returns the reference set for one comparison. Under the per-request
// policy the tables are re-read every time; otherwise the loaded set is reused
// and only loaded lazily when the startup load failed.
func (s *ReferenceService) Current(ctx context.Context) (*models.ReferenceSet, error) {
	if s.policy == config.ReloadPerRequest {
		return s.Reload(ctx)
	}
	if set := s.current.Load(); set != nil {
		return set, nil
	}
	return s.Reload(ctx)
}

// Reload reads the tables again and swaps them in when they load cleanly. A
// failed reload keeps the previous set in place.
func (s *ReferenceService) Reload(ctx context.Context) (*models.ReferenceSet, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	set, err := s.loader.Load(ctx)
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
	if err != nil {
		s.logger.Warn("reference load failed", zap.Error(err))
		return nil, err
	}

	previous := s.current.Swap(set)
	s.metrics.SetReferenceRows(set)
	if previous == nil || previous.Version != set.Version {
		s.logger.Info("reference tables loaded",
			zap.String("version", set.Version),
			zap.Int(models.ReferenceOrg, len(set.Org)),
			zap.Int(models.ReferenceDevices, len(set.Devices)),
			zap.Int(models.ReferenceCommissioning, len(set.Commissioning)),
		)
		if previous != nil && s.cache != nil {
			if err := s.cache.DeleteByPattern(ctx, comparisonCachePrefix+"*"); err != nil {
				s.logger.Warn("failed to invalidate cached comparisons", zap.Error(err))
			}
		}
	}
	return set, nil
}

// Ready reports whether a reference set is available.
func (s *ReferenceService) Ready() bool {
	return s.current.Load() != nil
}

// Status describes the loaded tables.
func (s *ReferenceService) Status() models.ReferenceStatus {
	status := models.ReferenceStatus{Policy: s.policy}
	s.errMu.RLock()
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	s.errMu.RUnlock()

	set := s.current.Load()
	if set == nil {
		return status
	}
	loadedAt := set.LoadedAt
	status.Loaded = true
	status.Version = set.Version
	status.LoadedAt = &loadedAt
	status.Rows = map[string]int{
		models.ReferenceOrg:           len(set.Org),
		models.ReferenceDevices:       len(set.Devices),
		models.ReferenceCommissioning: len(set.Commissioning),
	}
	return status
}
