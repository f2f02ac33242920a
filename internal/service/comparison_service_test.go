package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	"github.com/noah-isme/fund-dynamics-api/internal/repository"
	"github.com/noah-isme/fund-dynamics-api/pkg/config"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
)

type staticReferences struct {
	set *models.ReferenceSet
	err error
}

func (s staticReferences) Current(ctx context.Context) (*models.ReferenceSet, error) {
	return s.set, s.err
}

type usageRecorderStub struct {
	mu      sync.Mutex
	entries []models.UsageEvent
}

func (u *usageRecorderStub) Record(ctx context.Context, event models.UsageEvent, initialFile, terminalFile string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.entries = append(u.entries, event)
	return nil
}

type memoryCache struct {
	values map[string]*models.ComparisonResult
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*dest.(*models.ComparisonResult) = *v
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.values[key] = value.(*models.ComparisonResult)
	return nil
}

var snapshotHeader = []interface{}{"Скважина", "Состояние", "Категория", "Способ эксплуатации", "Причина простоя"}

func newComparisonServiceForTest(t *testing.T, refs referenceProvider, cache resultCache) (*ComparisonService, *usageRecorderStub, *MetricsService) {
	t.Helper()
	exports, _ := newExportServiceForTest(t)
	reader := NewSnapshotReader(config.SnapshotConfig{Sheet: "Отчет", SkipRows: 4, MaxRows: 100})
	usage := &usageRecorderStub{}
	metrics := NewMetricsService()
	svc := NewComparisonService(reader, refs, exports, cache, usage, metrics,
		ComparisonConfig{Filter: DefaultSnapshotFilter(), CacheTTL: time.Minute}, zap.NewNop())
	return svc, usage, metrics
}

func TestComparisonServiceCompare(t *testing.T) {
	svc, usage, metrics := newComparisonServiceForTest(t, staticReferences{set: referenceFixture()}, nil)
	initial := Upload{Name: "01.05.xlsx", Data: snapshotWorkbook(t, [][]interface{}{
		snapshotHeader,
		{"W1", "В работе", "Нефтяная", "ЭЦН", ""},
		{"W3", "В работе", "Нефтяная", "ШГН", ""},
	})}
	terminal := Upload{Name: "01.06.xlsx", Data: snapshotWorkbook(t, [][]interface{}{
		snapshotHeader,
		{"W3", "В простое", "Нефтяная", "ЭЦН", "ремонт"},
		{"W2", "В работе", "Нефтяная", "ЭЦН", ""},
	})}

	result, err := svc.Compare(context.Background(), initial, terminal)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "fixture", result.References)
	assert.Equal(t, models.ReportSummary{Exited: 1, Entered: 1, ModeChanged: 1, Wells: 3}, result.Report.Summary)
	assert.Len(t, result.Downloads, 2)
	assert.Equal(t, []models.UsageEvent{models.UsageProcessedFiles}, usage.entries)
	assert.Equal(t, uint64(1), metrics.Snapshot().ComparisonsTotal)
}

func TestComparisonServiceSchemaErrorWritesNothing(t *testing.T) {
	svc, usage, metrics := newComparisonServiceForTest(t, staticReferences{set: referenceFixture()}, nil)
	good := Upload{Name: "a.xlsx", Data: snapshotWorkbook(t, [][]interface{}{snapshotHeader, {"W1", "В работе", "Нефтяная", "ЭЦН", ""}})}
	bad := Upload{Name: "b.xlsx", Data: snapshotWorkbook(t, [][]interface{}{{"Скважина", "Состояние"}, {"W1", "В работе"}})}

	result, err := svc.Compare(context.Background(), good, bad)
	require.Error(t, err)
	assert.Nil(t, result)
	var schemaErr *appErrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "b.xlsx", schemaErr.Table)
	assert.Empty(t, usage.entries)
	assert.Equal(t, uint64(1), metrics.Snapshot().ComparisonsFailed)
}

func TestComparisonServiceMissingReferences(t *testing.T) {
	refErr := &appErrors.ReferenceNotFoundError{Name: models.ReferenceOrg, Path: "./data/org_structure.csv"}
	svc, _, _ := newComparisonServiceForTest(t, staticReferences{err: refErr}, nil)

	_, err := svc.Compare(context.Background(), Upload{Name: "a"}, Upload{Name: "b"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReferenceNotFound.Status, appErrors.FromError(err).Status)
}

func TestComparisonServiceUsesCache(t *testing.T) {
	cache := &memoryCache{values: map[string]*models.ComparisonResult{}}
	svc, usage, metrics := newComparisonServiceForTest(t, staticReferences{set: referenceFixture()}, cache)
	initial := Upload{Name: "a.xlsx", Data: snapshotWorkbook(t, [][]interface{}{snapshotHeader, {"W1", "В работе", "Нефтяная", "ЭЦН", ""}})}
	terminal := Upload{Name: "b.xlsx", Data: snapshotWorkbook(t, [][]interface{}{snapshotHeader})}

	first, err := svc.Compare(context.Background(), initial, terminal)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Compare(context.Background(), initial, terminal)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Report, second.Report)
	assert.Len(t, usage.entries, 2)
	assert.Equal(t, uint64(1), metrics.Snapshot().CacheHits)
}

type switchableCache struct {
	memoryCache
	enabled bool
}

func (c *switchableCache) Enabled() bool {
	return c.enabled
}

func TestComparisonServiceSkipsDisabledCache(t *testing.T) {
	cache := &switchableCache{memoryCache: memoryCache{values: map[string]*models.ComparisonResult{}}}
	svc, _, metrics := newComparisonServiceForTest(t, staticReferences{set: referenceFixture()}, cache)
	initial := Upload{Name: "a.xlsx", Data: snapshotWorkbook(t, [][]interface{}{snapshotHeader, {"W1", "В работе", "Нефтяная", "ЭЦН", ""}})}
	terminal := Upload{Name: "b.xlsx", Data: snapshotWorkbook(t, [][]interface{}{snapshotHeader})}

	for i := 0; i < 2; i++ {
		result, err := svc.Compare(context.Background(), initial, terminal)
		require.NoError(t, err)
		assert.False(t, result.Cached)
	}
	snapshot := metrics.Snapshot()
	assert.Zero(t, snapshot.CacheHits)
	assert.Zero(t, snapshot.CacheMisses)
	assert.Empty(t, cache.values)
}

func TestComparisonServiceSkipsCacheRepositoryWithoutClient(t *testing.T) {
	svc, _, metrics := newComparisonServiceForTest(t, staticReferences{set: referenceFixture()}, repository.NewCacheRepository(nil, nil))
	initial := Upload{Name: "a.xlsx", Data: snapshotWorkbook(t, [][]interface{}{snapshotHeader, {"W1", "В работе", "Нефтяная", "ЭЦН", ""}})}
	terminal := Upload{Name: "b.xlsx", Data: snapshotWorkbook(t, [][]interface{}{snapshotHeader})}

	_, err := svc.Compare(context.Background(), initial, terminal)
	require.NoError(t, err)
	assert.Zero(t, metrics.Snapshot().CacheMisses)
}
