package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	comparisonTotal    *prometheus.CounterVec
	comparisonDuration prometheus.Histogram
	eventsTotal        *prometheus.CounterVec
	downloadsTotal     *prometheus.CounterVec
	referenceRows      *prometheus.GaugeVec
	cacheHitRatio      prometheus.Gauge
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	usageWrite         *prometheus.HistogramVec

	cacheHitCount           uint64
	cacheMissCount          uint64
	requestCount            uint64
	requestDurationTotal    uint64
	comparisonCount         uint64
	comparisonFailures      uint64
	comparisonDurationSum   uint64
	usageWriteCount         uint64
	usageWriteDurationTotal uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	comparisonTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fund_comparisons_total",
		Help: "Snapshot comparisons by outcome",
	}, []string{"outcome"})

	comparisonDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fund_comparison_duration_seconds",
		Help:    "Time spent parsing, diffing and rendering one comparison",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	eventsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fund_events_total",
		Help: "Well events reported, by kind",
	}, []string{"kind"})

	downloadsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fund_report_downloads_total",
		Help: "Report downloads by format",
	}, []string{"format"})

	referenceRows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fund_reference_rows",
		Help: "Rows in the loaded reference tables",
	}, []string{"table"})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	usageWrite := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "usage_log_write_seconds",
		Help:    "Duration of usage log appends",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, comparisonTotal, comparisonDuration, eventsTotal,
		downloadsTotal, referenceRows, cacheHitRatio, cacheHits, cacheMisses, usageWrite, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		comparisonTotal:    comparisonTotal,
		comparisonDuration: comparisonDuration,
		eventsTotal:        eventsTotal,
		downloadsTotal:     downloadsTotal,
		referenceRows:      referenceRows,
		cacheHitRatio:      cacheHitRatio,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		usageWrite:         usageWrite,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveComparison records one finished comparison. A nil summary marks a failure.
func (m *MetricsService) ObserveComparison(summary *models.ReportSummary, duration time.Duration) {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.comparisonCount, 1)
	if summary == nil {
		m.comparisonTotal.WithLabelValues("failed").Inc()
		atomic.AddUint64(&m.comparisonFailures, 1)
		return
	}
	m.comparisonTotal.WithLabelValues("ok").Inc()
	m.comparisonDuration.Observe(duration.Seconds())
	atomic.AddUint64(&m.comparisonDurationSum, uint64(duration.Nanoseconds()))
	m.eventsTotal.WithLabelValues(string(models.EventExited)).Add(float64(summary.Exited))
	m.eventsTotal.WithLabelValues(string(models.EventEntered)).Add(float64(summary.Entered))
	m.eventsTotal.WithLabelValues(string(models.EventModeChanged)).Add(float64(summary.ModeChanged))
}

// ObserveDownload counts a served report file.
func (m *MetricsService) ObserveDownload(format models.ReportFormat) {
	if m == nil {
		return
	}
	m.downloadsTotal.WithLabelValues(string(format)).Inc()
}

// SetReferenceRows publishes the size of a freshly loaded reference set.
func (m *MetricsService) SetReferenceRows(set *models.ReferenceSet) {
	if m == nil || set == nil {
		return
	}
	m.referenceRows.WithLabelValues(models.ReferenceOrg).Set(float64(len(set.Org)))
	m.referenceRows.WithLabelValues(models.ReferenceDevices).Set(float64(len(set.Devices)))
	m.referenceRows.WithLabelValues(models.ReferenceCommissioning).Set(float64(len(set.Commissioning)))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveUsageWrite records usage log append timing.
func (m *MetricsService) ObserveUsageWrite(err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.usageWrite.WithLabelValues(outcome).Observe(duration.Seconds())
	atomic.AddUint64(&m.usageWriteCount, 1)
	atomic.AddUint64(&m.usageWriteDurationTotal, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated counters for the metrics summary endpoint.
func (m *MetricsService) Snapshot() models.ServiceMetrics {
	if m == nil {
		return models.ServiceMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	comparisons := atomic.LoadUint64(&m.comparisonCount)
	failures := atomic.LoadUint64(&m.comparisonFailures)
	cmpDuration := atomic.LoadUint64(&m.comparisonDurationSum)
	writes := atomic.LoadUint64(&m.usageWriteCount)
	writeDuration := atomic.LoadUint64(&m.usageWriteDurationTotal)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}

	return models.ServiceMetrics{
		ComparisonsTotal:          comparisons,
		ComparisonsFailed:         failures,
		AverageComparisonMs:       averageMs(cmpDuration, comparisons-failures),
		CacheHitRatio:             cacheRatio,
		CacheHits:                 hits,
		CacheMisses:               misses,
		RequestsTotal:             requests,
		AverageRequestDurationMs:  averageMs(reqDuration, requests),
		UsageWrites:               writes,
		AverageUsageWriteDuration: averageMs(writeDuration, writes),
		Goroutines:                runtime.NumGoroutine(),
		GeneratedAt:               time.Now().UTC(),
	}
}

func averageMs(totalNanos, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}
