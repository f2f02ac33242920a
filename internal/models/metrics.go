package models

import "time"

// ServiceMetrics is a lightweight snapshot of runtime counters.
type ServiceMetrics struct {
	ComparisonsTotal          uint64    `json:"comparisonsTotal"`
	ComparisonsFailed         uint64    `json:"comparisonsFailed"`
	AverageComparisonMs       float64   `json:"averageComparisonMs"`
	CacheHitRatio             float64   `json:"cacheHitRatio"`
	CacheHits                 uint64    `json:"cacheHits"`
	CacheMisses               uint64    `json:"cacheMisses"`
	RequestsTotal             uint64    `json:"requestsTotal"`
	AverageRequestDurationMs  float64   `json:"averageRequestDurationMs"`
	UsageWrites               uint64    `json:"usageWrites"`
	AverageUsageWriteDuration float64   `json:"averageUsageWriteMs"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generatedAt"`
}
