package authclient

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by the API client.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported constant or variable used by the API client.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the API client.
	MetricLoginFailure
	// MetricRefreshSuccess is an exported constant or variable used by the API client.
	MetricRefreshSuccess
	// MetricRefreshFailure is an exported constant or variable used by the API client.
	MetricRefreshFailure
	// MetricRefreshJoined counts callers that queued behind an in-flight refresh instead of issuing their own.
	MetricRefreshJoined
	// MetricRefreshSkippedNoCredential counts expiry responses that could not be refreshed for lack of a refresh credential.
	MetricRefreshSkippedNoCredential
	// MetricProactiveRefresh is an exported constant or variable used by the API client.
	MetricProactiveRefresh
	// MetricRetryIssued is an exported constant or variable used by the API client.
	MetricRetryIssued
	// MetricRetryUnauthorized is an exported constant or variable used by the API client.
	MetricRetryUnauthorized
	// MetricExemptPassThrough is an exported constant or variable used by the API client.
	MetricExemptPassThrough
	// MetricEscalation is an exported constant or variable used by the API client.
	MetricEscalation
	// MetricLogout is an exported constant or variable used by the API client.
	MetricLogout
	// MetricRefreshLatency is an exported constant or variable used by the API client.
	MetricRefreshLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by the API client.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot defines a public type used by the API client.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled describes the enabled operation and its observable behavior.
//
// Enabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe describes the observe operation and its observable behavior.
//
// Observe does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[histBucket(d)], 1)
}

// Bucket upper bounds: 1ms, 5ms, 25ms, 100ms, 500ms, 2.5s, 10s, +Inf.
var histBounds = [histBucketCount - 1]time.Duration{
	time.Millisecond,
	5 * time.Millisecond,
	25 * time.Millisecond,
	100 * time.Millisecond,
	500 * time.Millisecond,
	2500 * time.Millisecond,
	10 * time.Second,
}

func histBucket(d time.Duration) int {
	for i, bound := range histBounds {
		if d <= bound {
			return i
		}
	}
	return histBucketCount - 1
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snapshot := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, metricIDCount),
		Histograms: make(map[MetricID][]uint64),
	}
	if m == nil || !m.enabled {
		return snapshot
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if v := atomic.LoadUint64(&m.counters[id].value); v != 0 {
			snapshot.Counters[id] = v
		}
	}
	if m.enableLatency {
		for id := MetricID(0); id < metricIDCount; id++ {
			var buckets []uint64
			for b := 0; b < histBucketCount; b++ {
				v := atomic.LoadUint64(&m.histograms[id].buckets[b])
				if v != 0 && buckets == nil {
					buckets = make([]uint64, histBucketCount)
				}
				if buckets != nil {
					buckets[b] = v
				}
			}
			if buckets != nil {
				snapshot.Histograms[id] = buckets
			}
		}
	}
	return snapshot
}
