package metrics

import (
	"runtime"
	"sync"
	"time"
)

// Default metrics, initialized by Init. They stay nil until then, so
// callers check before recording.
var (
	// RequestsTotal counts SOAP calls.
	// Labels: operation, outcome
	RequestsTotal *Counter

	// RequestDuration tracks SOAP call latency in seconds.
	// Labels: operation
	RequestDuration *Histogram

	// FaultsTotal counts SOAP faults by fault code.
	// Labels: code
	FaultsTotal *Counter

	// CatalogsLoaded is the number of catalogs held by the registry.
	CatalogsLoaded *Gauge

	// UptimeSeconds is refreshed on every scrape.
	UptimeSeconds *Gauge

	// Goroutines is refreshed on every scrape.
	Goroutines *Gauge

	defaultRegistry *Registry
	initOnce        sync.Once
)

// Init initializes the default metrics and returns the registry.
// It is idempotent.
func Init() *Registry {
	initOnce.Do(func() {
		defaultRegistry = NewRegistry()

		RequestsTotal = defaultRegistry.NewCounter(
			"olapd_xmla_requests_total",
			"Total number of XMLA SOAP calls",
			"operation", "outcome",
		)
		RequestDuration = defaultRegistry.NewHistogram(
			"olapd_xmla_request_duration_seconds",
			"Duration of XMLA SOAP calls in seconds",
			DefaultBuckets,
			"operation",
		)
		FaultsTotal = defaultRegistry.NewCounter(
			"olapd_xmla_faults_total",
			"Total number of SOAP faults returned",
			"code",
		)
		CatalogsLoaded = defaultRegistry.NewGauge(
			"olapd_catalogs_loaded",
			"Number of catalogs loaded in memory",
		)
		UptimeSeconds = defaultRegistry.NewGauge(
			"olapd_uptime_seconds",
			"Server uptime in seconds",
		)
		Goroutines = defaultRegistry.NewGauge(
			"go_goroutines",
			"Number of goroutines that currently exist",
		)

		started := time.Now()
		uptime, goroutines := UptimeSeconds, Goroutines
		defaultRegistry.OnCollect(func() {
			_ = uptime.Set(time.Since(started).Seconds())
			_ = goroutines.Set(float64(runtime.NumGoroutine()))
		})
	})
	return defaultRegistry
}

// DefaultRegistry returns the default registry, or nil before Init.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Reset clears the default metrics so Init can run again. Used by tests.
func Reset() {
	initOnce = sync.Once{}
	defaultRegistry = nil
	RequestsTotal = nil
	RequestDuration = nil
	FaultsTotal = nil
	CatalogsLoaded = nil
	UptimeSeconds = nil
	Goroutines = nil
}

// RecordRequest records one SOAP call. It is a no-op before Init.
func RecordRequest(operation, outcome string, d time.Duration) {
	if RequestsTotal != nil {
		if vec, err := RequestsTotal.WithLabels(operation, outcome); err == nil {
			_ = vec.Inc()
		}
	}
	if RequestDuration != nil {
		if vec, err := RequestDuration.WithLabels(operation); err == nil {
			vec.Observe(d.Seconds())
		}
	}
}

// RecordFault counts a fault by code. It is a no-op before Init.
func RecordFault(code string) {
	if FaultsTotal == nil {
		return
	}
	if vec, err := FaultsTotal.WithLabels(code); err == nil {
		_ = vec.Inc()
	}
}
