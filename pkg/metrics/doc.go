// Package metrics exposes olapd counters, gauges and histograms in the
// Prometheus text format (text/plain; version=0.0.4).
//
// # Default Metrics
//
// Init registers the metrics recorded by the XMLA endpoint:
//
//   - olapd_xmla_requests_total: SOAP calls (labels: operation, outcome)
//   - olapd_xmla_request_duration_seconds: SOAP call latency (labels: operation)
//   - olapd_xmla_faults_total: faults returned to clients (labels: code)
//   - olapd_catalogs_loaded: catalogs held by the registry
//   - olapd_uptime_seconds and go_goroutines, refreshed on every scrape
//
// operation is the SOAP body element (Discover, Execute) or "unknown" when
// the envelope could not be parsed. outcome is "ok" or "fault".
//
// # Usage
//
//	registry := metrics.Init()
//	metrics.RecordRequest("Execute", "ok", time.Since(start))
//	http.Handle("/metrics", registry.Handler())
package metrics
