// Package metric provides Prometheus metrics for respkv.
//
//   - prometheus.go: registry, command and connection metrics, HTTP handler
//   - collector.go: collector that samples the key-value store on scrape
//
// Metrics are exposed at /metrics by the admin HTTP server.
package metric
