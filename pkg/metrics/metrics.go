// Package metrics provides the centralized Prometheus metrics registry
// for the gateway. All metrics are defined in their respective packages
// (gateway, cache) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the gateway.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/gateway):
//   - condgate_requests_total{outcome} (Counter): Requests by outcome
//     (hit, miss, revalidated, bypass, passthrough, error)
//   - condgate_request_duration_seconds{outcome} (Histogram): Request duration by outcome
//   - condgate_not_modified_served_total (Counter): 304 responses served to clients
//   - condgate_upstream_errors_total{class} (Counter): Upstream errors by class
//     (client, server, network)
//
// Retry Metrics (pkg/gateway):
//   - condgate_retries_total{error_class} (Counter): Retry attempts by error class
//   - condgate_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - condgate_retry_exhausted_total{error_class} (Counter): Fetches that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - condgate_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - condgate_cache_misses_total (Counter): Cache misses
//   - condgate_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - condgate_revalidations_sent_total (Counter): Conditional requests sent upstream
//   - condgate_revalidations_not_modified_total (Counter): Upstream 304s reusing a cached body
//   - condgate_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(condgate_requests_total{outcome="hit"}[5m])) /
//   sum(rate(condgate_requests_total{outcome=~"hit|miss|revalidated"}[5m]))
//
//   # Revalidation Efficiency (how often stale bodies were still current)
//   rate(condgate_revalidations_not_modified_total[5m]) /
//   rate(condgate_revalidations_sent_total[5m])
//
//   # Upstream Error Rate
//   rate(condgate_upstream_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(condgate_request_duration_seconds_bucket[5m]))
//
//   # Client 304 Rate
//   rate(condgate_not_modified_served_total[5m]) / rate(condgate_requests_total[5m])
