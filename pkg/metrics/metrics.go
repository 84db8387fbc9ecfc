// Package metrics provides the central Prometheus registry reference for the
// IT Glue client. All metrics are defined with promauto in their respective
// packages (client, retry, pagination, cache) to maintain modularity and
// avoid circular dependencies.
//
// This package documents what is available.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by the client. All
// metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - itglue_requests_total{path, status} (Counter): Requests by path and HTTP status
//   - itglue_request_duration_seconds{path} (Histogram): Request duration by path
//   - itglue_errors_total{kind} (Counter): Errors by kind (rate_limited, timeout,
//     not_found, inconsistent, auth_failed, unexpected)
//
// Retry Metrics (pkg/retry):
//   - itglue_retries_total{class} (Counter): Retry attempts by failure class
//   - itglue_retry_backoff_seconds{class} (Histogram): Backoff duration by class
//   - itglue_retry_exhausted_total{class} (Counter): Spent retry budgets by class
//   - itglue_page_size_shrinks_total (Counter): Adaptive page-size reductions
//
// Pagination Metrics (pkg/pagination):
//   - itglue_pages_fetched_total{path} (Counter): Pages fetched by path
//   - itglue_fetch_duration_seconds{path} (Histogram): Complete fetch duration
//   - itglue_fetch_inconsistent_total (Counter): Fetches aborted on count mismatch
//
// Cache Metrics (pkg/cache):
//   - itglue_cache_hits_total (Counter): Cache hits
//   - itglue_cache_misses_total (Counter): Cache misses
//   - itglue_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Rate-limit pressure
//   rate(itglue_retries_total{class="rate_limit"}[15m])
//
//   # Cache hit rate
//   rate(itglue_cache_hits_total[5m]) /
//   (rate(itglue_cache_hits_total[5m]) + rate(itglue_cache_misses_total[5m]))
//
//   # P95 request latency
//   histogram_quantile(0.95, rate(itglue_request_duration_seconds_bucket[5m]))
