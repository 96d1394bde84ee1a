// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Refresh cycle outcomes, durations and the scheduled next delay
//   - Per-asset fetch results and latencies
//   - Per-asset snapshot freshness
//   - HTTP request rates and WebSocket session counts
package metrics
