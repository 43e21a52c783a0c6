// Package prometheus provides Prometheus collectors for goOAuth metrics.
//
// [NewPrometheusExporter] accepts a [goOAuth.Engine] and exposes an
// [http.Handler] that renders all goOAuth counters and histograms in
// Prometheus text exposition format. Counter names are prefixed
// gooauth_*_total; the single histogram is gooauth_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
