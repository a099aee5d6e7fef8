// Package prometheus exposes tokenauth engine counters through
// github.com/prometheus/client_golang.
//
// [NewCollector] adapts an engine to prometheus.Collector. Counter names are
// tokenauth_*_total and the verify latency histogram is
// tokenauth_verify_latency_seconds. [Handler] serves a private registry
// so nothing is registered globally.
package prometheus
