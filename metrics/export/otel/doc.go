// Package otel publishes tokenauth engine counters as OpenTelemetry
// asynchronous instruments.
//
// [NewExporter] registers an Int64ObservableCounter per engine counter and
// flattens the verify latency histogram into per-bucket gauges. Callers own
// the MeterProvider and pass in a Meter.
package otel
