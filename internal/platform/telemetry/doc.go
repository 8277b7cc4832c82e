// Package telemetry groups the operational observability of the RTE tools.
//
// # Call Metrics (telemetry/metrics)
//
// Every verb an RTE instance serves is counted and timed by version, verb
// and reported error code. Active content sessions are tracked between a
// successful Initialize and Terminate.
//
// # Tracing
//
// Spans are exported through OpenTelemetry when the otel provider is
// configured (see internal/platform/otel). Metrics and traces are opt-in and
// never change what content observes.
package telemetry
