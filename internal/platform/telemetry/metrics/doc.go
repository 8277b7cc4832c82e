// Package metrics provides operational metrics collection.
//
// # Metric Categories
//
//   - Usage: verb call counts by version, verb and result
//   - Errors: error counts by version, verb and numeric code
//   - Latency: verb duration histograms
//   - Sessions: content sessions between Initialize and Terminate
//
// # Integration
//
// A Collector owns its own Prometheus registry. Commands write it in the
// text exposition format with WriteTextfile; hosts embedding the RTE can
// register Registry() with their own HTTP handler.
package metrics
