// Package metrics provides build metrics for blogkit.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// never need nil checks. The preview server swaps in a PrometheusRecorder
// and exposes its registry on /metrics.
package metrics
