// Package metrics records notebook run and lint statistics.
//
// Components receive a Recorder and default to NoopRecorder, so callers never
// check for nil:
//
//	r := runner.New(exec, opts) // records nothing
//	r.WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// A PrometheusRecorder registers its collectors on the given registry. After a
// one-shot command the registry is written as a node-exporter textfile with
// WriteTextfile; long-running commands can expose it over HTTP with
// HTTPHandler.
package metrics
