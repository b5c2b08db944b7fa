// Package metrics provides observability hooks for aggregation runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks at call sites:
//
//	p := aggregate.New(cfg, src, aggregate.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// PrometheusRecorder backs both the serve command's /metrics endpoint and the
// node-exporter textfile written by `build --metrics-file`.
package metrics
