// Package metrics records counters for renders, validation and link checks.
//
// Components take a Recorder and default to NoopRecorder. The CLI swaps in a
// PrometheusRecorder when --metrics-file is set and writes the registry as a
// node-exporter textfile when the command finishes:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	gen := generator.New(cfg, generator.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
