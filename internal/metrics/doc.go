// Package metrics records render and watch activity.
//
// Components receive a Recorder and default to NoopRecorder, so metrics cost
// nothing unless a PrometheusRecorder is injected:
//
//	reg := prometheus.NewRegistry()
//	opts.Recorder = metrics.NewPrometheusRecorder(reg)
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
