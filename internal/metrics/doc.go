// Package metrics provides compile, transform and build metrics for sitekiln.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default so callers never check for nil; PrometheusRecorder is wired by
// the CLI when metrics are enabled and exposed by the dev server.
//
//	rec := metrics.NewPrometheusRecorder(reg)
//	rec.ObserveCompileDuration(".html", time.Since(start))
//	rec.IncCompileResult(".html", metrics.ResultSuccess)
package metrics
