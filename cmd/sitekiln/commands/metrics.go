package commands

import (
	"net/http"

	"git.home.luguber.info/inful/sitekiln/internal/config"
	"git.home.luguber.info/inful/sitekiln/internal/metrics"
)

type recorderSet struct {
	recorder metrics.Recorder
	handler  http.Handler
}

// newRecorder returns a Prometheus recorder when metrics are enabled.
func newRecorder(cfg *config.Config) recorderSet {
	if !cfg.Metrics.Enabled {
		return recorderSet{recorder: metrics.NoopRecorder{}}
	}
	pr := metrics.NewPrometheusRecorder(nil)
	return recorderSet{recorder: pr, handler: pr.Handler()}
}
