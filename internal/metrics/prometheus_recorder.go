package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sitekiln"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry          *prom.Registry
	compileDuration   *prom.HistogramVec
	compileResults    *prom.CounterVec
	transformDuration *prom.HistogramVec
	transformResults  *prom.CounterVec
	buildDuration     prom.Histogram
	buildOutcome      *prom.CounterVec
	liveReloadClients prom.Gauge
	liveReloadSends   prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		compileDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Duration of single file compilations by output extension",
			Buckets:   prom.DefBuckets,
		}, []string{"extension"}),
		compileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "compile_results_total",
			Help:      "Compile results by output extension and outcome",
		}, []string{"extension", "result"}),
		transformDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "transform_duration_seconds",
			Help:      "Duration of individual transform invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"transform"}),
		transformResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "transform_results_total",
			Help:      "Transform results by name and outcome",
		}, []string{"transform", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		liveReloadClients: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "livereload_clients",
			Help:      "Connected live reload clients",
		}),
		liveReloadSends: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "livereload_broadcasts_total",
			Help:      "Live reload change broadcasts",
		}),
	}
	reg.MustRegister(pr.compileDuration, pr.compileResults, pr.transformDuration, pr.transformResults,
		pr.buildDuration, pr.buildOutcome, pr.liveReloadClients, pr.liveReloadSends)
	return pr
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *PrometheusRecorder) ObserveCompileDuration(ext string, d time.Duration) {
	p.compileDuration.WithLabelValues(ext).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCompileResult(ext string, result ResultLabel) {
	p.compileResults.WithLabelValues(ext, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveTransformDuration(name string, d time.Duration) {
	p.transformDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTransformResult(name string, result ResultLabel) {
	p.transformResults.WithLabelValues(name, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetLiveReloadClients(n int) {
	p.liveReloadClients.Set(float64(n))
}

func (p *PrometheusRecorder) IncLiveReloadBroadcast() {
	p.liveReloadSends.Inc()
}
