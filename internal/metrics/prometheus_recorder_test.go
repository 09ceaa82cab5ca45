package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveCompileDuration(".html", 15*time.Millisecond)
	pr.IncCompileResult(".html", ResultSuccess)
	pr.IncCompileResult(".html", ResultSuccess)
	pr.ObserveTransformDuration("doctype", time.Millisecond)
	pr.IncTransformResult("doctype", ResultSkipped)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.SetLiveReloadClients(3)
	pr.IncLiveReloadBroadcast()

	assert.InDelta(t, 2, testutil.ToFloat64(pr.compileResults.WithLabelValues(".html", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.transformResults.WithLabelValues("doctype", "skipped")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.liveReloadClients), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildOutcomeFailed)

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sitekiln_build_outcomes_total{outcome="failed"} 1`)
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, NoopRecorder{}, OrNoop(nil))
	pr := NewPrometheusRecorder(nil)
	assert.Same(t, pr, OrNoop(pr))
}
