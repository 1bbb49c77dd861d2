package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome(OutcomeSuccess)
	r.AddPagesWritten(3)
	r.AddPassthroughFiles(2)
	r.IncJSMinFallback()
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncBuildOutcome(OutcomeSuccess)
	r.IncBuildOutcome(OutcomeSuccess)
	r.IncBuildOutcome(OutcomeFailed)
	r.AddPagesWritten(5)
	r.AddPassthroughFiles(4)
	r.IncJSMinFallback()
	r.ObserveBuildDuration(250 * time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(r.buildOutcome.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.buildOutcome.WithLabelValues("failed")), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(r.pagesWritten), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(r.passthrough), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.jsminFallback), 0)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "blogkit_pages_written_total 5")
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.IncJSMinFallback()
	r.AddPagesWritten(1)
}
