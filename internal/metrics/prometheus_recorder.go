package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pagesWritten  prom.Counter
	passthrough   prom.Counter
	jsminFallback prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogkit",
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogkit",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pagesWritten: prom.NewCounter(prom.CounterOpts{
			Namespace: "blogkit",
			Name:      "pages_written_total",
			Help:      "Rendered pages written to the output directory",
		}),
		passthrough: prom.NewCounter(prom.CounterOpts{
			Namespace: "blogkit",
			Name:      "passthrough_files_total",
			Help:      "Files copied verbatim into the output directory",
		}),
		jsminFallback: prom.NewCounter(prom.CounterOpts{
			Namespace: "blogkit",
			Name:      "jsmin_fallbacks_total",
			Help:      "Scripts served unminified after a minifier error",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pagesWritten, pr.passthrough, pr.jsminFallback)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddPagesWritten(n int) {
	if p == nil {
		return
	}
	p.pagesWritten.Add(float64(n))
}

func (p *PrometheusRecorder) AddPassthroughFiles(n int) {
	if p == nil {
		return
	}
	p.passthrough.Add(float64(n))
}

func (p *PrometheusRecorder) IncJSMinFallback() {
	if p == nil {
		return
	}
	p.jsminFallback.Inc()
}
