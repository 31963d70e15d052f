package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "bookctl"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	outcomes         *prom.CounterVec
	notebookDuration *prom.HistogramVec
	runDuration      prom.Histogram
	lintIssues       *prom.CounterVec
	stageDuration    *prom.HistogramVec
}

// notebookBuckets span quick notebooks up to the default ten minute timeout.
var notebookBuckets = []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.outcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "notebook_outcomes_total",
			Help:      "Notebook execution outcomes by cause",
		}, []string{"outcome"})
		pr.notebookDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "notebook_duration_seconds",
			Help:      "Wall-clock duration of individual notebook executions",
			Buckets:   notebookBuckets,
		}, []string{"outcome"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total duration of a notebook test run",
			Buckets:   prom.ExponentialBuckets(1, 2, 14),
		})
		pr.lintIssues = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "lint_issues_total",
			Help:      "Lint issues found by rule and severity",
		}, []string{"rule", "severity"})
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of build and source-doc stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		reg.MustRegister(pr.outcomes, pr.notebookDuration, pr.runDuration, pr.lintIssues, pr.stageDuration)
	})
	return pr
}

func (p *PrometheusRecorder) IncNotebookOutcome(outcome string) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveNotebookDuration(outcome string, d time.Duration) {
	if p == nil || p.notebookDuration == nil {
		return
	}
	p.notebookDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncLintIssues(rule, severity string, n int) {
	if p == nil || p.lintIssues == nil || n <= 0 {
		return
	}
	p.lintIssues.WithLabelValues(rule, severity).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
