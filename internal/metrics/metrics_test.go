package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func TestPrometheusRecorder_CountsOutcomes(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncNotebookOutcome("passed")
	pr.IncNotebookOutcome("passed")
	pr.IncNotebookOutcome("timeout")
	pr.ObserveNotebookDuration("passed", 1500*time.Millisecond)
	pr.ObserveRunDuration(3 * time.Second)
	pr.IncLintIssues("no-stored-output", "error", 3)
	pr.IncLintIssues("install-header", "error", 0)
	pr.ObserveStageDuration("build", time.Second)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.outcomes.WithLabelValues("passed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.outcomes.WithLabelValues("timeout")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.lintIssues.WithLabelValues("no-stored-output", "error")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(pr.lintIssues))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncNotebookOutcome("passed")
		pr.ObserveNotebookDuration("passed", time.Second)
		pr.ObserveRunDuration(time.Second)
		pr.IncLintIssues("r", "error", 1)
		pr.ObserveStageDuration("build", time.Second)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncNotebookOutcome("exception")

	path := filepath.Join(t.TempDir(), "textfile", "bookctl.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bookctl_notebook_outcomes_total{outcome="exception"} 1`)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncNotebookOutcome("passed")

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookctl_notebook_outcomes_total")
}
