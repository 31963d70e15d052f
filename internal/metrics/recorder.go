package metrics

import "time"

// Recorder defines observability hooks for notebook runs, lint passes and
// build stages. Outcome values are the runner outcome names (passed,
// exception, timeout, malformed).
type Recorder interface {
	IncNotebookOutcome(outcome string)
	ObserveNotebookDuration(outcome string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncLintIssues(rule, severity string, n int)
	ObserveStageDuration(stage string, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncNotebookOutcome(string)                     {}
func (NoopRecorder) ObserveNotebookDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)              {}
func (NoopRecorder) IncLintIssues(string, string, int)             {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration)    {}
