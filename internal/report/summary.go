// Package report turns notebook run results into a pass/fail summary and
// renders it for people or machines.
package report

import (
	"git.home.luguber.info/inful/bookctl/internal/runner"
)

// Failure is one notebook that did not pass.
type Failure struct {
	Cause     runner.Outcome
	Path      string
	Traceback string
}

// Summary aggregates the results of one run.
type Summary struct {
	RunID    string
	Total    int
	Passed   int
	Failures []Failure
	Results  []runner.Result
}

// Summarize collects failures in input order. It has no side effects.
func Summarize(results []runner.Result) Summary {
	s := Summary{Total: len(results), Results: results}
	for _, r := range results {
		if !r.Outcome.Failed() {
			s.Passed++
			continue
		}
		s.Failures = append(s.Failures, Failure{Cause: r.Outcome, Path: r.Path, Traceback: r.Traceback})
	}
	return s
}

// OK reports whether every notebook passed.
func (s Summary) OK() bool { return len(s.Failures) == 0 }

// ExitCode is 0 when every notebook passed and 1 otherwise. Timeouts,
// exceptions and malformed documents count alike.
func (s Summary) ExitCode() int {
	if s.OK() {
		return 0
	}
	return 1
}
