// Package runner executes notebooks one at a time and classifies each
// execution as passed, exception, timeout or malformed.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/bookctl/internal/logfields"
	"git.home.luguber.info/inful/bookctl/internal/metrics"
	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

// Runner executes a batch of notebooks sequentially.
type Runner struct {
	executor Executor
	opts     Options
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// New returns a Runner that executes notebooks with executor.
func New(executor Executor, opts Options) *Runner {
	return &Runner{
		executor: executor,
		opts:     opts,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
}

// WithRecorder attaches a metrics recorder.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// WithLogger sets the logger progress lines are written to.
func (r *Runner) WithLogger(l *slog.Logger) *Runner {
	if l != nil {
		r.logger = l
	}
	return r
}

// Run executes paths in order and returns one result per notebook started.
// A failing notebook never stops the batch. Once ctx is done no further
// notebook is started, and a notebook interrupted by it is not reported.
func (r *Runner) Run(ctx context.Context, paths []string) []Result {
	start := r.now()
	results := make([]Result, 0, len(paths))
	for i, p := range paths {
		if ctx.Err() != nil {
			r.logger.Warn("Run canceled, remaining notebooks skipped", logfields.Count(len(paths)-i))
			break
		}
		r.logger.Info(fmt.Sprintf("Running %s : %d / %d", p, i+1, len(paths)), logfields.Notebook(p))

		res := r.runOne(ctx, p)
		if ctx.Err() != nil && res.Outcome != Passed && res.Outcome != Malformed {
			break
		}
		r.record(res)
		results = append(results, res)
	}
	r.recorder.ObserveRunDuration(r.now().Sub(start))
	return results
}

func (r *Runner) runOne(ctx context.Context, path string) Result {
	start := r.now()
	res := Result{Path: path}

	nb, err := notebook.Load(path)
	if err != nil {
		res.Outcome = Malformed
		res.Err = err
		res.Traceback = err.Error()
		res.Duration = r.now().Sub(start)
		return res
	}

	if len(nb.CodeCells()) == 0 {
		res.Outcome = Passed
		res.Duration = r.now().Sub(start)
		return res
	}

	job := Job{
		Path:     path,
		Notebook: nb,
		WorkDir:  r.opts.WorkDir(path),
		Kernel:   r.opts.Kernel,
		Timeout:  r.opts.Timeout,
	}
	err = r.executor.Execute(ctx, job)
	res.Duration = r.now().Sub(start)
	res.Outcome, res.Traceback = classify(err)
	res.Err = err
	return res
}

func (r *Runner) record(res Result) {
	outcome := string(res.Outcome)
	r.recorder.IncNotebookOutcome(outcome)
	r.recorder.ObserveNotebookDuration(outcome, res.Duration)

	attrs := []any{
		logfields.Notebook(res.Path),
		logfields.Outcome(outcome),
		logfields.DurationMS(float64(res.Duration.Microseconds()) / 1000),
	}
	if res.Outcome.Failed() {
		r.logger.Warn("Notebook failed", append(attrs, logfields.Error(res.Err))...)
		return
	}
	r.logger.Debug("Notebook passed", attrs...)
}
