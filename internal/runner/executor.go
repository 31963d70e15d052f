package runner

import (
	"context"
	"time"

	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

// Job is one notebook handed to an Executor.
type Job struct {
	Path     string
	Notebook *notebook.Notebook
	WorkDir  string
	Kernel   string
	Timeout  time.Duration
}

// Executor runs a notebook to completion. Implementations return a
// *CellError when a cell raises and an error wrapping ErrTimeout when the
// execution exceeded its bound. Any other error is treated as an exception.
type Executor interface {
	Execute(ctx context.Context, job Job) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, job Job) error

func (f ExecutorFunc) Execute(ctx context.Context, job Job) error { return f(ctx, job) }
