package runner

import (
	"errors"
	"fmt"
	"time"
)

// Outcome is the classified result of executing one notebook.
type Outcome string

const (
	Passed    Outcome = "passed"
	Exception Outcome = "exception"
	Timeout   Outcome = "timeout"
	Malformed Outcome = "malformed"
)

// Failed reports whether the outcome counts against the run.
func (o Outcome) Failed() bool { return o != Passed }

// Result is the outcome of one notebook together with what was captured
// while producing it.
type Result struct {
	Path      string
	Outcome   Outcome
	Traceback string
	Duration  time.Duration
	Err       error
}

// ErrTimeout marks an execution that exceeded its cell or wall-clock bound.
var ErrTimeout = errors.New("notebook execution timed out")

// CellError reports a cell that raised during execution.
type CellError struct {
	Traceback string
	ExitCode  int
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell raised an exception (engine exit code %d)", e.ExitCode)
}

// classify maps an executor error onto an outcome and the traceback to report.
func classify(err error) (Outcome, string) {
	if err == nil {
		return Passed, ""
	}
	if errors.Is(err, ErrTimeout) {
		return Timeout, err.Error()
	}
	var ce *CellError
	if errors.As(err, &ce) {
		return Exception, ce.Traceback
	}
	return Exception, err.Error()
}
