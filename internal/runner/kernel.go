package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// DefaultEngine is the command that executes a notebook headlessly.
	DefaultEngine = []string{"jupyter", "nbconvert"}

	// A cell that raises, TimeoutError included, surfaces as CellExecutionError;
	// only the executor's own cell deadline surfaces as CellTimeoutError.
	cellErrorPattern   = regexp.MustCompile(`\bCellExecutionError\b`)
	cellTimeoutPattern = regexp.MustCompile(`\bCellTimeoutError\b`)
)

const (
	defaultStartupGrace = 60 * time.Second
	defaultKillGrace    = 5 * time.Second
)

// KernelExecutor executes a notebook in a fresh engine subprocess. The
// subprocess runs in its own process group; when its deadline passes the
// group receives SIGTERM, then SIGKILL after KillGrace.
type KernelExecutor struct {
	// Command is the engine binary followed by its leading arguments.
	Command []string
	// Env is appended to the inherited environment.
	Env []string
	// StartupGrace is added to the wall-clock bound for kernel start-up.
	StartupGrace time.Duration
	KillGrace    time.Duration
	// Stdout receives the engine's standard output. Nil discards it.
	Stdout io.Writer
}

// NewKernelExecutor returns an executor for the given engine command.
// An empty command selects DefaultEngine.
func NewKernelExecutor(command []string) *KernelExecutor {
	if len(command) == 0 {
		command = DefaultEngine
	}
	return &KernelExecutor{
		Command:      append([]string(nil), command...),
		StartupGrace: defaultStartupGrace,
		KillGrace:    defaultKillGrace,
	}
}

// Args returns the full engine argument list for job, binary excluded.
func (k *KernelExecutor) Args(job Job, nbPath string) []string {
	args := append([]string(nil), k.Command[1:]...)
	return append(args,
		"--to", "notebook",
		"--execute",
		"--stdout",
		"--ExecutePreprocessor.timeout="+cellTimeout(job.Timeout),
		"--ExecutePreprocessor.kernel_name="+job.Kernel,
		nbPath,
	)
}

// Bound returns the wall-clock limit for job: the cell timeout for every
// code cell (at least one) plus the start-up grace. Zero means unbounded.
func (k *KernelExecutor) Bound(job Job) time.Duration {
	if job.Timeout <= 0 {
		return 0
	}
	cells := 1
	if job.Notebook != nil {
		cells = max(cells, len(job.Notebook.CodeCells()))
	}
	return job.Timeout*time.Duration(cells) + k.StartupGrace
}

// Execute runs the engine on job.Path with job.WorkDir as working directory.
func (k *KernelExecutor) Execute(ctx context.Context, job Job) error {
	if len(k.Command) == 0 || k.Command[0] == "" {
		return errors.New("engine command is empty")
	}
	nbPath, err := filepath.Abs(job.Path)
	if err != nil {
		return fmt.Errorf("resolve notebook path: %w", err)
	}

	runCtx := ctx
	if bound := k.Bound(job); bound > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, bound)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, k.Command[0], k.Args(job, nbPath)...) //nolint:gosec // engine command is operator configuration
	c.Dir = job.WorkDir
	if len(k.Env) > 0 {
		c.Env = append(os.Environ(), k.Env...)
	}
	var stderr bytes.Buffer
	c.Stdout = k.Stdout
	if c.Stdout == nil {
		c.Stdout = io.Discard
	}
	c.Stderr = &stderr
	setProcessGroup(c, k.KillGrace)
	c.WaitDelay = k.KillGrace

	runErr := c.Run()
	if runErr == nil {
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("engine stopped: %w", ctx.Err())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: exceeded %s", ErrTimeout, k.Bound(job))
	}
	if !cellErrorPattern.Match(stderr.Bytes()) && cellTimeoutPattern.Match(stderr.Bytes()) {
		return fmt.Errorf("%w: %s", ErrTimeout, lastLine(stderr.String()))
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return &CellError{Traceback: strings.TrimSpace(stderr.String()), ExitCode: exitErr.ExitCode()}
	}
	return fmt.Errorf("start engine %s: %w", k.Command[0], runErr)
}

func cellTimeout(d time.Duration) string {
	if d <= 0 {
		return "-1"
	}
	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return strconv.FormatInt(secs, 10)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
