package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookctl/internal/booktest"
	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

func kernelJob(t *testing.T, cells ...booktest.CellSpec) Job {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "nb.ipynb")
	require.NoError(t, os.WriteFile(path, []byte(booktest.NotebookJSON(cells...)), 0o600))
	nb, err := notebook.Load(path)
	require.NoError(t, err)
	return Job{Path: path, Notebook: nb, WorkDir: dir, Kernel: "python3", Timeout: 600 * time.Second}
}

func TestKernelExecutor_Args(t *testing.T) {
	k := NewKernelExecutor(nil)
	job := Job{Kernel: "py311", Timeout: 90 * time.Second}

	args := k.Args(job, "/abs/nb.ipynb")
	assert.Equal(t, []string{
		"nbconvert", "--to", "notebook", "--execute", "--stdout",
		"--ExecutePreprocessor.timeout=90",
		"--ExecutePreprocessor.kernel_name=py311",
		"/abs/nb.ipynb",
	}, args)
	assert.Equal(t, "jupyter", k.Command[0])
}

func TestKernelExecutor_Bound(t *testing.T) {
	k := &KernelExecutor{StartupGrace: 10 * time.Second}

	job := kernelJob(t, booktest.Code("a"), booktest.Markdown("m"), booktest.Code("b"))
	job.Timeout = time.Minute
	assert.Equal(t, 2*time.Minute+10*time.Second, k.Bound(job))

	job = kernelJob(t, booktest.Markdown("m"))
	job.Timeout = time.Minute
	assert.Equal(t, time.Minute+10*time.Second, k.Bound(job))

	job.Timeout = 0
	assert.Zero(t, k.Bound(job))
}

func TestKernelExecutor_Passes(t *testing.T) {
	out := filepath.Join(t.TempDir(), "invocation")
	engine := booktest.FakeEngine(t, `pwd > "`+out+`"; echo "$@" >> "`+out+`"; exit 0`)
	k := NewKernelExecutor([]string{engine, "nbconvert"})
	job := kernelJob(t, booktest.Code("x = 1"))

	require.NoError(t, k.Execute(context.Background(), job))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)
	require.Len(t, lines, 2)

	wantDir, err := filepath.EvalSymlinks(job.WorkDir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
	assert.Contains(t, lines[1], "--ExecutePreprocessor.kernel_name=python3")
	assert.True(t, strings.HasSuffix(lines[1], job.Path))
}

func TestKernelExecutor_CellException(t *testing.T) {
	engine := booktest.FakeEngine(t, `echo "Traceback (most recent call last):" >&2
echo "ZeroDivisionError: division by zero" >&2
exit 1`)
	k := NewKernelExecutor([]string{engine})

	err := k.Execute(context.Background(), kernelJob(t, booktest.Code("1/0")))

	var ce *CellError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.ExitCode)
	assert.Contains(t, ce.Traceback, "ZeroDivisionError")
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestKernelExecutor_CellTimeoutReportedByEngine(t *testing.T) {
	engine := booktest.FakeEngine(t, `echo "nbclient.exceptions.CellTimeoutError: A cell timed out while it was being executed" >&2
exit 1`)
	k := NewKernelExecutor([]string{engine})

	err := k.Execute(context.Background(), kernelJob(t, booktest.Code("while True: pass")))
	require.ErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "CellTimeoutError")
}

func TestKernelExecutor_RaisedTimeoutErrorIsException(t *testing.T) {
	engine := booktest.FakeEngine(t, `cat >&2 <<'TRACE'
nbclient.exceptions.CellExecutionError: An error occurred while executing the following cell:
------------------
raise TimeoutError("db")
------------------
TimeoutError: db
TRACE
exit 1`)
	k := NewKernelExecutor([]string{engine})

	err := k.Execute(context.Background(), kernelJob(t, booktest.Code(`raise TimeoutError("db")`)))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)

	var ce *CellError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Traceback, "TimeoutError: db")

	outcome, traceback := classify(err)
	assert.Equal(t, Exception, outcome)
	assert.Contains(t, traceback, "CellExecutionError")
}

func TestKernelExecutor_WallClockTimeout(t *testing.T) {
	engine := booktest.FakeEngine(t, `exec sleep 30`)
	k := NewKernelExecutor([]string{engine})
	k.StartupGrace = 0
	k.KillGrace = time.Second

	job := kernelJob(t, booktest.Code("import time; time.sleep(30)"))
	job.Timeout = 200 * time.Millisecond

	start := time.Now()
	err := k.Execute(context.Background(), job)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestKernelExecutor_ParentCancel(t *testing.T) {
	engine := booktest.FakeEngine(t, `exec sleep 30`)
	k := NewKernelExecutor([]string{engine})
	k.KillGrace = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	err := k.Execute(ctx, kernelJob(t, booktest.Code("x")))
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestKernelExecutor_MissingEngine(t *testing.T) {
	k := NewKernelExecutor([]string{filepath.Join(t.TempDir(), "no-such-engine")})

	err := k.Execute(context.Background(), kernelJob(t, booktest.Code("x")))
	require.Error(t, err)
	var ce *CellError
	assert.False(t, errors.As(err, &ce))
	o, _ := classify(err)
	assert.Equal(t, Exception, o)
}
