//go:build unix

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookctl/internal/booktest"
)

func TestKernelExecutor_KillsProcessGroupAfterGrace(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "kernel.pid")
	engine := booktest.FakeEngine(t, fmt.Sprintf(`trap '' TERM
sh -c 'trap "" TERM; echo $$ > %q; exec sleep 30' &
wait`, pidFile))
	k := NewKernelExecutor([]string{engine})
	k.StartupGrace = 0
	k.KillGrace = 200 * time.Millisecond

	job := kernelJob(t, booktest.Code("x"))
	job.Timeout = 300 * time.Millisecond

	err := k.Execute(context.Background(), job)
	require.ErrorIs(t, err, ErrTimeout)

	data, err := os.ReadFile(pidFile)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return processGone(pid) }, 5*time.Second, 50*time.Millisecond, "kernel process %d survived SIGTERM", pid)
}

// processGone reports whether pid has exited. A zombie waiting for its new
// parent to reap it counts as gone.
func processGone(pid int) bool {
	if errors.Is(syscall.Kill(pid, 0), syscall.ESRCH) {
		return true
	}
	stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return false
	}
	// The state field follows the parenthesised command name.
	i := bytes.LastIndexByte(stat, ')')
	return i >= 0 && i+2 < len(stat) && stat[i+2] == 'Z'
}
