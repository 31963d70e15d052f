//go:build unix

package runner

import (
	"os/exec"
	"syscall"
	"time"
)

// setProcessGroup puts the engine in its own process group so the kernel it
// spawns is signalled with it. Cancellation sends SIGTERM to the group and
// SIGKILL after grace.
func setProcessGroup(c *exec.Cmd, grace time.Duration) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		pgid := -c.Process.Pid
		time.AfterFunc(grace, func() {
			_ = syscall.Kill(pgid, syscall.SIGKILL)
		})
		return syscall.Kill(pgid, syscall.SIGTERM)
	}
}
