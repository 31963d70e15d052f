//go:build !unix

package runner

import (
	"os/exec"
	"time"
)

func setProcessGroup(*exec.Cmd, time.Duration) {}
