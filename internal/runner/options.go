package runner

import (
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/bookctl/internal/errors"
)

const (
	DefaultTimeout = 600 * time.Second
	DefaultRunPath = "."
	DefaultKernel  = "python3"
)

// Options configure one run. They are not modified while the run is in progress.
type Options struct {
	// Timeout bounds each cell.
	Timeout time.Duration
	// RunPath is the working directory of the engine unless FromNotebookDir is set.
	RunPath string
	Kernel  string
	// FromNotebookDir runs every notebook from its own directory.
	FromNotebookDir bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Timeout: DefaultTimeout,
		RunPath: DefaultRunPath,
		Kernel:  DefaultKernel,
	}
}

// Validate rejects options a run cannot start with.
func (o Options) Validate() error {
	if o.Timeout <= 0 {
		return errors.ValidationFailed("timeout", "must be positive")
	}
	if o.Kernel == "" {
		return errors.ValidationFailed("kernel", "must not be empty")
	}
	return nil
}

// WorkDir returns the engine working directory for the notebook at path.
func (o Options) WorkDir(path string) string {
	if o.FromNotebookDir {
		return filepath.Dir(path)
	}
	if o.RunPath == "" {
		return DefaultRunPath
	}
	return o.RunPath
}
