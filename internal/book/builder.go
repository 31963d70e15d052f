package book

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"git.home.luguber.info/inful/bookctl/internal/logfields"
	"git.home.luguber.info/inful/bookctl/internal/metrics"
)

// Builder runs jupyter-book against a book directory.
type Builder struct {
	// Command is the jupyter-book binary followed by its leading arguments.
	Command []string
	// ArtifactPatterns select the files copied after the build.
	ArtifactPatterns []string
	Stdout           io.Writer
	Stderr           io.Writer

	recorder metrics.Recorder
}

// NewBuilder returns a builder for the given command. An empty command
// selects jupyter-book from PATH.
func NewBuilder(command []string) *Builder {
	if len(command) == 0 {
		command = []string{"jupyter-book"}
	}
	return &Builder{
		Command:          append([]string(nil), command...),
		ArtifactPatterns: DefaultArtifactPatterns,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		recorder:         metrics.NoopRecorder{},
	}
}

// WithRecorder attaches a metrics recorder timing each stage.
func (b *Builder) WithRecorder(rec metrics.Recorder) *Builder {
	if rec != nil {
		b.recorder = rec
	}
	return b
}

// Build optionally cleans the previous output, builds the book and copies
// the static artifacts. It returns the copied artifact paths.
func (b *Builder) Build(ctx context.Context, bookDir string, clean bool) ([]string, error) {
	if info, err := os.Stat(bookDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrBookDirNotFound, bookDir)
	}
	if _, err := exec.LookPath(b.Command[0]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBinaryNotFound, err)
	}

	if clean {
		if err := b.stage(ctx, "clean", bookDir); err != nil {
			return nil, err
		}
	}
	if err := b.stage(ctx, "build", bookDir); err != nil {
		return nil, err
	}

	start := time.Now()
	copied, err := CopyArtifacts(bookDir, b.ArtifactPatterns)
	b.recorder.ObserveStageDuration("copy_artifacts", time.Since(start))
	if err != nil {
		return nil, err
	}
	slog.Info("Copied build artifacts", logfields.Path(bookDir), logfields.Count(len(copied)))
	return copied, nil
}

func (b *Builder) stage(ctx context.Context, sub, bookDir string) error {
	args := append(append([]string(nil), b.Command[1:]...), sub, bookDir)
	cmd := exec.CommandContext(ctx, b.Command[0], args...) //nolint:gosec // command is operator configuration
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr

	slog.Info("Running jupyter-book", logfields.Stage(sub), logfields.Path(bookDir))
	start := time.Now()
	err := cmd.Run()
	b.recorder.ObserveStageDuration(sub, time.Since(start))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBuildFailed, sub, err)
	}
	return nil
}
