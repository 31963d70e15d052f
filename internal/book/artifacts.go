package book

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/bookctl/internal/discovery"
)

var (
	// DefaultArtifactPatterns are the static files copied next to the rendered pages.
	DefaultArtifactPatterns = []string{"*.html", "*.png"}
	// OutputDir is the jupyter-book output directory relative to the book root.
	OutputDir = filepath.Join("_build", "html")
)

// CopyArtifacts copies files matching patterns from the book tree into
// <bookDir>/_build/html, keeping their relative directory. Build output and
// checkpoint directories are never read. It returns the copied relative
// paths in sorted order.
func CopyArtifacts(bookDir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultArtifactPatterns
	}
	if info, err := os.Stat(bookDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrBookDirNotFound, bookDir)
	}

	rel, err := discovery.Discover(bookDir, patterns, discovery.DefaultExclude)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(bookDir, OutputDir)
	for _, r := range rel {
		src := filepath.Join(bookDir, filepath.FromSlash(r))
		dst := filepath.Join(target, filepath.FromSlash(r))
		if err := copyFile(src, dst); err != nil {
			return nil, err
		}
	}
	return rel, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
