// Package discovery finds notebooks and pages under a book directory.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/bookctl/internal/logfields"
	"git.home.luguber.info/inful/bookctl/internal/util/sets"
)

var (
	// DefaultPatterns match the content files of a book.
	DefaultPatterns = []string{"*.ipynb", "*.md"}
	// DefaultExclude names build-output and checkpoint directories.
	DefaultExclude = []string{"_build", ".ipynb_checkpoints"}
)

// ErrBadPattern reports a glob pattern that can never match.
var ErrBadPattern = errors.New("invalid discovery pattern")

// File is a discovered path split into its parts.
type File struct {
	Path string // slash-separated, relative to the discovery root
	Dir  string // "." for files at the root
	Name string // base name without extension
	Ext  string
}

// ValidatePatterns rejects malformed glob patterns.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	return nil
}

// Discover walks root and returns the sorted, deduplicated, slash-separated
// paths (relative to root) of files whose base name matches any pattern.
// Directories whose base name is in exclude are pruned at any depth. A root
// that does not exist, or is not a directory, yields an empty result.
func Discover(root string, patterns, exclude []string) ([]string, error) {
	if err := ValidatePatterns(patterns); err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		slog.Debug("Discovery root missing, nothing to discover", logfields.Path(root))
		return []string{}, nil
	}

	excluded := sets.New(exclude...)
	found := sets.New[string]()

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == root {
				return walkErr
			}
			slog.Warn("Skipping unreadable path", logfields.Path(p), logfields.Error(walkErr))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if p != root && excluded.Has(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchesAny(d.Name(), patterns) {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", p, err)
		}
		found.Add(filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	return sets.Sorted(found), nil
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Entries splits discovered paths into File records.
func Entries(paths []string) []File {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		base := path.Base(p)
		ext := path.Ext(base)
		files = append(files, File{
			Path: p,
			Dir:  path.Dir(p),
			Name: strings.TrimSuffix(base, ext),
			Ext:  ext,
		})
	}
	return files
}
