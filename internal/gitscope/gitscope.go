// Package gitscope narrows a run to the files changed in the git worktree.
package gitscope

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/bookctl/internal/errors"
	"git.home.luguber.info/inful/bookctl/internal/util/sets"
)

// ChangedFiles returns the slash-separated paths, relative to root, of files
// below root that are modified, added, renamed or untracked in the
// repository containing root. Deleted files are not reported.
func ChangedFiles(root string) (sets.Set[string], error) {
	absRoot, err := resolve(root)
	if err != nil {
		return nil, errors.GitError("resolve root", err)
	}
	wtRoot, status, err := worktreeChanges(absRoot)
	if err != nil {
		return nil, err
	}

	changed := sets.New[string]()
	for file := range status {
		rel, ok := within(absRoot, filepath.Join(wtRoot, filepath.FromSlash(file)))
		if ok {
			changed.Add(rel)
		}
	}
	return changed, nil
}

// KeepChanged returns the members of paths, in their given form and order,
// that the enclosing repository reports as changed. Paths may be relative
// or absolute and may live in different repositories. Missing files are
// dropped.
func KeepChanged(paths []string) ([]string, error) {
	type scope struct {
		root   string
		status sets.Set[string]
	}
	byDir := map[string]scope{}

	var kept []string
	for _, p := range paths {
		abs, err := resolve(p)
		if err != nil {
			continue
		}
		dir := filepath.Dir(abs)
		sc, ok := byDir[dir]
		if !ok {
			root, status, err := worktreeChanges(dir)
			if err != nil {
				return nil, err
			}
			sc = scope{root: root, status: status}
			byDir[dir] = sc
		}
		if rel, ok := within(sc.root, abs); ok && sc.status.Has(rel) {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

// worktreeChanges opens the repository containing dir and returns its
// resolved worktree root with the changed paths, slash-separated and
// relative to that root.
func worktreeChanges(dir string) (string, sets.Set[string], error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", nil, errors.GitError("open repository", err).WithContext("path", dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", nil, errors.GitError("open worktree", err)
	}
	status, err := wt.Status()
	if err != nil {
		return "", nil, errors.GitError("worktree status", err)
	}
	wtRoot, err := resolve(wt.Filesystem.Root())
	if err != nil {
		return "", nil, errors.GitError("resolve worktree", err)
	}

	changed := sets.New[string]()
	for file, st := range status {
		if isChanged(st) {
			changed.Add(file)
		}
	}
	return wtRoot, changed, nil
}

// within returns target relative to root, slash-separated, when target lies below root.
func within(root, target string) (string, bool) {
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func isChanged(st *git.FileStatus) bool {
	if st.Worktree == git.Deleted || (st.Staging == git.Deleted && st.Worktree == git.Unmodified) {
		return false
	}
	return st.Worktree != git.Unmodified || st.Staging != git.Unmodified
}

func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", abs, err)
	}
	return resolved, nil
}
