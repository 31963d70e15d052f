package gitscope

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookctl/internal/booktest"
	bcerrors "git.home.luguber.info/inful/bookctl/internal/errors"
	"git.home.luguber.info/inful/bookctl/internal/util/sets"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	booktest.WriteTree(t, dir, map[string]string{
		"book/a.ipynb":      "a",
		"book/b.ipynb":      "b",
		"book/gone.ipynb":   "gone",
		"README.md":         "readme",
	})

	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	for _, f := range []string{"book/a.ipynb", "book/b.ipynb", "book/gone.ipynb", "README.md"} {
		_, err := wt.Add(f)
		require.NoError(t, err)
	}
	_, err = wt.Commit("initial", &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()}})
	require.NoError(t, err)
	return dir
}

func TestChangedFiles(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "book", "a.ipynb"), []byte("changed"), 0o600))
	require.NoError(t, os.Remove(filepath.Join(dir, "book", "gone.ipynb")))
	booktest.WriteTree(t, dir, map[string]string{
		"book/sub/new.ipynb": "new",
		"outside.md":         "x",
	})

	changed, err := ChangedFiles(filepath.Join(dir, "book"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ipynb", "sub/new.ipynb"}, sets.Sorted(changed))
}

func TestChangedFiles_FromRepoRoot(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("edited"), 0o600))

	changed, err := ChangedFiles(dir)
	require.NoError(t, err)
	assert.True(t, changed.Has("README.md"))
	assert.False(t, changed.Has("book/b.ipynb"))
}

func TestChangedFiles_CleanTree(t *testing.T) {
	dir := initRepo(t)
	changed, err := ChangedFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestChangedFiles_NotARepository(t *testing.T) {
	_, err := ChangedFiles(t.TempDir())
	require.Error(t, err)
	assert.True(t, bcerrors.IsCategory(err, bcerrors.CategoryGit))
}

func TestKeepChanged_RelativeAndAbsolute(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "book", "a.ipynb"), []byte("changed"), 0o600))
	booktest.WriteTree(t, dir, map[string]string{"book/new.ipynb": "new"})
	t.Chdir(filepath.Join(dir, "book"))

	absNew := filepath.Join(dir, "book", "new.ipynb")
	kept, err := KeepChanged([]string{
		"a.ipynb",
		"b.ipynb",
		absNew,
		filepath.Join("..", "README.md"),
		"missing.ipynb",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ipynb", absNew}, kept)
}

func TestKeepChanged_OutsideWorkingDirectory(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("edited"), 0o600))
	t.Chdir(filepath.Join(dir, "book"))

	kept, err := KeepChanged([]string{filepath.Join("..", "README.md")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("..", "README.md")}, kept)
}

func TestKeepChanged_NotARepository(t *testing.T) {
	dir := t.TempDir()
	booktest.WriteTree(t, dir, map[string]string{"nb.ipynb": "{}"})
	_, err := KeepChanged([]string{filepath.Join(dir, "nb.ipynb")})
	require.Error(t, err)
	assert.True(t, bcerrors.IsCategory(err, bcerrors.CategoryGit))
}
