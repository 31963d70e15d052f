package discovery

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookctl/internal/booktest"
)

func TestDiscover_ExcludesBuildDirectory(t *testing.T) {
	root := t.TempDir()
	booktest.WriteTree(t, root, map[string]string{
		"a/x.ipynb":        "{}",
		"a/_build/y.ipynb": "{}",
		"b.md":             "# b",
	})

	got, err := Discover(root, []string{"*.ipynb"}, []string{"_build"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/x.ipynb"}, got)
}

func TestDiscover_PrunesExcludedNamesAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	booktest.WriteTree(t, root, map[string]string{
		"intro.md":                             "",
		"features/core/_build/html/index.md":   "",
		"features/core/comp.ipynb":             "",
		"features/.ipynb_checkpoints/c.ipynb":  "",
		"deep/a/b/c/.ipynb_checkpoints/x.md":   "",
		"deep/a/b/c/page.md":                   "",
		"_build/top.ipynb":                     "",
		"features/core/notes.txt":              "",
	})

	got, err := Discover(root, DefaultPatterns, DefaultExclude)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"deep/a/b/c/page.md",
		"features/core/comp.ipynb",
		"intro.md",
	}, got)
	for _, p := range got {
		assert.NotContains(t, p, "_build")
		assert.NotContains(t, p, ".ipynb_checkpoints")
	}
}

func TestDiscover_SortedAndDeduplicated(t *testing.T) {
	root := t.TempDir()
	booktest.WriteTree(t, root, map[string]string{
		"z.ipynb":     "",
		"b/a.ipynb":   "",
		"a.ipynb":     "",
		"B/c.ipynb":   "",
		"b/a.md":      "",
	})

	// Overlapping patterns must not produce duplicates.
	got, err := Discover(root, []string{"*.ipynb", "a.*", "*"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B/c.ipynb", "a.ipynb", "b/a.ipynb", "b/a.md", "z.ipynb"}, got)
}

func TestDiscover_Idempotent(t *testing.T) {
	root := t.TempDir()
	booktest.WriteTree(t, root, map[string]string{
		"one/a.ipynb": "",
		"two/b.md":    "",
		"three/":      "",
	})

	first, err := Discover(root, DefaultPatterns, DefaultExclude)
	require.NoError(t, err)
	second, err := Discover(root, DefaultPatterns, DefaultExclude)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiscover_MissingRootIsEmpty(t *testing.T) {
	got, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"), DefaultPatterns, DefaultExclude)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestDiscover_RootNamedLikeExcludedIsWalked(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "_build")
	booktest.WriteTree(t, root, map[string]string{"x.ipynb": ""})

	got, err := Discover(root, []string{"*.ipynb"}, []string{"_build"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.ipynb"}, got)
}

func TestDiscover_BadPattern(t *testing.T) {
	_, err := Discover(t.TempDir(), []string{"[a-"}, nil)
	require.ErrorIs(t, err, ErrBadPattern)
}

func TestEntries(t *testing.T) {
	files := Entries([]string{"a/b/x.ipynb", "page.md"})
	require.Len(t, files, 2)
	assert.Equal(t, File{Path: "a/b/x.ipynb", Dir: "a/b", Name: "x", Ext: ".ipynb"}, files[0])
	assert.Equal(t, File{Path: "page.md", Dir: ".", Name: "page", Ext: ".md"}, files[1])
}
