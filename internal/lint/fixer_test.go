package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookctl/internal/booktest"
	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

func TestFixer_ClearsOutputs(t *testing.T) {
	root := t.TempDir()
	booktest.WriteTree(t, root, map[string]string{
		"a.ipynb": booktest.NotebookJSON(header, booktest.Executed("x", 1), booktest.Executed("y", 2)),
		"b.ipynb": cleanBody,
	})
	before, err := os.ReadFile(filepath.Join(root, "b.ipynb"))
	require.NoError(t, err)

	fr, err := NewFixer(NewLinter(nil), false).Fix(root)
	require.NoError(t, err)
	assert.False(t, fr.HasErrors())
	assert.Equal(t, 1, fr.ErrorsFixed)
	require.Len(t, fr.Cleared, 1)
	assert.Equal(t, 2, fr.Cleared[0].Cells)
	assert.Contains(t, fr.Summary(), "Outputs cleared: 1 notebook")

	nb, err := notebook.Load(filepath.Join(root, "a.ipynb"))
	require.NoError(t, err)
	assert.False(t, nb.HasStoredOutput())

	after, err := os.ReadFile(filepath.Join(root, "b.ipynb"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "clean notebooks are not rewritten")

	result, err := NewLinter(nil).LintPath(root)
	require.NoError(t, err)
	assert.False(t, result.HasErrors())
}

func TestFixer_DryRunLeavesFiles(t *testing.T) {
	root := t.TempDir()
	booktest.WriteTree(t, root, map[string]string{
		"a.ipynb": booktest.NotebookJSON(header, booktest.Executed("x", 1)),
	})
	path := filepath.Join(root, "a.ipynb")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	fr, err := NewFixer(NewLinter(nil), true).FixFiles([]string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, fr.ErrorsFixed)
	assert.Contains(t, fr.Summary(), "would be cleared")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
