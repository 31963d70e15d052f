package srcdocs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookctl/internal/booktest"
	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

func sourceTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	booktest.WriteTree(t, src, map[string]string{
		"openmdao/core/__init__.py":          "",
		"openmdao/core/component.py":         "",
		"openmdao/core/problem.py":           "",
		"openmdao/core/_private.py":          "",
		"openmdao/core/notes.txt":            "",
		"openmdao/core/tests/test_x.py":      "",
		"openmdao/core/__pycache__/x.pyc":    "",
		"openmdao/solvers/solver.py":         "",
		"openmdao/solvers/linear/direct.py":  "",
		"openmdao/solvers/linear/__init__.py": "",
		"openmdao/drivers/__init__.py":       "",
	})
	return src
}

func TestGenerate(t *testing.T) {
	src := sourceTree(t)
	book := t.TempDir()
	booktest.WriteTree(t, book, map[string]string{"_srcdocs/stale.md": "old"})

	pkgs, err := Generate(Options{
		BookDir:    book,
		SourceRoot: src,
		Project:    "openmdao",
		Packages:   []string{"core", "drivers", "missing", "solvers", "solvers.linear"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Package{
		{Name: "core", Subpackages: []string{"component", "problem"}},
		{Name: "solvers", Subpackages: []string{"linear", "solver"}},
		{Name: "solvers.linear", Subpackages: []string{"direct"}},
	}, pkgs)

	fa := booktest.NewFileAssertions(t, filepath.Join(book, DirName))
	fa.AssertNotExists("stale.md")
	assert.Equal(t, ":orphan:\n# Source Docs\n\n"+
		"- [core](packages/core.md)\n"+
		"- [solvers](packages/solvers.md)\n"+
		"- [solvers.linear](packages/solvers.linear.md)\n", fa.Content("index.md"))
	assert.Equal(t, "# openmdao.core\n---\n\n"+
		"- [component](core/component.md)\n"+
		"- [problem](core/problem.md)\n", fa.Content("packages/core.md"))
	fa.AssertFileExists("packages/solvers.linear/direct.ipynb")
	fa.AssertNotExists("packages/drivers.md")
	fa.AssertNotExists("packages/core/_private.ipynb")

	nb, err := notebook.Load(filepath.Join(book, DirName, "packages", "core", "component.ipynb"))
	require.NoError(t, err)
	require.Len(t, nb.Cells, 1)
	text := nb.Cells[0].Source.Text()
	assert.Contains(t, text, "# component.py\n")
	assert.Contains(t, text, "    .. automodule::\n        openmdao.core.component\n")
}

func TestGenerate_RequiresProject(t *testing.T) {
	_, err := Generate(Options{BookDir: t.TempDir()})
	require.Error(t, err)
}

func TestSubpackages(t *testing.T) {
	src := sourceTree(t)
	subs, err := Subpackages(filepath.Join(src, "openmdao", "core"))
	require.NoError(t, err)
	assert.Equal(t, []string{"component", "problem"}, subs)

	_, err = Subpackages(filepath.Join(src, "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestModuleHeader(t *testing.T) {
	h := ModuleHeader("problem.py", "openmdao.core.problem")
	assert.Equal(t, "# problem.py\n\n```{eval-rst}\n", h[:len("# problem.py\n\n```{eval-rst}\n")])
	assert.Contains(t, h, ":special-members: __init__, __contains__, __iter__, __setitem__, __getitem__\n")
}
