// Package srcdocs generates the reference-documentation stubs of a book:
// an index page, one page per package and one notebook per module carrying
// an automodule directive.
package srcdocs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/bookctl/internal/logfields"
	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

// DirName is the generated directory below the book root.
const DirName = "_srcdocs"

// DefaultPackages are documented when no package list is configured.
var DefaultPackages = []string{
	"approximation_schemes",
	"core",
	"components",
	"drivers",
	"error_checking",
	"jacobians",
	"matrices",
	"proc_allocators",
	"recorders",
	"solvers",
	"surrogate_models",
	"solvers.linear",
	"solvers.nonlinear",
	"solvers.linesearch",
	"test_suite.components",
	"test_suite.scripts",
	"vectors",
	"utils",
	"visualization",
}

// skipDirs are never treated as sub-packages.
var skipDirs = []string{"tests", "__pycache__"}

const indexTop = ":orphan:\n# Source Docs\n\n"

// Options select what is documented and where.
type Options struct {
	BookDir string
	// SourceRoot contains the project package directory.
	SourceRoot string
	Project    string
	Packages   []string
}

// Package is one documented package and its modules.
type Package struct {
	Name        string
	Subpackages []string
}

// Generate recreates <BookDir>/_srcdocs. Packages without modules are left
// out; a package directory that does not exist is skipped with a warning.
func Generate(opts Options) ([]Package, error) {
	if opts.Project == "" {
		return nil, errors.New("project name is required")
	}
	packages := opts.Packages
	if len(packages) == 0 {
		packages = DefaultPackages
	}

	docDir := filepath.Join(opts.BookDir, DirName)
	if err := os.RemoveAll(docDir); err != nil {
		return nil, fmt.Errorf("remove %s: %w", docDir, err)
	}
	packagesDir := filepath.Join(docDir, "packages")
	if err := os.MkdirAll(packagesDir, 0o750); err != nil {
		return nil, fmt.Errorf("create %s: %w", packagesDir, err)
	}

	var index strings.Builder
	index.WriteString(indexTop)

	var written []Package
	for _, pkg := range packages {
		srcDir := filepath.Join(opts.SourceRoot, opts.Project, filepath.FromSlash(strings.ReplaceAll(pkg, ".", "/")))
		subs, err := Subpackages(srcDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				slog.Warn("Package directory missing, skipping", logfields.Package(pkg), logfields.Path(srcDir))
				continue
			}
			return nil, err
		}
		if len(subs) == 0 {
			slog.Debug("Package has no modules, skipping", logfields.Package(pkg))
			continue
		}

		// Links always use forward slashes.
		fmt.Fprintf(&index, "- [%s](packages/%s.md)\n", pkg, pkg)
		if err := writePackage(packagesDir, opts.Project, pkg, subs); err != nil {
			return nil, err
		}
		written = append(written, Package{Name: pkg, Subpackages: subs})
	}

	if err := os.WriteFile(filepath.Join(docDir, "index.md"), []byte(index.String()), 0o644); err != nil { //nolint:gosec // book sources are world-readable
		return nil, fmt.Errorf("write index: %w", err)
	}
	slog.Info("Generated source docs", logfields.Path(docDir), logfields.Count(len(written)))
	return written, nil
}

func writePackage(packagesDir, project, pkg string, subs []string) error {
	pkgName := project + "." + pkg
	pkgDir := filepath.Join(packagesDir, pkg)
	if err := os.MkdirAll(pkgDir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", pkgDir, err)
	}

	var page strings.Builder
	fmt.Fprintf(&page, "# %s\n---\n\n", pkgName)
	for _, sub := range subs {
		fmt.Fprintf(&page, "- [%s](%s/%s.md)\n", sub, pkg, sub)

		nb := notebook.NewMarkdownNotebook(ModuleHeader(sub+".py", pkgName+"."+sub))
		if err := notebook.Save(filepath.Join(pkgDir, sub+".ipynb"), nb); err != nil {
			return fmt.Errorf("write reference sheet %s.%s: %w", pkgName, sub, err)
		}
	}
	if err := os.WriteFile(filepath.Join(packagesDir, pkg+".md"), []byte(page.String()), 0o644); err != nil { //nolint:gosec // book sources are world-readable
		return fmt.Errorf("write package page %s: %w", pkg, err)
	}
	return nil
}

// Subpackages lists the modules of a package directory: Python files not
// starting with an underscore and subdirectories other than tests and
// __pycache__, by name without extension, sorted and deduplicated.
func Subpackages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var subs []string
	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir():
			if slices.Contains(skipDirs, name) || strings.HasPrefix(name, ".") {
				continue
			}
		case strings.HasSuffix(name, ".py") && !strings.HasPrefix(name, "_"):
			name = strings.TrimSuffix(name, ".py")
		default:
			continue
		}
		if !slices.Contains(subs, name) {
			subs = append(subs, name)
		}
	}
	slices.Sort(subs)
	return subs, nil
}

// ModuleHeader is the markdown of a reference sheet for module.
func ModuleHeader(filename, module string) string {
	return "# " + filename + "\n" +
		"\n" +
		"```{eval-rst}\n" +
		"    .. automodule::\n" +
		"        " + module + "\n" +
		"        :members:\n" +
		"        :undoc-members:\n" +
		"        :special-members: __init__, __contains__, __iter__, __setitem__, __getitem__\n" +
		"        :show-inheritance:\n" +
		"        :inherited-members:\n" +
		"```\n"
}
