package lint

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

// Fixer clears stored outputs, the one issue that can be fixed automatically.
type Fixer struct {
	linter *Linter
	dryRun bool
}

// NewFixer creates a new fixer with the given linter and options.
func NewFixer(linter *Linter, dryRun bool) *Fixer {
	return &Fixer{linter: linter, dryRun: dryRun}
}

// FixResult contains the results of a fix operation.
type FixResult struct {
	Cleared     []ClearOperation
	ErrorsFixed int
	Errors      []error
	DryRun      bool
}

// ClearOperation records the outputs cleared from one notebook.
type ClearOperation struct {
	Path    string
	Cells   int
	Success bool
	Error   error
}

// Fix lints path and clears stored outputs from every offending notebook.
func (f *Fixer) Fix(path string) (*FixResult, error) {
	result, err := f.linter.LintPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lint path: %w", err)
	}
	return f.apply(result), nil
}

// FixFiles is Fix for an explicit list of notebooks.
func (f *Fixer) FixFiles(files []string) (*FixResult, error) {
	result, err := f.linter.LintFiles(files)
	if err != nil {
		return nil, fmt.Errorf("failed to lint files: %w", err)
	}
	return f.apply(result), nil
}

func (f *Fixer) apply(result *Result) *FixResult {
	fr := &FixResult{DryRun: f.dryRun}
	for _, file := range result.Files(RuleNoStoredOutput) {
		op := f.clear(file)
		fr.Cleared = append(fr.Cleared, op)
		if op.Success {
			fr.ErrorsFixed++
		} else if op.Error != nil {
			fr.Errors = append(fr.Errors, op.Error)
		}
	}
	return fr
}

func (f *Fixer) clear(path string) ClearOperation {
	op := ClearOperation{Path: path}

	nb, err := notebook.Load(path)
	if err != nil {
		op.Error = fmt.Errorf("load %s: %w", path, err)
		return op
	}
	op.Cells = nb.ClearOutputs()

	// Dry-run mode: just report what would happen
	if f.dryRun {
		op.Success = true
		return op
	}

	if err := notebook.Save(path, nb); err != nil {
		op.Error = fmt.Errorf("save %s: %w", path, err)
		return op
	}
	op.Success = true
	return op
}

// HasErrors returns true if any errors occurred during fixing.
func (fr *FixResult) HasErrors() bool {
	return len(fr.Errors) > 0
}

// Summary returns a human-readable summary of the fix operation.
func (fr *FixResult) Summary() string {
	var b strings.Builder

	verb := "Outputs cleared"
	if fr.DryRun {
		verb = "Outputs that would be cleared"
	}
	fmt.Fprintf(&b, "%s: %d notebook%s\n", verb, fr.ErrorsFixed, pluralize(fr.ErrorsFixed))
	for _, op := range fr.Cleared {
		if op.Success {
			fmt.Fprintf(&b, "  • %s (%d cell%s)\n", op.Path, op.Cells, pluralize(op.Cells))
		}
	}

	if len(fr.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors encountered: %d\n", len(fr.Errors))
		for _, err := range fr.Errors {
			fmt.Fprintf(&b, "  • %v\n", err)
		}
	}

	return b.String()
}
