package lint

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/bookctl/internal/notebook"
)

const (
	RuleNoStoredOutput = "no-stored-output"
	RuleInstallHeader  = "install-header"
	RuleMalformed      = "malformed"
)

// NoStoredOutputRule reports code cells that carry an execution count or outputs.
type NoStoredOutputRule struct{}

func (r *NoStoredOutputRule) Name() string { return RuleNoStoredOutput }

func (r *NoStoredOutputRule) AppliesTo(filePath string) bool { return IsNotebookFile(filePath) }

func (r *NoStoredOutputRule) Check(filePath string, nb *notebook.Notebook) []Issue {
	var cells []int
	for i, c := range nb.Cells {
		if c.HasStoredOutput() {
			cells = append(cells, i)
		}
	}
	if len(cells) == 0 {
		return nil
	}
	return []Issue{{
		FilePath: filePath,
		Severity: SeverityError,
		Rule:     r.Name(),
		Message:  "Output found in " + filePath,
		Explanation: fmt.Sprintf("%d code cell%s with an execution count or stored output (cells %s).\n"+
			"Notebooks are committed without outputs; the book build executes them.",
			len(cells), pluralize(len(cells)), joinInts(cells)),
		Fix:  fmt.Sprintf("bookctl lint --fix, or jupyter nbconvert --clear-output --inplace %s", filePath),
		Cell: cells[0],
	}}
}

// InstallHeaderRule requires the first code cell to be the install header.
type InstallHeaderRule struct {
	Header []string
	Skip   []string
}

func (r *InstallHeaderRule) Name() string { return RuleInstallHeader }

func (r *InstallHeaderRule) AppliesTo(filePath string) bool {
	return IsNotebookFile(filePath) && !slices.Contains(r.Skip, filepath.Base(filePath))
}

func (r *InstallHeaderRule) Check(filePath string, nb *notebook.Notebook) []Issue {
	want := notebook.NormalizeLines(strings.Join(r.Header, "\n"))
	first := nb.FirstCodeCell()
	if first != nil && slices.Equal(first.NormalizedSource(), want) {
		return nil
	}

	issue := Issue{
		FilePath:    filePath,
		Severity:    SeverityError,
		Rule:        r.Name(),
		Message:     "pip install header not found in " + filePath,
		Explanation: "The first code cell must install the package when it is missing:\n" + strings.Join(want, "\n"),
		Fix:         "Insert the install header as the first code cell",
		Cell:        -1,
	}
	if first != nil {
		issue.Cell = slices.Index(nb.Cells, first)
		issue.Explanation = "The first code cell differs from the install header:\n" + strings.Join(want, "\n")
	}
	return []Issue{issue}
}

func malformedIssue(filePath string, err error) Issue {
	return Issue{
		FilePath:    filePath,
		Severity:    SeverityError,
		Rule:        RuleMalformed,
		Message:     "Notebook could not be parsed: " + filePath,
		Explanation: err.Error(),
		Cell:        -1,
	}
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
