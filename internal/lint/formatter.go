package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, path string) error
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format outputs results in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, result *Result, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Linting notebooks in: %s\n", path)
	b.WriteString(strings.Repeat("━", 60) + "\n\n")

	// Group issues by file, files in order of first appearance
	var order []string
	byFile := make(map[string][]Issue)
	for _, issue := range result.Issues {
		if _, ok := byFile[issue.FilePath]; !ok {
			order = append(order, issue.FilePath)
		}
		byFile[issue.FilePath] = append(byFile[issue.FilePath], issue)
	}
	slices.Sort(order)

	for _, file := range order {
		for _, issue := range byFile[file] {
			f.formatIssue(&b, issue)
			b.WriteString("\n")
		}
	}

	b.WriteString(strings.Repeat("━", 60) + "\n")
	b.WriteString("Results:\n")
	fmt.Fprintf(&b, "  %d notebook%s scanned\n", result.FilesTotal, pluralize(result.FilesTotal))
	if n := result.ErrorCount(); n > 0 {
		fmt.Fprintf(&b, "  %d error%s\n", n, pluralize(n))
	}
	if n := result.WarningCount(); n > 0 {
		fmt.Fprintf(&b, "  %d warning%s\n", n, pluralize(n))
	}
	b.WriteString("\n")

	switch {
	case result.HasErrors():
		b.WriteString("❌ Notebooks have lint errors.\n")
		if len(result.Files(RuleNoStoredOutput)) > 0 {
			b.WriteString("   To clear stored outputs: bookctl lint --fix\n")
		}
	case result.HasWarnings():
		b.WriteString("⚠️  Notebooks have warnings.\n")
	default:
		b.WriteString("✨ All notebooks pass linting!\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// formatIssue formats a single issue.
func (f *TextFormatter) formatIssue(b *strings.Builder, issue Issue) {
	var icon string
	switch issue.Severity {
	case SeverityError:
		icon = "✗"
	case SeverityWarning:
		icon = "⚠"
	case SeverityInfo:
		icon = "ℹ"
	}

	fmt.Fprintf(b, "%s %s\n", icon, issue.FilePath)
	fmt.Fprintf(b, "  %s [%s]: %s\n", issue.Severity, issue.Rule, issue.Message)

	if issue.Explanation != "" {
		for line := range strings.SplitSeq(strings.TrimSpace(issue.Explanation), "\n") {
			fmt.Fprintf(b, "  %s\n", line)
		}
	}
	if issue.Fix != "" {
		fmt.Fprintf(b, "\n  Fix: %s\n", issue.Fix)
	}
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	Path         string      `json:"path"`
	FilesTotal   int         `json:"files_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	FilePath    string `json:"file_path"`
	Severity    string `json:"severity"`
	Rule        string `json:"rule"`
	Message     string `json:"message"`
	Explanation string `json:"explanation,omitempty"`
	Fix         string `json:"fix,omitempty"`
	Cell        *int   `json:"cell,omitempty"`
}

// Format outputs results in JSON format.
func (f *JSONFormatter) Format(w io.Writer, result *Result, path string) error {
	output := JSONOutput{
		Path:         path,
		FilesTotal:   result.FilesTotal,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		Issues:       make([]JSONIssue, 0, len(result.Issues)),
	}

	for _, issue := range result.Issues {
		ji := JSONIssue{
			FilePath:    issue.FilePath,
			Severity:    issue.Severity.String(),
			Rule:        issue.Rule,
			Message:     issue.Message,
			Explanation: issue.Explanation,
			Fix:         issue.Fix,
		}
		if issue.Cell >= 0 {
			cell := issue.Cell
			ji.Cell = &cell
		}
		output.Issues = append(output.Issues, ji)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter()
	}
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
