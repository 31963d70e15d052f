package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var te *ToolError
	if stderrors.As(err, &te) {
		return exitCodeFromCategory(te.Category)
	}

	return 1
}

func exitCodeFromCategory(category ErrorCategory) int {
	switch category {
	case CategoryExecution:
		return 1 // Notebook failures
	case CategoryValidation, CategoryLint:
		return 2 // Invalid usage or lint errors
	case CategoryConfig:
		return 7
	case CategoryGit:
		return 8
	case CategoryNotebook, CategoryBuild, CategoryFileSystem:
		return 11
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var te *ToolError
	if !stderrors.As(err, &te) {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return te.Error()
	}

	switch te.Category {
	case CategoryConfig, CategoryValidation:
		if te.Cause != nil {
			return fmt.Sprintf("%s: %v", te.Message, te.Cause)
		}
		return te.Message
	default:
		return fmt.Sprintf("%s: %s", te.Category, te.Message)
	}
}

// HandleError reports err and exits the program with the mapped code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	if a.shouldLog(err) {
		a.logError(err)
	}

	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	os.Exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	var te *ToolError
	if stderrors.As(err, &te) {
		return te.Category == CategoryInternal
	}
	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	var te *ToolError
	if !stderrors.As(err, &te) {
		a.logger.Error("Unclassified error", "error", err)
		return
	}

	attrs := []slog.Attr{slog.String("category", string(te.Category))}
	for k, v := range te.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	a.logger.LogAttrs(context.Background(), levelFromSeverity(te.Severity), te.Message, attrs...)
}

func levelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
