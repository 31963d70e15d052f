package errors

// Convenience functions for common error patterns

func ConfigInvalid(path string, cause error) *ToolError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *ToolError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

func PathNotFound(path string) *ToolError {
	return New(CategoryValidation, SeverityFatal, "path does not exist").
		WithContext("path", path)
}

func NotebookInvalid(path string, cause error) *ToolError {
	return Wrap(cause, CategoryNotebook, SeverityFatal, "notebook could not be processed").
		WithContext("path", path)
}

// NotebooksFailed reports a test batch in which at least one notebook did not pass.
func NotebooksFailed(failed, total int) *ToolError {
	return New(CategoryExecution, SeverityError, "notebooks failed").
		WithContext("failed", failed).
		WithContext("total", total)
}

// LintIssues reports a lint run that found errors.
func LintIssues(errorCount int) *ToolError {
	return New(CategoryLint, SeverityError, "lint errors found").
		WithContext("errors", errorCount)
}

func BuildFailed(stage string, cause error) *ToolError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "book build failed").
		WithContext("stage", stage)
}

func FileSystemError(operation string, cause error) *ToolError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}

func GitError(operation string, cause error) *ToolError {
	return Wrap(cause, CategoryGit, SeverityFatal, "git operation failed").
		WithContext("operation", operation)
}

func InternalError(message string, cause error) *ToolError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
