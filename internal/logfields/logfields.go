package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyNotebook   = "notebook"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyOutcome    = "outcome"
	KeyKernel     = "kernel"
	KeyTimeout    = "timeout"
	KeyDurationMS = "duration_ms"
	KeyPackage    = "package"
	KeyStage      = "stage"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Notebook(p string) slog.Attr     { return slog.String(KeyNotebook, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Kernel(k string) slog.Attr       { return slog.String(KeyKernel, k) }
func Timeout(s string) slog.Attr      { return slog.String(KeyTimeout, s) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Package(p string) slog.Attr      { return slog.String(KeyPackage, p) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
