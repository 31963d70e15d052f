package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	causeWidth    = 9
	notebookWidth = 100
	columnGap     = "    "
)

// Formatter renders a Summary.
type Formatter interface {
	Format(w io.Writer, s Summary) error
}

// TextFormatter renders the failure table followed by the pass count.
type TextFormatter struct {
	// Color styles the headings when w is a terminal.
	Color bool
	// Traceback prints the captured traceback of every failure.
	Traceback bool
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter(useColor, traceback bool) *TextFormatter {
	return &TextFormatter{Color: useColor, Traceback: traceback}
}

// Format writes the report. The failure section is omitted when every
// notebook passed.
func (f *TextFormatter) Format(w io.Writer, s Summary) error {
	failStyle, passStyle := f.styles(w)
	var b strings.Builder

	if len(s.Failures) > 0 {
		heading(&b, fmt.Sprintf("Failed [%d/%d]", len(s.Failures), s.Total), failStyle)
		fmt.Fprintf(&b, "%-*s%s%-*s\n", causeWidth, "Cause", columnGap, notebookWidth, "Notebook")
		fmt.Fprintf(&b, "%s%s%s\n", strings.Repeat("-", causeWidth), columnGap, strings.Repeat("-", notebookWidth))
		for _, fl := range s.Failures {
			fmt.Fprintf(&b, "%-*s%s%s\n", causeWidth, fl.Cause, columnGap, fl.Path)
		}
		if f.Traceback {
			writeTracebacks(&b, s.Failures)
		}
	}

	heading(&b, fmt.Sprintf("Passed [%d/%d]", s.Passed, s.Total), passStyle)

	_, err := io.WriteString(w, b.String())
	return err
}

// heading writes two blank lines, the title, a dash rule of the same width
// and one blank line.
func heading(b *strings.Builder, title string, style *lipgloss.Style) {
	b.WriteString("\n\n")
	if style != nil {
		b.WriteString(style.Render(title))
	} else {
		b.WriteString(title)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(title)))
	b.WriteString("\n\n")
}

func writeTracebacks(b *strings.Builder, failures []Failure) {
	for _, fl := range failures {
		if fl.Traceback == "" {
			continue
		}
		fmt.Fprintf(b, "\n%s: %s\n", fl.Cause, fl.Path)
		b.WriteString(strings.TrimRight(fl.Traceback, "\n"))
		b.WriteString("\n")
	}
}

func (f *TextFormatter) styles(w io.Writer) (fail, pass *lipgloss.Style) {
	if !f.Color {
		return nil, nil
	}
	r := lipgloss.NewRenderer(w)
	fs := r.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	ps := r.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	return &fs, &ps
}

// JSONFormatter renders the summary as a JSON document.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput is the machine-readable report.
type JSONOutput struct {
	RunID     string       `json:"run_id,omitempty"`
	Total     int          `json:"total"`
	Passed    int          `json:"passed"`
	Failed    int          `json:"failed"`
	ExitCode  int          `json:"exit_code"`
	Notebooks []JSONResult `json:"notebooks"`
}

// JSONResult is one notebook in the JSON report.
type JSONResult struct {
	Path       string  `json:"path"`
	Outcome    string  `json:"outcome"`
	DurationMS float64 `json:"duration_ms"`
	Traceback  string  `json:"traceback,omitempty"`
}

// Format outputs the summary in JSON format.
func (f *JSONFormatter) Format(w io.Writer, s Summary) error {
	out := JSONOutput{
		RunID:     s.RunID,
		Total:     s.Total,
		Passed:    s.Passed,
		Failed:    len(s.Failures),
		ExitCode:  s.ExitCode(),
		Notebooks: make([]JSONResult, 0, len(s.Results)),
	}
	for _, r := range s.Results {
		out.Notebooks = append(out.Notebooks, JSONResult{
			Path:       r.Path,
			Outcome:    string(r.Outcome),
			DurationMS: float64(r.Duration.Microseconds()) / 1000,
			Traceback:  r.Traceback,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string, useColor, traceback bool) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter(useColor, traceback)
	}
}
