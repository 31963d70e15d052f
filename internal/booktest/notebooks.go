package booktest

import (
	"encoding/json"
	"strings"
)

// CellSpec describes a fixture cell.
type CellSpec struct {
	Type           string // code, markdown or raw
	Source         string
	ExecutionCount *int
	Outputs        []map[string]any
}

// Code returns a code cell without stored output.
func Code(source string) CellSpec { return CellSpec{Type: "code", Source: source} }

// Markdown returns a markdown cell.
func Markdown(source string) CellSpec { return CellSpec{Type: "markdown", Source: source} }

// Executed returns a code cell carrying an execution count and one stream output.
func Executed(source string, count int) CellSpec {
	return CellSpec{
		Type:           "code",
		Source:         source,
		ExecutionCount: &count,
		Outputs: []map[string]any{{
			"output_type": "stream",
			"name":        "stdout",
			"text":        []string{"ok\n"},
		}},
	}
}

// InstallHeader is the canonical install header used by lint fixtures.
const InstallHeader = "try:\n    import openmdao.api as om\nexcept ImportError:\n    !python -m pip install openmdao[notebooks]"

// NotebookJSON renders an nbformat 4 document with the given cells.
func NotebookJSON(cells ...CellSpec) string {
	out := make([]map[string]any, 0, len(cells))
	for _, c := range cells {
		cell := map[string]any{
			"cell_type": c.Type,
			"metadata":  map[string]any{},
			"source":    splitLines(c.Source),
		}
		if c.Type == "code" {
			if c.ExecutionCount != nil {
				cell["execution_count"] = *c.ExecutionCount
			} else {
				cell["execution_count"] = nil
			}
			outputs := c.Outputs
			if outputs == nil {
				outputs = []map[string]any{}
			}
			cell["outputs"] = outputs
		}
		out = append(out, cell)
	}
	doc := map[string]any{
		"cells":          out,
		"metadata":       map[string]any{"kernelspec": map[string]any{"name": "python3"}},
		"nbformat":       4,
		"nbformat_minor": 5,
	}
	data, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		panic(err)
	}
	return string(data)
}

func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
