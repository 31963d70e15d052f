package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MinFormat is the oldest nbformat major version accepted by Parse.
const MinFormat = 4

// CellType tags the kind of a cell.
type CellType string

const (
	CellCode     CellType = "code"
	CellMarkdown CellType = "markdown"
	CellRaw      CellType = "raw"
)

// Notebook is a parsed notebook document.
type Notebook struct {
	Cells         []*Cell
	Metadata      json.RawMessage
	NBFormat      int
	NBFormatMinor int
}

// Cell is one unit of a notebook. ExecutionCount and Outputs are only
// meaningful for code cells.
type Cell struct {
	ID             string
	CellType       CellType
	Metadata       json.RawMessage
	Source         Source
	ExecutionCount *int
	Outputs        []json.RawMessage
	Attachments    json.RawMessage
}

// Source holds cell source lines. Each line keeps its trailing newline, the
// way nbformat splits multiline strings.
type Source []string

// UnmarshalJSON accepts both the list form and the single string form.
func (s *Source) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*s = lines
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return errors.New("source must be a string or a list of strings")
	}
	*s = SplitLines(text)
	return nil
}

// MarshalJSON always writes the list form.
func (s Source) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return marshalRaw([]string(s))
}

// Text joins the source lines.
func (s Source) Text() string {
	return strings.Join(s, "")
}

// SplitLines splits text into nbformat source lines, keeping newlines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// NormalizeLines turns text into comparable lines: CRLF becomes LF, trailing
// whitespace is stripped from every line and trailing blank lines are dropped.
func NormalizeLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// NormalizedSource returns the cell source as normalized lines.
func (c *Cell) NormalizedSource() []string {
	return NormalizeLines(c.Source.Text())
}

// HasStoredOutput reports whether a code cell carries an execution count or outputs.
func (c *Cell) HasStoredOutput() bool {
	if c.CellType != CellCode {
		return false
	}
	return c.ExecutionCount != nil || len(c.Outputs) > 0
}

// CodeCells returns the code cells in document order.
func (nb *Notebook) CodeCells() []*Cell {
	var cells []*Cell
	for _, c := range nb.Cells {
		if c.CellType == CellCode {
			cells = append(cells, c)
		}
	}
	return cells
}

// FirstCodeCell returns the first code cell, or nil.
func (nb *Notebook) FirstCodeCell() *Cell {
	for _, c := range nb.Cells {
		if c.CellType == CellCode {
			return c
		}
	}
	return nil
}

// HasStoredOutput reports whether any code cell carries output.
func (nb *Notebook) HasStoredOutput() bool {
	for _, c := range nb.Cells {
		if c.HasStoredOutput() {
			return true
		}
	}
	return false
}

// ClearOutputs resets execution_count and outputs on every code cell and
// returns the number of cells that changed.
func (nb *Notebook) ClearOutputs() int {
	changed := 0
	for _, c := range nb.Cells {
		if c.CellType != CellCode {
			continue
		}
		if c.HasStoredOutput() {
			changed++
		}
		c.ExecutionCount = nil
		c.Outputs = []json.RawMessage{}
	}
	return changed
}

type rawNotebook struct {
	Cells         *[]json.RawMessage `json:"cells"`
	Metadata      json.RawMessage    `json:"metadata"`
	NBFormat      *int               `json:"nbformat"`
	NBFormatMinor int                `json:"nbformat_minor"`
}

type rawCell struct {
	ID             string            `json:"id"`
	CellType       CellType          `json:"cell_type"`
	Metadata       json.RawMessage   `json:"metadata"`
	Source         Source            `json:"source"`
	ExecutionCount *int              `json:"execution_count"`
	Outputs        []json.RawMessage `json:"outputs"`
	Attachments    json.RawMessage   `json:"attachments"`
}

// Parse decodes and validates a notebook document.
func Parse(data []byte) (*Notebook, error) {
	if !json.Valid(data) {
		var v any
		return nil, malformed(ReasonNotJSON, -1, json.Unmarshal(data, &v))
	}

	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, malformed(ReasonNotObject, -1, err)
	}
	if raw.NBFormat == nil {
		return nil, malformed(ReasonMissingVersion, -1, nil)
	}
	if *raw.NBFormat < MinFormat {
		return nil, malformed(ReasonUnsupportedVersion, -1, fmt.Errorf("nbformat %d, need >= %d", *raw.NBFormat, MinFormat))
	}
	if raw.Cells == nil {
		return nil, malformed(ReasonMissingCells, -1, nil)
	}

	nb := &Notebook{
		Cells:         make([]*Cell, 0, len(*raw.Cells)),
		Metadata:      raw.Metadata,
		NBFormat:      *raw.NBFormat,
		NBFormatMinor: raw.NBFormatMinor,
	}
	for i, rc := range *raw.Cells {
		cell, err := parseCell(rc)
		if err != nil {
			return nil, malformed(ReasonInvalidCell, i, err)
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

func parseCell(data json.RawMessage) (*Cell, error) {
	var rc rawCell
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, err
	}
	switch rc.CellType {
	case CellCode, CellMarkdown, CellRaw:
	case "":
		return nil, errors.New("missing cell_type")
	default:
		return nil, fmt.Errorf("unknown cell_type %q", rc.CellType)
	}
	return &Cell{
		ID:             rc.ID,
		CellType:       rc.CellType,
		Metadata:       rc.Metadata,
		Source:         rc.Source,
		ExecutionCount: rc.ExecutionCount,
		Outputs:        rc.Outputs,
		Attachments:    rc.Attachments,
	}, nil
}

type codeCellJSON struct {
	CellType       CellType          `json:"cell_type"`
	ExecutionCount *int              `json:"execution_count"`
	ID             string            `json:"id,omitempty"`
	Metadata       json.RawMessage   `json:"metadata"`
	Outputs        []json.RawMessage `json:"outputs"`
	Source         Source            `json:"source"`
}

type textCellJSON struct {
	Attachments json.RawMessage `json:"attachments,omitempty"`
	CellType    CellType        `json:"cell_type"`
	ID          string          `json:"id,omitempty"`
	Metadata    json.RawMessage `json:"metadata"`
	Source      Source          `json:"source"`
}

type notebookJSON struct {
	Cells         []*Cell         `json:"cells"`
	Metadata      json.RawMessage `json:"metadata"`
	NBFormat      int             `json:"nbformat"`
	NBFormatMinor int             `json:"nbformat_minor"`
}

var emptyObject = json.RawMessage("{}")

func orEmpty(m json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(m)) == 0 || bytes.Equal(bytes.TrimSpace(m), []byte("null")) {
		return emptyObject
	}
	return m
}

// MarshalJSON writes the nbformat key layout: code cells always carry
// execution_count and outputs, other cells never do.
func (c *Cell) MarshalJSON() ([]byte, error) {
	if c.CellType == CellCode {
		outputs := c.Outputs
		if outputs == nil {
			outputs = []json.RawMessage{}
		}
		return marshalRaw(codeCellJSON{
			CellType:       c.CellType,
			ExecutionCount: c.ExecutionCount,
			ID:             c.ID,
			Metadata:       orEmpty(c.Metadata),
			Outputs:        outputs,
			Source:         c.Source,
		})
	}
	return marshalRaw(textCellJSON{
		Attachments: c.Attachments,
		CellType:    c.CellType,
		ID:          c.ID,
		Metadata:    orEmpty(c.Metadata),
		Source:      c.Source,
	})
}

// marshalRaw is json.Marshal without HTML escaping.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Encode serializes the notebook with one-space indentation and a trailing
// newline, without HTML escaping.
func Encode(nb *Notebook) ([]byte, error) {
	cells := nb.Cells
	if cells == nil {
		cells = []*Cell{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(notebookJSON{
		Cells:         cells,
		Metadata:      orEmpty(nb.Metadata),
		NBFormat:      nb.NBFormat,
		NBFormatMinor: nb.NBFormatMinor,
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
