package notebook

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched (errors.Is) by every document validation failure.
var ErrMalformed = errors.New("malformed notebook")

// Reason classifies why a document was rejected.
type Reason string

const (
	ReasonNotJSON            Reason = "not valid JSON"
	ReasonNotObject          Reason = "document is not a JSON object"
	ReasonMissingVersion     Reason = "missing nbformat version"
	ReasonUnsupportedVersion Reason = "unsupported nbformat version"
	ReasonMissingCells       Reason = "missing cells array"
	ReasonInvalidCell        Reason = "invalid cell"
)

// MalformedError describes a document that could not be read as a notebook.
type MalformedError struct {
	Path   string // empty when parsed from memory
	Reason Reason
	Cell   int // index of the offending cell, -1 when not cell specific
	Err    error
}

func (e *MalformedError) Error() string {
	msg := string(e.Reason)
	if e.Cell >= 0 {
		msg = fmt.Sprintf("%s %d", msg, e.Cell)
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is reports ErrMalformed as a match so callers need not know the concrete type.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

func malformed(reason Reason, cell int, err error) *MalformedError {
	return &MalformedError{Reason: reason, Cell: cell, Err: err}
}
