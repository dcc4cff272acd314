package model

import (
	"errors"
	"fmt"
)

var ErrStructural = errors.New("structural error")

// Coord addresses a cell of a grid by its row key and period column
type Coord struct {
	Key    string
	Column int
}

func (coord Coord) String() string {
	return fmt.Sprintf("%v/%v", coord.Key, coord.Column)
}

// ParseWarning reports a malformed line of a cell. It never aborts a run.
type ParseWarning struct {
	Coord  Coord
	Ref    string // Spreadsheet reference of the cell (e.g. "B3") when known
	Line   string
	Reason string
}

func (warning ParseWarning) Error() string {
	location := warning.Coord.String()
	if warning.Ref != "" {
		location = fmt.Sprintf("%v (%v)", warning.Ref, location)
	}
	if warning.Line == "" {
		return fmt.Sprintf("cell %v: %v", location, warning.Reason)
	}
	return fmt.Sprintf("cell %v: %v: %q", location, warning.Reason, warning.Line)
}

// StructuralError reports a grid that cannot be processed; no output is produced for the run
type StructuralError struct {
	Coord  Coord
	Reason string
}

func (err *StructuralError) Error() string {
	return fmt.Sprintf("%v at %v: %v", ErrStructural, err.Coord, err.Reason)
}

func (err *StructuralError) Unwrap() error { return ErrStructural }

func structuralf(coord Coord, format string, args ...any) error {
	return &StructuralError{Coord: coord, Reason: fmt.Sprintf(format, args...)}
}
