package model

const (
	DefaultSeparator = "\n"
	DefaultDays      = 8
	DefaultPeriods   = 8
	ClashMark        = "**CLASH**"
)

type ParserOptions struct {
	Separator string // Line separator within a cell, "\n" when empty
	Days      int    // Highest valid day index, DefaultDays when zero
	FullWeek  int    // When positive, cells not covering days 1..FullWeek are reported
}

// CellResult carries the successfully parsed part of a cell along with every warning it raised
type CellResult struct {
	Cell     Cell
	Warnings []ParseWarning
}

// Parser turns raw cell text into assignments line by line. A malformed line
// yields a warning and no assignment; parsing a cell never fails as a whole.
//
// Example:
//
//	parser := model.NewParser(model.ParserOptions{})
//	result := parser.ParseCell(model.Coord{Key: "10A", Column: 1}, "MATH (1-3, 5) SK\nPHY (4) RK")
//	// result.Cell.Assignments[0].Days == model.DaySet{1, 2, 3, 5}
type Parser interface {
	ParseCell(coord Coord, text string) CellResult
	// Parses a single line; ok is false when the line holds no assignment
	ParseLine(line string) (assignment Assignment, ok bool, problems []string)
}

func NewParser(options ParserOptions) Parser {
	if options.Separator == "" {
		options.Separator = DefaultSeparator
	}
	if options.Days <= 0 {
		options.Days = DefaultDays
	}
	return &standardParser{options}
}
