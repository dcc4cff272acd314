package model

import (
	"slices"

	"github.com/samber/lo"
)

const (
	RoleClass   = "class"
	RoleTeacher = "teacher"
)

// Orientation names the role of a grid's row keys and of the holders inside its cells
type Orientation struct {
	Key    string
	Holder string
}

var (
	Classwise   = Orientation{Key: RoleClass, Holder: RoleTeacher}
	Teacherwise = Orientation{Key: RoleTeacher, Holder: RoleClass}
)

func (orientation Orientation) Swap() Orientation {
	return Orientation{Key: orientation.Holder, Holder: orientation.Key}
}

func (orientation Orientation) String() string {
	return orientation.Key + "wise"
}

// Grid is an immutable timetable: row keys by period columns, each position holding a cell.
// Keys and columns keep the order in which they were first added.
type Grid struct {
	orientation Orientation
	periods     int
	keys        []string
	columns     []int
	cells       map[string]map[int]Cell
}

func (grid *Grid) Orientation() Orientation { return grid.orientation }

func (grid *Grid) Periods() int { return grid.periods }

func (grid *Grid) Keys() []string { return slices.Clone(grid.keys) }

// Columns returns the columns in order of first occurrence
func (grid *Grid) Columns() []int { return slices.Clone(grid.columns) }

func (grid *Grid) HasKey(key string) bool {
	_, ok := grid.cells[key]
	return ok
}

// Cell returns the cell at (key, column) or an empty cell
func (grid *Grid) Cell(key string, column int) Cell {
	return grid.cells[key][column]
}

// Triple is one rendered position of a grid, ready for a spreadsheet writer
type Triple struct {
	Row    string
	Column int
	Text   string
}

// Triples renders every non-empty cell, row by row, in the grid's order
func (grid *Grid) Triples(renderer Renderer) []Triple {
	triples := make([]Triple, 0)
	for _, key := range grid.keys {
		label := renderer.Label(grid.orientation, key)
		for _, column := range grid.columns {
			cell := grid.Cell(key, column)
			if cell.Empty() {
				continue
			}
			triples = append(triples, Triple{Row: label, Column: column, Text: renderer.Cell(cell)})
		}
	}
	return triples
}

// Reordered returns a copy of the grid whose keys listed in order come first, in
// that order, followed by the remaining keys in their original order
func (grid *Grid) Reordered(order []string) *Grid {
	known := lo.Filter(order, func(key string, _ int) bool { return grid.HasKey(key) })
	known = lo.Uniq(known)
	rest := lo.Without(grid.keys, known...)

	reordered := *grid
	reordered.keys = append(known, rest...)
	return &reordered
}

// GridBuilder accumulates cells and produces a Grid; a built grid is never modified again
type GridBuilder struct {
	grid *Grid
}

func NewGridBuilder(orientation Orientation, periods int) *GridBuilder {
	if periods <= 0 {
		periods = DefaultPeriods
	}
	return &GridBuilder{grid: &Grid{
		orientation: orientation,
		periods:     periods,
		keys:        make([]string, 0),
		columns:     make([]int, 0),
		cells:       make(map[string]map[int]Cell),
	}}
}

// AddKey registers a row even when none of its cells holds an assignment
func (builder *GridBuilder) AddKey(key string) error {
	if key == "" {
		return structuralf(Coord{}, "empty %v name", builder.grid.orientation.Key)
	}
	if _, ok := builder.grid.cells[key]; !ok {
		builder.grid.keys = append(builder.grid.keys, key)
		builder.grid.cells[key] = make(map[int]Cell)
	}
	return nil
}

// AddColumn registers a period column, fixing its position in the column order
func (builder *GridBuilder) AddColumn(column int) error {
	// Verify column is within the declared period range
	if column < 1 || column > builder.grid.periods {
		return structuralf(Coord{Column: column}, "period %v outside 1-%v", column, builder.grid.periods)
	}
	if !slices.Contains(builder.grid.columns, column) {
		builder.grid.columns = append(builder.grid.columns, column)
	}
	return nil
}

func (builder *GridBuilder) Add(key string, column int, cell Cell) error {
	coord := Coord{Key: key, Column: column}

	if column < 1 || column > builder.grid.periods {
		return structuralf(coord, "period %v outside 1-%v", column, builder.grid.periods)
	}
	if err := builder.AddKey(key); err != nil {
		return err
	}
	// Make sure every position is filled only once
	if _, ok := builder.grid.cells[key][column]; ok {
		return structuralf(coord, "duplicate %v %q in period %v", builder.grid.orientation.Key, key, column)
	}

	if err := builder.AddColumn(column); err != nil {
		return err
	}
	builder.grid.cells[key][column] = cell
	return nil
}

func (builder *GridBuilder) Build() *Grid {
	grid := builder.grid
	builder.grid = nil
	return grid
}

// RawCell is a cell as delivered by a spreadsheet reader
type RawCell struct {
	Row    string
	Column int
	Text   string
	Ref    string
}

// LoadGrid parses raw cells and builds a grid out of them. Parse warnings are
// collected and returned; a structural problem aborts the load.
func LoadGrid(orientation Orientation, periods int, parser Parser, raws []RawCell) (*Grid, []ParseWarning, error) {
	builder := NewGridBuilder(orientation, periods)
	warnings := make([]ParseWarning, 0)

	for _, raw := range raws {
		coord := Coord{Key: raw.Row, Column: raw.Column}
		result := parser.ParseCell(coord, raw.Text)

		for _, warning := range result.Warnings {
			warning.Ref = raw.Ref
			warnings = append(warnings, warning)
		}

		if err := builder.Add(raw.Row, raw.Column, result.Cell); err != nil {
			return nil, warnings, err
		}
	}

	return builder.Build(), warnings, nil
}
