// Package sheet reads and writes timetable grids stored in workbooks.
package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/limaJavier/twig/pkg/model"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrFormat        = errors.New("unsupported workbook format")
)

// Style names the fill applied to a marked cell
type Style string

const (
	StyleChanged Style = "changed"
	StyleClash   Style = "clash"
)

// Mark highlights one cell; Row and Column are 1-based
type Mark struct {
	Row    int   `mapstructure:"row" json:"row"`
	Column int   `mapstructure:"column" json:"column"`
	Style  Style `mapstructure:"style" json:"style"`
}

func (mark Mark) Ref() string {
	ref, _ := excelize.CoordinatesToCellName(mark.Column, mark.Row)
	return ref
}

// MarkAt builds a mark from a cell reference such as "C4"
func MarkAt(ref string, style Style) (Mark, error) {
	column, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return Mark{}, err
	}
	return Mark{Row: row, Column: column, Style: style}, nil
}

type Workbook interface {
	// Sheets lists the sheet names in workbook order
	Sheets() []string
	Rows(sheet string) ([][]string, error)
	// WriteRows replaces the content of sheet, creating it when missing
	WriteRows(sheet string, rows [][]string, marks []Mark) error
	// Highlight applies marks to an existing sheet without touching its values
	Highlight(sheet string, marks []Mark) error
	Save() error
	SaveAs(path string) error
	Close() error
}

// Open picks the backend from the file extension
func Open(path string) (Workbook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return openXlsx(path)
	case ".json":
		return openJSON(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
	}
}

func HasSheet(workbook Workbook, sheet string) bool {
	return lo.Contains(workbook.Sheets(), sheet)
}

// ReadCells reads a grid sheet. Row 1 is the header ("Name", 1..N, ...), column A
// holds the row labels and reading stops at the first row without a label.
// Columns whose header is not a number (e.g. "Periods", "Summary") are ignored;
// a period number outside 1..periods is a structural error.
func ReadCells(workbook Workbook, sheet string, periods int) ([]model.RawCell, error) {
	rows, err := workbook.Rows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	//** Header
	columns := make(map[int]int) // sheet column index -> period
	for index, header := range rows[0] {
		if index == 0 {
			continue
		}
		period, err := strconv.Atoi(strings.TrimSpace(header))
		if err != nil {
			continue
		}
		if period < 1 || period > periods {
			ref, _ := excelize.CoordinatesToCellName(index+1, 1)
			return nil, &model.StructuralError{
				Coord:  model.Coord{Key: sheet, Column: period},
				Reason: fmt.Sprintf("header %v: period %v out of range 1-%v", ref, period, periods),
			}
		}
		columns[index] = period
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("sheet %q has no period columns in its header", sheet)
	}
	indexes := lo.Keys(columns)
	slices.Sort(indexes)

	//** Body
	raws := make([]model.RawCell, 0)
	for rowIndex, row := range rows[1:] {
		label := strings.TrimSpace(cellAt(row, 0))
		if label == "" {
			break
		}
		key := model.ShortCode(label)
		for _, index := range indexes {
			ref, _ := excelize.CoordinatesToCellName(index+1, rowIndex+2)
			raws = append(raws, model.RawCell{
				Row:    key,
				Column: columns[index],
				Text:   cellAt(row, index),
				Ref:    ref,
			})
		}
	}
	return raws, nil
}

// LoadNames reads the teacher directory: a header row with SHORTNAME and NAME
// columns followed by one teacher per row. Rows starting with '#' are comments.
// The codes are also returned in directory order.
func LoadNames(workbook Workbook, sheet string) (model.NameTable, []string, error) {
	rows, err := workbook.Rows(sheet)
	if err != nil {
		return nil, nil, err
	}

	names := make(model.NameTable)
	order := make([]string, 0)
	if len(rows) == 0 {
		return names, order, nil
	}

	header := lo.Map(rows[0], func(title string, _ int) string { return strings.ToUpper(strings.TrimSpace(title)) })
	codeIndex := lo.IndexOf(header, "SHORTNAME")
	nameIndex := lo.IndexOf(header, "NAME")
	if codeIndex < 0 || nameIndex < 0 {
		return nil, nil, fmt.Errorf("sheet %q needs SHORTNAME and NAME columns", sheet)
	}

	for _, row := range rows[1:] {
		if strings.HasPrefix(strings.TrimSpace(cellAt(row, 0)), "#") {
			continue
		}
		code := strings.TrimSpace(cellAt(row, codeIndex))
		if code == "" {
			continue
		}
		if _, seen := names[code]; !seen {
			order = append(order, code)
		}
		names[code] = strings.TrimSpace(cellAt(row, nameIndex))
	}
	return names, order, nil
}

func cellAt(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}
