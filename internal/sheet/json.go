package sheet

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// document is the on-disk layout of a JSON workbook:
//
//	{"order": ["CLASSWISE"], "sheets": {"CLASSWISE": [["Name", 1, 2], ["10A", "MATH (1-6) SK"]]}}
//
// Numbers and nulls in rows are read as their text, and "order" may be omitted.
type document struct {
	Order  []string              `mapstructure:"order" json:"order"`
	Sheets map[string][][]string `mapstructure:"sheets" json:"sheets"`
	Marks  map[string][]Mark     `mapstructure:"marks" json:"marks,omitempty"`
}

type jsonWorkbook struct {
	path     string
	document document
}

func openJSON(path string) (*jsonWorkbook, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook %s: %w", path, err)
	}

	var values map[string]any
	if err := json.Unmarshal(bytes, &values); err != nil {
		return nil, fmt.Errorf("cannot decode workbook %s: %w", path, err)
	}

	workbook := &jsonWorkbook{path: path}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &workbook.document,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return nil, fmt.Errorf("cannot decode workbook %s: %w", path, err)
	}

	workbook.normalize()
	return workbook, nil
}

// NewJSON returns an empty JSON workbook that saves to path
func NewJSON(path string) Workbook {
	workbook := &jsonWorkbook{path: path}
	workbook.normalize()
	return workbook
}

// normalize makes Order list exactly the sheets present, keeping the given order first
func (workbook *jsonWorkbook) normalize() {
	if workbook.document.Sheets == nil {
		workbook.document.Sheets = make(map[string][][]string)
	}
	if workbook.document.Marks == nil {
		workbook.document.Marks = make(map[string][]Mark)
	}

	names := lo.Keys(workbook.document.Sheets)
	slices.Sort(names)
	order := lo.Filter(workbook.document.Order, func(name string, _ int) bool {
		_, ok := workbook.document.Sheets[name]
		return ok
	})
	workbook.document.Order = lo.Union(order, names)
}

func (workbook *jsonWorkbook) Sheets() []string {
	return slices.Clone(workbook.document.Order)
}

func (workbook *jsonWorkbook) Rows(sheet string) ([][]string, error) {
	rows, ok := workbook.document.Sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	return lo.Map(rows, func(row []string, _ int) []string { return slices.Clone(row) }), nil
}

func (workbook *jsonWorkbook) WriteRows(sheet string, rows [][]string, marks []Mark) error {
	if _, ok := workbook.document.Sheets[sheet]; !ok {
		workbook.document.Order = append(workbook.document.Order, sheet)
	}
	workbook.document.Sheets[sheet] = lo.Map(rows, func(row []string, _ int) []string { return slices.Clone(row) })
	delete(workbook.document.Marks, sheet)
	return workbook.Highlight(sheet, marks)
}

func (workbook *jsonWorkbook) Highlight(sheet string, marks []Mark) error {
	if _, ok := workbook.document.Sheets[sheet]; !ok {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	if len(marks) > 0 {
		workbook.document.Marks[sheet] = append(workbook.document.Marks[sheet], marks...)
	}
	return nil
}

// MarksOf returns the highlights recorded on sheet; only JSON workbooks keep them readable
func MarksOf(workbook Workbook, sheet string) []Mark {
	if workbook, ok := workbook.(*jsonWorkbook); ok {
		return slices.Clone(workbook.document.Marks[sheet])
	}
	return nil
}

func (workbook *jsonWorkbook) Save() error {
	return workbook.SaveAs(workbook.path)
}

func (workbook *jsonWorkbook) SaveAs(path string) error {
	bytes, err := json.MarshalIndent(workbook.document, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("cannot save workbook %s: %w", path, err)
	}
	workbook.path = path
	return nil
}

func (workbook *jsonWorkbook) Close() error { return nil }
