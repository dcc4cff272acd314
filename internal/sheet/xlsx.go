package sheet

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

var fills = map[Style]string{
	StyleChanged: "C3C3C3",
	StyleClash:   "FFFF00",
}

type xlsxWorkbook struct {
	file *excelize.File
}

func openXlsx(path string) (*xlsxWorkbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook %s: %w", path, err)
	}
	return &xlsxWorkbook{file: file}, nil
}

// NewXlsx returns an empty in-memory workbook with a single default sheet
func NewXlsx() Workbook {
	return &xlsxWorkbook{file: excelize.NewFile()}
}

func (workbook *xlsxWorkbook) Sheets() []string {
	return workbook.file.GetSheetList()
}

func (workbook *xlsxWorkbook) Rows(sheet string) ([][]string, error) {
	if !HasSheet(workbook, sheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	return workbook.file.GetRows(sheet)
}

func (workbook *xlsxWorkbook) WriteRows(sheet string, rows [][]string, marks []Mark) error {
	if err := workbook.reset(sheet); err != nil {
		return err
	}

	wrap, err := workbook.file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	for rowIndex, row := range rows {
		for columnIndex, value := range row {
			if value == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(columnIndex+1, rowIndex+1)
			if err != nil {
				return err
			}
			if err := workbook.file.SetCellValue(sheet, ref, cellValue(value)); err != nil {
				return err
			}
			if err := workbook.file.SetCellStyle(sheet, ref, ref, wrap); err != nil {
				return err
			}
		}
	}

	if width := lo.Max(lo.Map(rows, func(row []string, _ int) int { return len(row) })); width > 0 {
		last, _ := excelize.ColumnNumberToName(width)
		if err := workbook.file.SetColWidth(sheet, "A", last, 16); err != nil {
			return err
		}
	}

	return workbook.Highlight(sheet, marks)
}

func (workbook *xlsxWorkbook) Highlight(sheet string, marks []Mark) error {
	if !HasSheet(workbook, sheet) {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	styles := make(map[Style]int)
	for _, mark := range marks {
		id, ok := styles[mark.Style]
		if !ok {
			color, known := fills[mark.Style]
			if !known {
				return fmt.Errorf("unknown style %q", mark.Style)
			}
			var err error
			id, err = workbook.file.NewStyle(&excelize.Style{
				Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
				Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
			})
			if err != nil {
				return err
			}
			styles[mark.Style] = id
		}

		if err := workbook.file.SetCellStyle(sheet, mark.Ref(), mark.Ref(), id); err != nil {
			return err
		}
	}
	return nil
}

// reset leaves sheet present and empty, keeping its position in the workbook
func (workbook *xlsxWorkbook) reset(sheet string) error {
	if !HasSheet(workbook, sheet) {
		_, err := workbook.file.NewSheet(sheet)
		return err
	}

	rows, err := workbook.file.GetRows(sheet)
	if err != nil {
		return err
	}
	for range rows {
		if err := workbook.file.RemoveRow(sheet, 1); err != nil {
			return err
		}
	}
	return nil
}

func (workbook *xlsxWorkbook) Save() error {
	return workbook.file.Save()
}

func (workbook *xlsxWorkbook) SaveAs(path string) error {
	return workbook.file.SaveAs(path)
}

func (workbook *xlsxWorkbook) Close() error {
	return workbook.file.Close()
}

// cellValue keeps whole numbers numeric so period headers and counts stay numbers in the spreadsheet
func cellValue(value string) any {
	if number, err := strconv.Atoi(value); err == nil {
		return number
	}
	return value
}
