package sheet

import (
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/limaJavier/twig/pkg/model"
)

const StampPrefix = "Last updated on"

// Extra is a trailing column appended after the period columns
type Extra struct {
	Header string
	Values map[string]string // key -> value
}

// GridRows lays a grid out as a header ("Name", 1..periods, extras) followed by one row per key.
// Cells carrying a clash are marked.
func GridRows(grid *model.Grid, renderer model.Renderer, extras ...Extra) ([][]string, []Mark) {
	periods := lo.RangeFrom(1, grid.Periods())

	header := []string{"Name"}
	header = append(header, lo.Map(periods, func(period int, _ int) string { return strconv.Itoa(period) })...)
	header = append(header, lo.Map(extras, func(extra Extra, _ int) string { return extra.Header })...)

	rows := [][]string{header}
	marks := make([]Mark, 0)
	for index, key := range grid.Keys() {
		row := []string{renderer.Label(grid.Orientation(), key)}
		for _, period := range periods {
			cell := grid.Cell(key, period)
			row = append(row, renderer.Cell(cell))
			if len(cell.Clash) > 0 {
				marks = append(marks, Mark{Row: index + 2, Column: period + 1, Style: StyleClash})
			}
		}
		for _, extra := range extras {
			row = append(row, extra.Values[key])
		}
		rows = append(rows, row)
	}
	return rows, marks
}

// Stamp appends a blank row and the "Last updated on ..." row
func Stamp(rows [][]string, now time.Time) [][]string {
	return append(rows, []string{}, []string{fmt.Sprintf("%v %v", StampPrefix, now.Format("02 Jan 2006 15:04"))})
}
