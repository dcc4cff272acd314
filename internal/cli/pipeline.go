package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"

	"github.com/limaJavier/twig/internal/sheet"
	"github.com/limaJavier/twig/pkg/model"
)

type tally struct {
	warnings    int
	clashes     int
	differences int
}

func (tally tally) issues() int {
	return tally.warnings + tally.clashes + tally.differences
}

// readGrid loads a grid sheet. Parse warnings are logged and counted; structural problems abort.
func (app *app) readGrid(workbook sheet.Workbook, sheetName string, orientation model.Orientation) (*model.Grid, int, error) {
	raws, err := sheet.ReadCells(workbook, sheetName, app.cfg.Periods)
	if err != nil {
		return nil, 0, err
	}

	parser := model.NewParser(app.cfg.ParserOptions())
	grid, warnings, err := model.LoadGrid(orientation, app.cfg.Periods, parser, raws)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %v sheet: %w", sheetName, err)
	}

	for _, warning := range warnings {
		app.logger.Warn(warning.Reason, "cell", lo.Ternary(warning.Ref == "", warning.Coord.String(), warning.Ref), "line", warning.Line)
	}
	app.logger.Debug("grid loaded", "sheet", sheetName, "rows", len(grid.Keys()), "warnings", len(warnings))
	return grid, len(warnings), nil
}

// directory returns the teacher names and their directory order; a missing directory is not an error
func (app *app) directory(workbook sheet.Workbook) (model.NameTable, []string) {
	sheetName := app.cfg.Sheets.Teachers
	if !sheet.HasSheet(workbook, sheetName) {
		if app.cfg.FullName {
			app.logger.Warn("teacher directory not found, keeping short names", "sheet", sheetName)
		}
		return model.NameTable{}, nil
	}

	names, order, err := sheet.LoadNames(workbook, sheetName)
	if err != nil {
		app.logger.Warn("cannot read teacher directory", "sheet", sheetName, "err", err)
		return model.NameTable{}, nil
	}
	return names, order
}

func (app *app) renderer(names model.NameTable) model.Renderer {
	return model.Renderer{Separator: app.cfg.Separator, Names: names, FullNames: app.cfg.FullName}
}

// stamp closes the rows with a fresh time stamp, or carries over the one already in the sheet when stamps are kept
func (app *app) stamp(workbook sheet.Workbook, sheetName string, rows [][]string) [][]string {
	if !app.cfg.KeepStamp {
		return sheet.Stamp(rows, app.now())
	}

	previous, err := workbook.Rows(sheetName)
	if err != nil {
		return rows
	}
	if stamp, ok := lo.Find(previous, func(row []string) bool {
		return len(row) > 0 && strings.HasPrefix(row[0], sheet.StampPrefix)
	}); ok {
		return append(rows, []string{}, stamp)
	}
	return rows
}

// writeVacancies writes the free period counts per teacher and day, and the free teachers of every slot
func (app *app) writeVacancies(workbook sheet.Workbook, grid *model.Grid) error {
	days := lo.RangeFrom(1, app.cfg.WeekDays)
	periods := lo.RangeFrom(1, grid.Periods())

	vacant := [][]string{append([]string{"Teacher"}, lo.Map(days, itoa)...)}
	for _, vacancy := range model.Vacancies(grid, app.cfg.WeekDays) {
		vacant = append(vacant, append([]string{vacancy.Key}, lo.Map(vacancy.Free, itoa)...))
	}
	if err := workbook.WriteRows(app.cfg.Sheets.Vacant, vacant, nil); err != nil {
		return err
	}

	free := [][]string{append([]string{"Day/Period"}, lo.Map(periods, func(period int, _ int) string {
		return fmt.Sprintf("Period %v", period)
	})...)}
	for index, slots := range lo.Chunk(model.FreeTeachers(grid, app.cfg.WeekDays), grid.Periods()) {
		row := []string{fmt.Sprintf("Day %v", days[index])}
		for _, slot := range slots {
			row = append(row, strings.Join(lo.Map(slot.Free, func(key model.FreeKey, _ int) string { return key.String() }), ", "))
		}
		free = append(free, row)
	}
	return workbook.WriteRows(app.cfg.Sheets.FreeTeachers, free, nil)
}

func save(workbook sheet.Workbook, output string) error {
	if output == "" {
		return workbook.Save()
	}
	return workbook.SaveAs(output)
}

// report logs the totals of the run and turns any issue into ErrIssues
func (app *app) report(tally tally, started time.Time) error {
	app.logger.Info("finished", "warnings", tally.warnings, "clashes", tally.clashes, "differences", tally.differences, "elapsed", app.now().Sub(started).Round(time.Millisecond))
	if tally.issues() > 0 {
		return fmt.Errorf("%w: %v warnings, %v clashes, %v differences", ErrIssues, tally.warnings, tally.clashes, tally.differences)
	}
	return nil
}

// naturalOrder sorts class names by their leading grade number, then by section ("9A" < "10A" < "10B")
func naturalOrder(keys []string) []string {
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, func(a, b string) int {
		gradeA, sectionA := splitGrade(a)
		gradeB, sectionB := splitGrade(b)
		if gradeA != gradeB {
			return gradeA - gradeB
		}
		return strings.Compare(sectionA, sectionB)
	})
	return sorted
}

func splitGrade(key string) (int, string) {
	index := strings.IndexFunc(key, func(r rune) bool { return !unicode.IsDigit(r) })
	if index < 0 {
		index = len(key)
	}
	grade, err := strconv.Atoi(key[:index])
	if err != nil {
		return 0, key
	}
	return grade, key[index:]
}

func outputArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return ""
}

func itoa(value int, _ int) string {
	return strconv.Itoa(value)
}
