package cli

import (
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/limaJavier/twig/internal/sheet"
	"github.com/limaJavier/twig/pkg/model"
)

func (app *app) newDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff base current",
		Short: "Compare two classwise timetables",
		Long: "Reports the lessons added, removed or changed between the classwise sheets of base and current, " +
			"lists the teachers likely affected and highlights the changed cells in current.",
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.diff(args[0], args[1])
		},
	}
}

func (app *app) diff(basePath, currentPath string) error {
	started := app.now()
	sheetName := app.cfg.Sheets.Classwise

	base, err := sheet.Open(basePath)
	if err != nil {
		return err
	}
	defer base.Close()
	current, err := sheet.Open(currentPath)
	if err != nil {
		return err
	}
	defer current.Close()

	baseGrid, baseWarnings, err := app.readGrid(base, sheetName, model.Classwise)
	if err != nil {
		return err
	}
	currentGrid, currentWarnings, err := app.readGrid(current, sheetName, model.Classwise)
	if err != nil {
		return err
	}

	report, err := model.Diff(baseGrid, currentGrid)
	if err != nil {
		return err
	}

	//** Report
	app.logger.Info("comparing timetables", "base", basePath, "current", currentPath)
	for _, key := range report.OnlyInBase {
		app.logger.Warn("class missing from current timetable", "class", key)
	}
	for _, key := range report.OnlyInCurrent {
		app.logger.Warn("class missing from base timetable", "class", key)
	}

	refs, err := app.cellRefs(current, sheetName)
	if err != nil {
		return err
	}
	marks := make([]sheet.Mark, 0, len(report.Cells))
	for _, cellDiff := range report.Cells {
		ref, ok := refs[cellDiff.Coord]
		for _, change := range cellDiff.Changes {
			app.logger.Info(change.String(), "cell", lo.Ternary(ok, ref, cellDiff.Coord.String()))
		}
		if !ok {
			continue
		}
		mark, err := sheet.MarkAt(ref, sheet.StyleChanged)
		if err != nil {
			return err
		}
		marks = append(marks, mark)
	}

	if !report.Empty() {
		app.logger.Info("differences found", "cells", strings.Join(lo.Map(marks, func(mark sheet.Mark, _ int) string { return mark.Ref() }), ", "))
		app.logger.Info("likely affected teachers", "teachers", strings.Join(report.Affected(), ", "))
	}

	//** Highlight changes in current
	if len(marks) > 0 {
		if err := current.Highlight(sheetName, marks); err != nil {
			return err
		}
		if err := current.Save(); err != nil {
			return err
		}
	}

	differences := len(report.Cells) + len(report.OnlyInBase) + len(report.OnlyInCurrent)
	return app.report(tally{warnings: baseWarnings + currentWarnings, differences: differences}, started)
}

// cellRefs maps every grid coordinate of a sheet to its spreadsheet reference
func (app *app) cellRefs(workbook sheet.Workbook, sheetName string) (map[model.Coord]string, error) {
	raws, err := sheet.ReadCells(workbook, sheetName, app.cfg.Periods)
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(raws, func(raw model.RawCell) (model.Coord, string) {
		return model.Coord{Key: raw.Row, Column: raw.Column}, raw.Ref
	}), nil
}
