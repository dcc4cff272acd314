package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/limaJavier/twig/internal/sheet"
	"github.com/limaJavier/twig/pkg/model"
)

func (app *app) newClasswiseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classwise infile [outfile]",
		Short: "Generate the classwise timetable from the teacherwise one",
		Long: "Reads the teacherwise sheet and writes the classwise sheet with a subject summary per class. " +
			"The result is saved to outfile, or back to infile.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.classwise(args[0], outputArg(args))
		},
	}
}

func (app *app) classwise(input, output string) error {
	started := app.now()

	workbook, err := sheet.Open(input)
	if err != nil {
		return err
	}
	defer workbook.Close()

	teacherwise, warnings, err := app.readGrid(workbook, app.cfg.Sheets.Teacherwise, model.Teacherwise)
	if err != nil {
		return err
	}

	classwise, _, err := model.NewTransposer(app.cfg.TransposerOptions()).Transpose(teacherwise)
	if err != nil {
		return err
	}
	classwise = classwise.Reordered(naturalOrder(classwise.Keys()))

	summary := model.SubjectSummary(classwise)
	rows, _ := sheet.GridRows(classwise, app.renderer(model.NameTable{}), sheet.Extra{
		Header: "Summary",
		Values: lo.SliceToMap(summary, func(count model.SubjectCount) (string, string) { return count.Key, count.String() }),
	})
	rows = app.stamp(workbook, app.cfg.Sheets.Classwise, rows)
	if err := workbook.WriteRows(app.cfg.Sheets.Classwise, rows, nil); err != nil {
		return err
	}
	if err := save(workbook, output); err != nil {
		return err
	}

	app.logger.Info("classwise timetable saved", "sheet", app.cfg.Sheets.Classwise, "file", lo.Ternary(output == "", input, output))
	return app.report(tally{warnings: warnings}, started)
}
