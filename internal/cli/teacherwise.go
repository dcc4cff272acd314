package cli

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/limaJavier/twig/internal/sheet"
	"github.com/limaJavier/twig/pkg/model"
)

func (app *app) newTeacherwiseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teacherwise infile [outfile]",
		Short: "Generate the teacherwise timetable from the classwise one",
		Long: "Reads the classwise sheet, writes the teacherwise sheet with clashes marked, " +
			"along with the vacant periods and free teachers sheets. The result is saved to outfile, or back to infile.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.teacherwise(args[0], outputArg(args))
		},
	}
	cmd.Flags().BoolVarP(&app.flags.fullName, "fullname", "f", false, "replace short names with full names")
	cmd.Flags().BoolVar(&app.flags.combineSections, "combine-sections", false, "sections of one grade taking a lesson together do not clash")
	return cmd
}

func (app *app) teacherwise(input, output string) error {
	started := app.now()

	workbook, err := sheet.Open(input)
	if err != nil {
		return err
	}
	defer workbook.Close()

	classwise, warnings, err := app.readGrid(workbook, app.cfg.Sheets.Classwise, model.Classwise)
	if err != nil {
		return err
	}

	teacherwise, clashes, err := model.NewTransposer(app.cfg.TransposerOptions()).Transpose(classwise)
	if err != nil {
		return err
	}
	names, order := app.directory(workbook)
	teacherwise = teacherwise.Reordered(order)

	for _, clash := range clashes {
		app.logger.Warn("clash", "teacher", clash.Key, "period", clash.Column, "days", clash.Days().Bracketed(), "classes", strings.Join(clash.Parties(), ", "))
	}
	if app.cfg.RepeatLimit > 0 {
		for _, repetition := range model.RepeatedLessons(teacherwise, app.cfg.RepeatLimit) {
			app.logger.Info(repetition.String())
		}
	}

	//** Teacherwise sheet
	loads := model.Workload(teacherwise)
	rows, marks := sheet.GridRows(teacherwise, app.renderer(names), sheet.Extra{
		Header: "Periods",
		Values: lo.SliceToMap(loads, func(load model.Load) (string, string) { return load.Key, strconv.Itoa(load.Periods) }),
	})
	rows = app.stamp(workbook, app.cfg.Sheets.Teacherwise, rows)
	if err := workbook.WriteRows(app.cfg.Sheets.Teacherwise, rows, marks); err != nil {
		return err
	}

	if err := app.writeVacancies(workbook, teacherwise); err != nil {
		return err
	}
	if err := save(workbook, output); err != nil {
		return err
	}

	app.logger.Info("teacherwise timetable saved", "sheet", app.cfg.Sheets.Teacherwise, "file", lo.Ternary(output == "", input, output))
	return app.report(tally{warnings: warnings, clashes: len(clashes)}, started)
}
