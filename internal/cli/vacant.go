package cli

import (
	"github.com/spf13/cobra"

	"github.com/limaJavier/twig/internal/sheet"
	"github.com/limaJavier/twig/pkg/model"
)

func (app *app) newVacantCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "vacant infile",
		Short: "Show vacant periods for all teachers",
		Long:  "Reads the teacherwise sheet and writes the vacant periods and free teachers sheets back to infile.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.vacant(args[0])
		},
	}
}

func (app *app) vacant(input string) error {
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
	if err := app.writeVacancies(workbook, teacherwise); err != nil {
		return err
	}
	if err := workbook.Save(); err != nil {
		return err
	}

	app.logger.Info("vacant periods saved", "sheet", app.cfg.Sheets.Vacant, "file", input)
	return app.report(tally{warnings: warnings}, started)
}
