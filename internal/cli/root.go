// Package cli wires the twig commands together with cobra.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/limaJavier/twig/internal/config"
)

const Version = "1.0.0"

// ErrIssues reports a completed run that found parse warnings, clashes or differences
var ErrIssues = errors.New("timetable has issues")

type app struct {
	out    io.Writer
	now    func() time.Time
	cfg    *config.Config
	logger *log.Logger

	configPath string
	flags      struct {
		separator       string
		keepStamp       bool
		logLevel        string
		fullName        bool
		combineSections bool
	}
}

func NewRootCommand(out io.Writer) *cobra.Command {
	return newRootCommand(out, time.Now)
}

func newRootCommand(out io.Writer, now func() time.Time) *cobra.Command {
	app := &app{out: out, now: now}

	root := &cobra.Command{
		Use:           "twig",
		Short:         "Timetable manipulation utility",
		Long:          "Generates a teacherwise timetable from a classwise one (and back), reports clashes and compares timetable versions.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetVersionTemplate("twig version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&app.flags.separator, "separator", "s", config.EscapeSeparator(config.Default().Separator), `line separator inside a cell; "\n" means newline`)
	flags.BoolVarP(&app.flags.keepStamp, "keepstamp", "k", false, "keep the time stamp intact")
	flags.StringVarP(&app.configPath, "config", "c", "", "config file (.json or .toml); twig.json or twig.toml in the working directory or beside the executable by default")
	flags.StringVar(&app.flags.logLevel, "log-level", config.Default().LogLevel, "log level: debug, info, warn or error")

	root.AddCommand(app.newTeacherwiseCommand())
	root.AddCommand(app.newClasswiseCommand())
	root.AddCommand(app.newVacantCommand())
	root.AddCommand(app.newDiffCommand())

	return root
}

// setup layers command line flags over the loaded configuration and builds the logger
func (app *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if changed("separator") {
		cfg.Separator = app.flags.separator
	}
	if changed("keepstamp") {
		cfg.KeepStamp = app.flags.keepStamp
	}
	if changed("log-level") {
		cfg.LogLevel = app.flags.logLevel
	}
	if changed("fullname") {
		cfg.FullName = app.flags.fullName
	}
	if changed("combine-sections") {
		cfg.CombineSections = app.flags.combineSections
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.logger = log.NewWithOptions(app.out, log.Options{Level: level})
	app.logger.Debug("configuration loaded", "separator", config.EscapeSeparator(cfg.Separator), "periods", cfg.Periods, "days", cfg.Days)
	return nil
}

// Execute runs the root command and returns the process exit status
func Execute() int {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, ErrIssues) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}
