package main

import (
	"fmt"
	"io"
	"time"

	charm "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pulse/internal/cli"
	"pulse/internal/config"
	"pulse/internal/ingest"
	"pulse/internal/log"
)

// app carries what every subcommand needs after flags are parsed.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	verbose bool
	dbPath  string
	rules   string
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "pulse-cli",
		Short:         "Import and inspect bank statements from the command line",
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cli.LoadEnvFile()
			a.cfg = config.Load()
			if a.dbPath == "" {
				a.dbPath = a.cfg.SQLiteDBPath
			}
			if a.rules == "" {
				a.rules = a.cfg.CategoryRulesFile
			}
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (default $SQLITE_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&a.rules, "rules", "", "category rules YAML file (default $CATEGORY_RULES_FILE)")

	rootCmd.AddCommand(
		newImportCommand(a),
		newDetectCommand(a),
		newCategorizeCommand(a),
		newMigrateCommand(a),
		newTokenCommand(a),
	)
	return rootCmd
}

// newLogger renders records through charmbracelet/log for terminal output.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := charm.InfoLevel
	if verbose {
		level = charm.DebugLevel
	}
	handler := charm.NewWithOptions(w, charm.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "pulse-cli",
		Level:           level,
	})
	return log.New(log.Config{Handler: handler, Component: log.ComponentCLI})
}

func (a *app) location() (*time.Location, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", a.cfg.Timezone, err)
	}
	return loc, nil
}

func (a *app) categorizer() (*ingest.Categorizer, error) {
	if a.rules == "" {
		return ingest.NewCategorizer(ingest.DefaultRules()), nil
	}
	rules, err := ingest.LoadRules(a.rules)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Loaded category rules", "path", a.rules)
	return ingest.NewCategorizer(rules), nil
}
