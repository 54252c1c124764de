package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"budgetpal/internal/cli"
	"budgetpal/internal/config"
	"budgetpal/internal/console"
	"budgetpal/internal/log"
	"budgetpal/internal/services"
)

// app holds what every subcommand shares. It is filled in by the root
// command's pre-run hook.
type app struct {
	rootCmd *cobra.Command
	out     io.Writer
	now     func() time.Time

	configPath string
	dbPath     string

	cfg     *config.Config
	logger  *log.Logger
	ledger  *services.Ledger
	console *console.Console
	stop    context.CancelFunc
}

func newApp(out io.Writer) *app {
	a := &app{out: out, now: time.Now}

	rootCmd := &cobra.Command{
		Use:           "budgetpal",
		Short:         "Personal budget tracker backed by a local SQLite file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Database file (overrides SQLITE_DB_PATH)")

	rootCmd.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.historyCmd(),
		a.dashboardCmd(),
		a.reportCmd(),
		a.wipeCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.versionCmd(),
	)

	a.rootCmd = rootCmd
	return a
}

// Execute runs the CLI and prints a failure through the console.
func (a *app) Execute() error {
	err := a.rootCmd.Execute()
	if err != nil {
		if a.console == nil {
			a.console = console.New(a.out, config.Default().CurrencySymbol)
		}
		a.console.Error("%v", err)
	}
	// Teardown is skipped by cobra when RunE fails.
	if cerr := a.teardown(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := cli.LoadAndValidateConfig(a.configPath, func(c *config.Config) {
		if a.dbPath != "" {
			c.SQLiteDBPath = a.dbPath
		}
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := cli.SetupLogger(cfg)
	if err != nil {
		return err
	}
	a.logger = logger
	a.console = console.New(a.out, cfg.CurrencySymbol)

	ctx, stop := cli.SignalContext(cmd.Context(), logger)
	a.stop = stop
	cmd.SetContext(ctx)

	ledger, err := cli.OpenLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	a.ledger = ledger
	return nil
}

func (a *app) teardown() error {
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
	if a.ledger == nil {
		return nil
	}
	err := a.ledger.Close()
	a.ledger = nil
	return err
}

func (a *app) limits() services.DashboardLimits {
	return services.DashboardLimits{
		Recent:        a.cfg.OverviewRecentLimit,
		Chart:         a.cfg.ExpenseChartLimit,
		TopCategories: a.cfg.TopCategoriesLimit,
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "budgetpal %s\n", version)
		},
	}
}

var errWipeNotConfirmed = errors.New("refusing to delete all data without --yes")
