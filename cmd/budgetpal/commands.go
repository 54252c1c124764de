package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"budgetpal/internal/console"
	"budgetpal/internal/core"
	"budgetpal/internal/export"
	"budgetpal/internal/log"
)

// dateOrToday validates an optional ISO date flag.
func (a *app) dateOrToday(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return core.Today(a.now()), nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return "", fmt.Errorf("%w %q: use YYYY-MM-DD", err, s)
	}
	return d, nil
}

func requiredText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s cannot be empty", field)
	}
	return value, nil
}

func parseAmount(s string) (float64, error) {
	v, err := core.ParseAmount(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: enter a positive number", err, s)
	}
	return v, nil
}

func (a *app) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense, income, budget or savings goal",
	}
	cmd.AddCommand(a.addExpenseCmd(), a.addIncomeCmd(), a.addBudgetCmd(), a.addGoalCmd())
	return cmd
}

func (a *app) addExpenseCmd() *cobra.Command {
	var amount, category, date, clock string
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := parseAmount(amount)
			if err != nil {
				return err
			}
			cat, err := requiredText("category", category)
			if err != nil {
				return err
			}
			day, err := a.dateOrToday(date)
			if err != nil {
				return err
			}
			at := core.Clock(a.now())
			if clock != "" {
				if at, err = core.ParseClock(clock); err != nil {
					return fmt.Errorf("%w %q: use HH:MM or HH:MM:SS", err, clock)
				}
			}

			ctx := cmd.Context()
			id, err := a.ledger.AddExpense(ctx, value, cat, day, at)
			if err != nil {
				return err
			}
			a.console.Success("Expense #%d saved: %s on %s", id, core.FormatAmount(a.cfg.CurrencySymbol, value), cat)
			a.console.Section("Recent Expenses")
			return a.console.Table(console.ExpenseHeader, a.console.ExpenseRows(a.ledger.RecentExpenses(ctx, a.cfg.OverviewRecentLimit)))
		},
	}
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount spent (e.g. 12.50 or 12,50)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Expense category")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&clock, "time", "t", "", "Time as HH:MM[:SS] (default: now)")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("category")
	return cmd
}

func (a *app) addIncomeCmd() *cobra.Command {
	var amount, source, date, notes string
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Record an income",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := parseAmount(amount)
			if err != nil {
				return err
			}
			src, err := requiredText("source", source)
			if err != nil {
				return err
			}
			day, err := a.dateOrToday(date)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			id, err := a.ledger.AddIncome(ctx, value, src, day, strings.TrimSpace(notes))
			if err != nil {
				return err
			}
			a.console.Success("Income #%d saved: %s from %s", id, core.FormatAmount(a.cfg.CurrencySymbol, value), src)
			fmt.Fprintf(a.out, "  Total Income: %s\n", console.BrightGreen(core.FormatAmount(a.cfg.CurrencySymbol, a.ledger.TotalIncome(ctx))))
			fmt.Fprintf(a.out, "  Balance:      %s\n", a.console.Amount(a.ledger.Balance(ctx)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount received")
	cmd.Flags().StringVarP(&source, "source", "s", "", "Income source")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Optional notes")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("source")
	return cmd
}

func (a *app) addBudgetCmd() *cobra.Command {
	var name, date string
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Create a named budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := requiredText("budget name", name)
			if err != nil {
				return err
			}
			day, err := a.dateOrToday(date)
			if err != nil {
				return err
			}
			id, err := a.ledger.AddBudget(cmd.Context(), n, 0, day)
			if err != nil {
				return err
			}
			a.console.Success("Budget #%d created: %s", id, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Budget name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date as YYYY-MM-DD (default: today)")
	cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) addGoalCmd() *cobra.Command {
	var goal, date string
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Record a savings goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := requiredText("goal", goal)
			if err != nil {
				return err
			}
			day, err := a.dateOrToday(date)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			id, err := a.ledger.AddSavingsGoal(ctx, g, day)
			if err != nil {
				return err
			}
			a.console.Success("Savings goal #%d saved", id)
			a.console.Section("Recent Savings Goals")
			return a.console.Table(console.SavingsGoalHeader, a.console.SavingsGoalRows(a.ledger.RecentSavingsGoals(ctx, a.cfg.OverviewRecentLimit)))
		},
	}
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Goal description")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date as YYYY-MM-DD (default: today)")
	cmd.MarkFlagRequired("goal")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "list {expenses|income|budgets|goals}",
		Short:     "List every record of one kind, newest date first",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"expenses", "income", "budgets", "goals"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.console
			switch args[0] {
			case "expenses":
				return c.Table(console.ExpenseHeader, c.ExpenseRows(a.ledger.AllExpenses(ctx)))
			case "income":
				return c.Table(console.IncomeHeader, c.IncomeRows(a.ledger.AllIncome(ctx)))
			case "budgets":
				return c.Table(console.BudgetHeader, c.BudgetRows(a.ledger.AllBudgets(ctx)))
			default:
				return c.Table(console.SavingsGoalHeader, c.SavingsGoalRows(a.ledger.AllSavingsGoals(ctx)))
			}
		},
	}
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show income and expenses as one transaction history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.console.Section("Transaction History")
			return a.console.Table(console.FeedHeader, a.console.FeedRows(a.ledger.UnifiedTransactionFeed(cmd.Context())))
		},
	}
}

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals, balance, recent activity and top categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov, err := a.ledger.Dashboard(cmd.Context(), a.limits())
			if err != nil {
				return err
			}
			return a.console.Overview(ov)
		},
	}
}

func (a *app) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show expenses by category and the top spending categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov, err := a.ledger.Dashboard(cmd.Context(), a.limits())
			if err != nil {
				return err
			}
			return a.console.Report(ov)
		},
	}
}

func (a *app) wipeCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errWipeNotConfirmed
			}
			if err := a.ledger.WipeAllData(cmd.Context()); err != nil {
				return err
			}
			a.console.Success("All data has been deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion of all data")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		formats []string
		name    string
		dir     string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export data as JSON, CSV or a PDF report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if dir == "" {
				dir = a.cfg.ExportDir
			}

			snap, err := a.ledger.Snapshot(ctx)
			if err != nil {
				return err
			}
			if snap.Len() == 0 {
				a.console.Warning("The ledger is empty; exports will contain no records")
			}

			for _, format := range formats {
				var path string
				switch strings.ToLower(strings.TrimSpace(format)) {
				case "json":
					path, err = export.WriteJSON(snap, dir, name)
				case "csv":
					path, err = export.WriteCSV(snap, dir, name)
				case "pdf":
					ov, derr := a.ledger.Dashboard(ctx, a.limits())
					if derr != nil {
						return derr
					}
					path, err = export.WritePDF(export.Report{
						Overview:    ov,
						Currency:    a.cfg.CurrencySymbol,
						GeneratedAt: a.now(),
					}, dir, name)
				default:
					return fmt.Errorf("unsupported export format %q: use json, csv or pdf", format)
				}
				if err != nil {
					return err
				}
				a.logger.WithComponent(log.ComponentExport).InfoContext(ctx, "Export written",
					log.FieldOperation, log.OpExport, log.FieldFormat, format, log.FieldPath, path, log.FieldCount, snap.Len())
				a.console.Success("Saved %s export to %s", strings.ToUpper(format), path)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{"json"}, "Export formats: json, csv, pdf")
	cmd.Flags().StringVarP(&name, "name", "n", export.DefaultName, "Base name for the export files")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default: EXPORT_DIR)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Append every record of a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := export.ReadJSON(args[0])
			if err != nil {
				return err
			}
			if snap.Len() == 0 {
				return errors.New("export file holds no records")
			}
			n, err := a.ledger.Import(cmd.Context(), snap)
			if err != nil {
				return err
			}
			a.console.Success("Imported %d records from %s", n, args[0])
			return nil
		},
	}
}
