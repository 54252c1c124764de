// Package console renders ledger data for the terminal.
package console

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"budgetpal/internal/core"
)

// Predefined colors for consistent output
var (
	BrightGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightRed   = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Console prints status lines, tables and charts to a writer.
type Console struct {
	w      io.Writer
	symbol string
}

func New(w io.Writer, currencySymbol string) *Console {
	return &Console{w: w, symbol: currencySymbol}
}

func (c *Console) money(v float64) string {
	return core.FormatAmount(c.symbol, v)
}

// Info prints an information line.
func (c *Console) Info(format string, a ...any) {
	pterm.Info.WithWriter(c.w).Printfln(format, a...)
}

// Warning prints a warning line.
func (c *Console) Warning(format string, a ...any) {
	pterm.Warning.WithWriter(c.w).Printfln(format, a...)
}

// Error prints an error line.
func (c *Console) Error(format string, a ...any) {
	pterm.Error.WithWriter(c.w).Printfln(format, a...)
}

// Success prints a success line.
func (c *Console) Success(format string, a ...any) {
	pterm.Success.WithWriter(c.w).Printfln(format, a...)
}

// Section prints a section heading.
func (c *Console) Section(title string) {
	pterm.DefaultSection.WithWriter(c.w).Println(title)
}

// Table renders header and rows. An empty table prints a single notice.
func (c *Console) Table(header []string, rows [][]string) error {
	if len(rows) == 0 {
		fmt.Fprintln(c.w, "  (no records)")
		return nil
	}
	data := pterm.TableData{header}
	data = append(data, rows...)
	return pterm.DefaultTable.WithWriter(c.w).WithHasHeader().WithData(data).Render()
}

// Amount colors v green when positive and red when negative.
func (c *Console) Amount(v float64) string {
	switch {
	case v > 0:
		return BrightGreen(c.money(v))
	case v < 0:
		return BrightRed(c.money(v))
	default:
		return c.money(v)
	}
}

var (
	ExpenseHeader     = []string{"ID", "Date", "Time", "Category", "Amount"}
	IncomeHeader      = []string{"ID", "Date", "Source", "Amount", "Notes"}
	BudgetHeader      = []string{"ID", "Date", "Name", "Amount"}
	SavingsGoalHeader = []string{"ID", "Date", "Goal"}
	FeedHeader        = []string{"Date", "Description", "Type", "Amount"}
	CategoryHeader    = []string{"#", "Category", "Total"}
)

func (c *Console) ExpenseRows(expenses []core.Expense) [][]string {
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{fmt.Sprint(e.ID), e.Date, e.Time, e.Category, c.money(e.Amount)})
	}
	return rows
}

func (c *Console) IncomeRows(income []core.Income) [][]string {
	rows := make([][]string, 0, len(income))
	for _, i := range income {
		rows = append(rows, []string{fmt.Sprint(i.ID), i.Date, i.Source, c.money(i.Amount), i.Notes})
	}
	return rows
}

func (c *Console) BudgetRows(budgets []core.Budget) [][]string {
	rows := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		rows = append(rows, []string{fmt.Sprint(b.ID), b.Date, b.Name, c.money(b.Amount)})
	}
	return rows
}

func (c *Console) SavingsGoalRows(goals []core.SavingsGoal) [][]string {
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, []string{fmt.Sprint(g.ID), g.Date, g.Goal})
	}
	return rows
}

// FeedRows renders income amounts in green and expense amounts in red.
func (c *Console) FeedRows(feed []core.Transaction) [][]string {
	rows := make([][]string, 0, len(feed))
	for _, tx := range feed {
		amount := c.money(tx.Amount)
		if tx.Kind == core.KindIncome {
			amount = BrightGreen(amount)
		} else {
			amount = BrightRed(amount)
		}
		rows = append(rows, []string{tx.Date, tx.Description, string(tx.Kind), amount})
	}
	return rows
}

func (c *Console) CategoryRows(top []core.CategoryTotal) [][]string {
	rows := make([][]string, 0, len(top))
	for i, ct := range top {
		rows = append(rows, []string{fmt.Sprint(i + 1), ct.Category, c.money(ct.Amount)})
	}
	return rows
}

// BreakdownRows lists category totals by amount, largest first.
func (c *Console) BreakdownRows(byCategory map[string]float64) [][]string {
	top := make([]core.CategoryTotal, 0, len(byCategory))
	for category, amount := range byCategory {
		top = append(top, core.CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Amount != top[j].Amount {
			return top[i].Amount > top[j].Amount
		}
		return top[i].Category < top[j].Category
	})
	return c.CategoryRows(top)
}

// ChartBars turns expenses into bars labeled by category, oldest first so
// the chart reads left to right. Bar values are whole currency units.
func ChartBars(expenses []core.Expense) pterm.Bars {
	bars := make(pterm.Bars, 0, len(expenses))
	for i := len(expenses) - 1; i >= 0; i-- {
		e := expenses[i]
		bars = append(bars, pterm.Bar{
			Label: fmt.Sprintf("%s %s", e.Date, e.Category),
			Value: int(math.Round(e.Amount)),
		})
	}
	return bars
}

// Chart renders the expense bar chart.
func (c *Console) Chart(expenses []core.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	return pterm.DefaultBarChart.WithWriter(c.w).
		WithHorizontal().
		WithShowValue().
		WithBars(ChartBars(expenses)).
		Render()
}

// Overview renders the dashboard.
func (c *Console) Overview(ov core.Overview) error {
	c.Section("Overview")
	fmt.Fprintf(c.w, "  Total Income:   %s\n", BrightGreen(c.money(ov.TotalIncome)))
	fmt.Fprintf(c.w, "  Total Expenses: %s\n", BrightRed(c.money(ov.TotalExpenses)))
	fmt.Fprintf(c.w, "  Balance:        %s\n", c.Amount(ov.Balance))
	if ov.LatestIncome != nil {
		fmt.Fprintf(c.w, "  Latest Income:  %s from %s on %s\n",
			BrightCyan(c.money(ov.LatestIncome.Amount)), ov.LatestIncome.Source, ov.LatestIncome.Date)
	}

	c.Section("Recent Expenses")
	if err := c.Table(ExpenseHeader, c.ExpenseRows(ov.RecentExpenses)); err != nil {
		return err
	}

	c.Section("Recent Savings Goals")
	if err := c.Table(SavingsGoalHeader, c.SavingsGoalRows(ov.RecentGoals)); err != nil {
		return err
	}

	c.Section("Expense Chart")
	if err := c.Chart(ov.ChartExpenses); err != nil {
		return err
	}

	c.Section("Top Categories")
	return c.Table(CategoryHeader, c.CategoryRows(ov.TopCategories))
}

// Report renders the reports page: breakdown by category and top spenders.
func (c *Console) Report(ov core.Overview) error {
	c.Section("Expenses by Category")
	if err := c.Table(CategoryHeader, c.BreakdownRows(ov.ByCategory)); err != nil {
		return err
	}
	c.Section("Top Expense Categories")
	if err := c.Table(CategoryHeader, c.CategoryRows(ov.TopCategories)); err != nil {
		return err
	}
	fmt.Fprintf(c.w, "\n  Balance: %s\n", c.Amount(ov.Balance))
	return nil
}
