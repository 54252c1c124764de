package services

import (
	"context"
	"fmt"

	"budgetpal/internal/core"
	"budgetpal/internal/log"
	"budgetpal/internal/storage"
)

// Ledger is the command and query surface of the application. Commands
// return storage errors to the caller; queries go through the Aggregator
// and fail soft.
type Ledger struct {
	db     *storage.DB
	agg    *Aggregator
	logger *log.Logger
}

func NewLedger(db *storage.DB, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.Discard()
	}
	return &Ledger{
		db:     db,
		agg:    NewAggregator(db, logger),
		logger: logger.WithComponent(log.ComponentLedger),
	}
}

// Aggregator exposes the fail-soft query engine backing the ledger.
func (l *Ledger) Aggregator() *Aggregator {
	return l.agg
}

// created logs a stored record. category is empty for everything but expenses.
func (l *Ledger) created(ctx context.Context, entity core.Entity, id int64, amount float64, category, date string) {
	fields := log.NewFields().
		WithOperation(log.OpCreate).
		WithRecord(entity.String(), id, amount).
		WithDetail(category, date)
	l.logger.InfoContext(ctx, "Record saved", fields.ToSlice()...)
}

// AddExpense stores an expense and returns its identifier.
func (l *Ledger) AddExpense(ctx context.Context, amount float64, category, date, clock string) (int64, error) {
	id, err := l.db.Expenses.Insert(ctx, core.Expense{
		Amount:   amount,
		Category: category,
		Date:     date,
		Time:     clock,
	})
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}
	l.created(ctx, core.Expenses, id, amount, category, date)
	return id, nil
}

// AddIncome stores an income entry. notes may be empty.
func (l *Ledger) AddIncome(ctx context.Context, amount float64, source, date, notes string) (int64, error) {
	id, err := l.db.Incomes.Insert(ctx, core.Income{
		Amount: amount,
		Source: source,
		Date:   date,
		Notes:  notes,
	})
	if err != nil {
		return 0, fmt.Errorf("save income: %w", err)
	}
	l.created(ctx, core.Incomes, id, amount, "", date)
	return id, nil
}

func (l *Ledger) AddBudget(ctx context.Context, name string, amount float64, date string) (int64, error) {
	id, err := l.db.Budgets.Insert(ctx, core.Budget{
		Name:   name,
		Amount: amount,
		Date:   date,
	})
	if err != nil {
		return 0, fmt.Errorf("save budget: %w", err)
	}
	l.created(ctx, core.Budgets, id, amount, "", date)
	return id, nil
}

func (l *Ledger) AddSavingsGoal(ctx context.Context, goal, date string) (int64, error) {
	id, err := l.db.SavingsGoals.Insert(ctx, core.SavingsGoal{
		Goal: goal,
		Date: date,
	})
	if err != nil {
		return 0, fmt.Errorf("save savings goal: %w", err)
	}
	l.created(ctx, core.SavingsGoals, id, 0, "", date)
	return id, nil
}

// WipeAllData deletes every record of every kind.
func (l *Ledger) WipeAllData(ctx context.Context) error {
	if err := l.db.WipeAll(ctx); err != nil {
		return fmt.Errorf("wipe data: %w", err)
	}
	l.logger.WarnContext(ctx, "All records deleted", log.FieldOperation, log.OpWipe)
	return nil
}

// Snapshot reads every record for export. Unlike the queries it returns
// store errors, so an export never silently comes out empty.
func (l *Ledger) Snapshot(ctx context.Context) (core.Snapshot, error) {
	snap, err := l.db.Snapshot(ctx)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return snap, nil
}

// Import appends every record of snap, all or nothing.
func (l *Ledger) Import(ctx context.Context, snap core.Snapshot) (int, error) {
	n, err := l.db.ImportSnapshot(ctx, snap)
	if err != nil {
		return 0, fmt.Errorf("import snapshot: %w", err)
	}
	l.logger.InfoContext(ctx, "Snapshot imported", log.FieldOperation, log.OpImport, log.FieldCount, n)
	return n, nil
}

func (l *Ledger) AllExpenses(ctx context.Context) []core.Expense {
	return All(ctx, l.agg, l.db.Expenses)
}

func (l *Ledger) AllIncome(ctx context.Context) []core.Income {
	return All(ctx, l.agg, l.db.Incomes)
}

func (l *Ledger) AllBudgets(ctx context.Context) []core.Budget {
	return All(ctx, l.agg, l.db.Budgets)
}

func (l *Ledger) AllSavingsGoals(ctx context.Context) []core.SavingsGoal {
	return All(ctx, l.agg, l.db.SavingsGoals)
}

// LatestIncome returns the most recently entered income, regardless of its
// date.
func (l *Ledger) LatestIncome(ctx context.Context) (core.Income, bool) {
	return Latest(ctx, l.agg, l.db.Incomes)
}

func (l *Ledger) TotalIncome(ctx context.Context) float64 {
	return l.agg.TotalAmount(ctx, core.Incomes)
}

func (l *Ledger) TotalExpenses(ctx context.Context) float64 {
	return l.agg.TotalAmount(ctx, core.Expenses)
}

// Balance is total income minus total expenses.
func (l *Ledger) Balance(ctx context.Context) float64 {
	return l.TotalIncome(ctx) - l.TotalExpenses(ctx)
}

func (l *Ledger) UnifiedTransactionFeed(ctx context.Context) []core.Transaction {
	return l.agg.UnifiedTransactionFeed(ctx)
}

func (l *Ledger) ExpensesByCategory(ctx context.Context) map[string]float64 {
	return l.agg.GroupByCategory(ctx)
}

func (l *Ledger) RecentExpenses(ctx context.Context, n int) []core.Expense {
	return RecentN(ctx, l.agg, l.db.Expenses, n)
}

func (l *Ledger) RecentSavingsGoals(ctx context.Context, n int) []core.SavingsGoal {
	return RecentN(ctx, l.agg, l.db.SavingsGoals, n)
}

func (l *Ledger) TopExpenseCategories(ctx context.Context, n int) []core.CategoryTotal {
	return l.agg.TopN(ctx, n)
}

// Close releases the store connection.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	if err := l.db.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	return nil
}
