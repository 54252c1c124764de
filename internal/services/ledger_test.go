package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"budgetpal/internal/core"
	"budgetpal/internal/log"
	"budgetpal/internal/storage"
)

var errDiskIO = errors.New("disk I/O error")

// brokenConn fails every statement.
type brokenConn struct{}

func (brokenConn) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errDiskIO
}

func (brokenConn) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errDiskIO
}

func (brokenConn) BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error) {
	return nil, errDiskIO
}

func newTestLedger(t *testing.T) (*Ledger, *storage.DB, *bytes.Buffer) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var buf bytes.Buffer
	logger := log.New(log.Config{
		Format:    log.FormatJSON,
		Level:     slog.LevelDebug,
		Component: log.ComponentApp,
		Output:    &buf,
	})
	return NewLedger(db, logger), db, &buf
}

func TestLedgerCommandsAndQueries(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		if got := ledger.TotalIncome(ctx); got != 0 {
			t.Errorf("TotalIncome = %v, want 0", got)
		}
		if got := ledger.AllExpenses(ctx); got == nil || len(got) != 0 {
			t.Errorf("AllExpenses = %v, want empty slice", got)
		}
		if _, ok := ledger.LatestIncome(ctx); ok {
			t.Error("LatestIncome on empty store should report absence")
		}
		if got := ledger.ExpensesByCategory(ctx); len(got) != 0 {
			t.Errorf("ExpensesByCategory = %v, want empty", got)
		}
	})

	mustAdd := func(_ int64, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("command failed: %v", err)
		}
	}

	mustAdd(ledger.AddExpense(ctx, 40, "Food", "2024-05-01", "12:00:00"))
	mustAdd(ledger.AddExpense(ctx, 10, "Transport", "2024-05-02", "08:30:00"))
	mustAdd(ledger.AddExpense(ctx, 5, "Food", "2024-05-03", "19:15:00"))
	mustAdd(ledger.AddIncome(ctx, 100, "Salary", "2024-05-01", ""))
	mustAdd(ledger.AddIncome(ctx, 30, "Refund", "2024-04-20", "tax"))
	mustAdd(ledger.AddBudget(ctx, "Groceries", 0, "2024-05-01"))
	mustAdd(ledger.AddSavingsGoal(ctx, "Bike", "2024-05-01"))
	mustAdd(ledger.AddSavingsGoal(ctx, "Holiday", "2024-05-02"))

	t.Run("totals and balance", func(t *testing.T) {
		if got := ledger.TotalExpenses(ctx); got != 55 {
			t.Errorf("TotalExpenses = %v, want 55", got)
		}
		if got := ledger.TotalIncome(ctx); got != 130 {
			t.Errorf("TotalIncome = %v, want 130", got)
		}
		if got := ledger.Balance(ctx); got != 75 {
			t.Errorf("Balance = %v, want 75", got)
		}
	})

	t.Run("latest income follows entry order", func(t *testing.T) {
		inc, ok := ledger.LatestIncome(ctx)
		if !ok || inc.Source != "Refund" || inc.Notes != "tax" {
			t.Errorf("LatestIncome = %+v, %v", inc, ok)
		}
	})

	t.Run("category views", func(t *testing.T) {
		byCat := ledger.ExpensesByCategory(ctx)
		if byCat["Food"] != 45 || byCat["Transport"] != 10 {
			t.Errorf("ExpensesByCategory = %v", byCat)
		}
		top := ledger.TopExpenseCategories(ctx, 1)
		if len(top) != 1 || top[0].Category != "Food" || top[0].Amount != 45 {
			t.Errorf("TopExpenseCategories(1) = %+v", top)
		}
	})

	t.Run("recent views", func(t *testing.T) {
		recent := ledger.RecentExpenses(ctx, 2)
		if len(recent) != 2 || recent[0].Amount != 5 || recent[1].Amount != 10 {
			t.Errorf("RecentExpenses(2) = %+v", recent)
		}
		goals := ledger.RecentSavingsGoals(ctx, 5)
		if len(goals) != 2 || goals[0].Goal != "Holiday" {
			t.Errorf("RecentSavingsGoals(5) = %+v", goals)
		}
	})

	t.Run("list views", func(t *testing.T) {
		if got := ledger.AllIncome(ctx); len(got) != 2 || got[0].Date != "2024-05-01" {
			t.Errorf("AllIncome = %+v", got)
		}
		if got := ledger.AllBudgets(ctx); len(got) != 1 || got[0].Name != "Groceries" {
			t.Errorf("AllBudgets = %+v", got)
		}
		if got := ledger.AllSavingsGoals(ctx); len(got) != 2 || got[0].Goal != "Holiday" {
			t.Errorf("AllSavingsGoals = %+v", got)
		}
	})

	t.Run("feed puts income first on shared dates", func(t *testing.T) {
		feed := ledger.UnifiedTransactionFeed(ctx)
		if len(feed) != 5 {
			t.Fatalf("expected 5 transactions, got %d", len(feed))
		}
		var sameDay []core.Kind
		for _, tx := range feed {
			if tx.Date == "2024-05-01" {
				sameDay = append(sameDay, tx.Kind)
			}
		}
		if len(sameDay) != 2 || sameDay[0] != core.KindIncome || sameDay[1] != core.KindExpense {
			t.Errorf("same-day kinds = %v, want [Income Expense]", sameDay)
		}
	})

	t.Run("wipe resets every view", func(t *testing.T) {
		if err := ledger.WipeAllData(ctx); err != nil {
			t.Fatalf("WipeAllData failed: %v", err)
		}
		if ledger.TotalExpenses(ctx) != 0 || ledger.TotalIncome(ctx) != 0 {
			t.Error("totals should be 0 after wipe")
		}
		if len(ledger.UnifiedTransactionFeed(ctx)) != 0 || len(ledger.AllSavingsGoals(ctx)) != 0 {
			t.Error("views should be empty after wipe")
		}
	})
}

func TestLedgerRejectsMissingAttributes(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := ledger.AddExpense(ctx, 5, "", "2024-05-01", "10:00:00"); !errors.Is(err, core.ErrMissingAttribute) {
		t.Errorf("expected ErrMissingAttribute, got %v", err)
	}
	if _, err := ledger.AddSavingsGoal(ctx, "Bike", ""); !errors.Is(err, core.ErrMissingAttribute) {
		t.Errorf("expected ErrMissingAttribute, got %v", err)
	}
	if got := ledger.AllExpenses(ctx); len(got) != 0 {
		t.Errorf("rejected records must not be stored, got %d", len(got))
	}
}

func TestLedgerStorageFailure(t *testing.T) {
	_, db, buf := newTestLedger(t)
	ctx := context.Background()

	logger := log.New(log.Config{Format: log.FormatJSON, Output: buf, Component: log.ComponentApp})
	broken := NewLedger(db.WithConn(brokenConn{}), logger)

	t.Run("commands propagate", func(t *testing.T) {
		_, err := broken.AddExpense(ctx, 12, "Food", "2024-05-01", "10:00:00")
		if !errors.Is(err, core.ErrStorageUnavailable) {
			t.Errorf("AddExpense: expected ErrStorageUnavailable, got %v", err)
		}
		if err := broken.WipeAllData(ctx); !errors.Is(err, core.ErrStorageUnavailable) {
			t.Errorf("WipeAllData: expected ErrStorageUnavailable, got %v", err)
		}
		if _, err := broken.Snapshot(ctx); !errors.Is(err, core.ErrStorageUnavailable) {
			t.Errorf("Snapshot: expected ErrStorageUnavailable, got %v", err)
		}
		if _, err := broken.Import(ctx, core.Snapshot{}); !errors.Is(err, core.ErrStorageUnavailable) {
			t.Errorf("Import: expected ErrStorageUnavailable, got %v", err)
		}
	})

	t.Run("queries fail soft and log", func(t *testing.T) {
		buf.Reset()

		if got := broken.TotalIncome(ctx); got != 0 {
			t.Errorf("TotalIncome = %v, want 0", got)
		}
		if got := broken.AllExpenses(ctx); got == nil || len(got) != 0 {
			t.Errorf("AllExpenses = %v, want empty slice", got)
		}
		if got := broken.ExpensesByCategory(ctx); got == nil || len(got) != 0 {
			t.Errorf("ExpensesByCategory = %v, want empty map", got)
		}
		if got := broken.TopExpenseCategories(ctx, 3); len(got) != 0 {
			t.Errorf("TopExpenseCategories = %v, want empty", got)
		}
		if got := broken.RecentSavingsGoals(ctx, 3); len(got) != 0 {
			t.Errorf("RecentSavingsGoals = %v, want empty", got)
		}
		if got := broken.UnifiedTransactionFeed(ctx); len(got) != 0 {
			t.Errorf("UnifiedTransactionFeed = %v, want empty", got)
		}
		if _, ok := broken.LatestIncome(ctx); ok {
			t.Error("LatestIncome should report absence on failure")
		}

		out := buf.String()
		if got := strings.Count(out, "Aggregation query failed"); got != 7 {
			t.Errorf("expected 7 logged failures, got %d:\n%s", got, out)
		}
		if !strings.Contains(out, `"component":"aggregation"`) || !strings.Contains(out, "disk I/O error") {
			t.Errorf("failure log lacks component or cause:\n%s", out)
		}
	})
}

func TestLedgerImportSnapshot(t *testing.T) {
	src, _, _ := newTestLedger(t)
	dst, _, _ := newTestLedger(t)
	ctx := context.Background()

	src.AddExpense(ctx, 3.5, "Coffee", "2024-05-01", "09:00:00")
	src.AddIncome(ctx, 900, "Salary", "2024-05-01", "")

	snap, err := src.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	n, err := dst.Import(ctx, snap)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d, want 2", n)
	}
	if dst.Balance(ctx) != 896.5 {
		t.Errorf("Balance after import = %v, want 896.5", dst.Balance(ctx))
	}
}

func TestLedgerClose(t *testing.T) {
	ledger, _, _ := newTestLedger(t)
	if err := ledger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := ledger.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if err := (&Ledger{}).Close(); err != nil {
		t.Fatalf("Close on empty ledger failed: %v", err)
	}
}
