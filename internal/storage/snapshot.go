package storage

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"budgetpal/internal/core"
)

// Snapshot reads every record of every table.
func (d *DB) Snapshot(ctx context.Context) (core.Snapshot, error) {
	snap := core.Snapshot{
		ID:         uuid.New().String(),
		ExportedAt: time.Now().UTC(),
	}

	var err error
	if snap.Expenses, err = d.Expenses.ListAll(ctx); err != nil {
		return core.Snapshot{}, err
	}
	if snap.Income, err = d.Incomes.ListAll(ctx); err != nil {
		return core.Snapshot{}, err
	}
	if snap.Budgets, err = d.Budgets.ListAll(ctx); err != nil {
		return core.Snapshot{}, err
	}
	if snap.SavingsGoals, err = d.SavingsGoals.ListAll(ctx); err != nil {
		return core.Snapshot{}, err
	}

	return snap, nil
}

// ImportSnapshot appends every record of snap in a single transaction; either
// all rows are stored or none. Identifiers in snap are ignored and fresh ones
// are assigned. It returns the number of rows inserted.
func (d *DB) ImportSnapshot(ctx context.Context, snap core.Snapshot) (int, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, core.Unavailable("import: begin transaction", err)
	}
	defer tx.Rollback()

	// Insert oldest entries first so recency of entry survives the round trip.
	count := 0
	for _, e := range sortedByID(snap.Expenses, func(e core.Expense) int64 { return e.ID }) {
		if _, err := d.Expenses.insert(ctx, tx, e); err != nil {
			return 0, err
		}
		count++
	}
	for _, i := range sortedByID(snap.Income, func(i core.Income) int64 { return i.ID }) {
		if _, err := d.Incomes.insert(ctx, tx, i); err != nil {
			return 0, err
		}
		count++
	}
	for _, b := range sortedByID(snap.Budgets, func(b core.Budget) int64 { return b.ID }) {
		if _, err := d.Budgets.insert(ctx, tx, b); err != nil {
			return 0, err
		}
		count++
	}
	for _, g := range sortedByID(snap.SavingsGoals, func(g core.SavingsGoal) int64 { return g.ID }) {
		if _, err := d.SavingsGoals.insert(ctx, tx, g); err != nil {
			return 0, err
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, core.Unavailable("import: commit", err)
	}
	return count, nil
}

func sortedByID[T any](in []T, id func(T) int64) []T {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(id(a), id(b))
	})
	return out
}
