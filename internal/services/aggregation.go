package services

import (
	"context"

	"budgetpal/internal/core"
	"budgetpal/internal/log"
	"budgetpal/internal/storage"
)

// Aggregator computes the derived views over the store. A failed query is
// logged and yields the zero value of its result, never an error.
type Aggregator struct {
	db     *storage.DB
	logger *log.Logger
}

func NewAggregator(db *storage.DB, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Aggregator{
		db:     db,
		logger: logger.WithComponent(log.ComponentAggregation),
	}
}

func (a *Aggregator) fail(ctx context.Context, op string, err error, args ...any) {
	fields := log.NewFields().WithOperation(op).WithError(err)
	a.logger.ErrorContext(ctx, "Aggregation query failed", append(fields.ToSlice(), args...)...)
}

// TotalAmount sums the amount column of entity. Empty tables and tables
// without amounts give 0.
func (a *Aggregator) TotalAmount(ctx context.Context, entity core.Entity) float64 {
	if !entity.HasAmount() {
		return 0
	}
	total, err := a.db.Total(ctx, entity)
	if err != nil {
		a.fail(ctx, log.OpTotal, err, log.FieldEntity, entity.String())
		return 0
	}
	return total
}

// GroupByCategory maps each expense category to its summed amount.
func (a *Aggregator) GroupByCategory(ctx context.Context) map[string]float64 {
	totals, err := a.db.CategoryTotals(ctx)
	if err != nil {
		a.fail(ctx, log.OpGroup, err)
		return map[string]float64{}
	}
	return totals
}

// TopN returns the n largest expense categories by summed amount.
func (a *Aggregator) TopN(ctx context.Context, n int) []core.CategoryTotal {
	top, err := a.db.TopCategories(ctx, n)
	if err != nil {
		a.fail(ctx, log.OpTop, err, log.FieldCount, n)
		return []core.CategoryTotal{}
	}
	return top
}

// UnifiedTransactionFeed merges income and expenses into one history,
// newest date first.
func (a *Aggregator) UnifiedTransactionFeed(ctx context.Context) []core.Transaction {
	feed, err := a.db.TransactionFeed(ctx)
	if err != nil {
		a.fail(ctx, log.OpFeed, err)
		return []core.Transaction{}
	}
	return feed
}

// RecentN returns the n most recently entered rows of table, newest first.
func RecentN[T storage.Record](ctx context.Context, a *Aggregator, table *storage.Table[T], n int) []T {
	rows, err := table.Recent(ctx, n)
	if err != nil {
		a.fail(ctx, log.OpRecent, err, log.FieldEntity, table.Name(), log.FieldCount, n)
		return []T{}
	}
	return rows
}

// All returns every row of table, newest date first.
func All[T storage.Record](ctx context.Context, a *Aggregator, table *storage.Table[T]) []T {
	rows, err := table.ListAll(ctx)
	if err != nil {
		a.fail(ctx, log.OpList, err, log.FieldEntity, table.Name())
		return []T{}
	}
	return rows
}

// Latest returns the most recently entered row of table.
func Latest[T storage.Record](ctx context.Context, a *Aggregator, table *storage.Table[T]) (T, bool) {
	row, ok, err := table.Latest(ctx)
	if err != nil {
		a.fail(ctx, log.OpLatest, err, log.FieldEntity, table.Name())
		var zero T
		return zero, false
	}
	return row, ok
}
