package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetpal/internal/core"
	"budgetpal/internal/log"
)

// DashboardLimits bounds the list views of the overview.
type DashboardLimits struct {
	Recent        int // recent expenses and savings goals
	Chart         int // expenses feeding the expense chart
	TopCategories int
}

// Dashboard loads every view shown after a reload. Individual views fail
// soft; the only error returned is cancellation of ctx.
func (l *Ledger) Dashboard(ctx context.Context, limits DashboardLimits) (core.Overview, error) {
	start := time.Now()
	var ov core.Overview
	g, gctx := errgroup.WithContext(ctx)

	// Each goroutine writes its own field of ov.
	g.Go(func() error {
		ov.TotalIncome = l.TotalIncome(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		ov.TotalExpenses = l.TotalExpenses(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		ov.ByCategory = l.ExpensesByCategory(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		ov.TopCategories = l.TopExpenseCategories(gctx, limits.TopCategories)
		return gctx.Err()
	})
	g.Go(func() error {
		ov.RecentExpenses = l.RecentExpenses(gctx, limits.Recent)
		return gctx.Err()
	})
	g.Go(func() error {
		ov.ChartExpenses = l.RecentExpenses(gctx, limits.Chart)
		return gctx.Err()
	})
	g.Go(func() error {
		ov.RecentGoals = l.RecentSavingsGoals(gctx, limits.Recent)
		return gctx.Err()
	})
	g.Go(func() error {
		if inc, ok := l.LatestIncome(gctx); ok {
			ov.LatestIncome = &inc
		}
		return gctx.Err()
	})
	g.Go(func() error {
		ov.Feed = l.UnifiedTransactionFeed(gctx)
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return core.Overview{}, err
	}

	ov.Balance = ov.TotalIncome - ov.TotalExpenses
	l.logger.WithComponent(log.ComponentDashboard).DebugContext(ctx, "Dashboard loaded",
		log.FieldCount, len(ov.Feed), log.FieldDuration, time.Since(start).Milliseconds())
	return ov, nil
}
