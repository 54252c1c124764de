package storage

import (
	"context"

	"budgetpal/internal/core"
)

// transactionFeedSQL merges income and expenses into one history. Rows on the
// same date list income before expenses, then follow insertion order.
const transactionFeedSQL = `
SELECT date, description, amount, kind FROM (
    SELECT date, source AS description, amount, 'Income' AS kind, 0 AS kind_order, id FROM income
    UNION ALL
    SELECT date, category AS description, amount, 'Expense' AS kind, 1 AS kind_order, id FROM expenses
)
ORDER BY date DESC, kind_order ASC, id ASC`

// CategoryTotals sums expense amounts per category.
func (d *DB) CategoryTotals(ctx context.Context) (map[string]float64, error) {
	rows, err := d.conn.QueryContext(ctx,
		"SELECT category, SUM(amount) FROM expenses GROUP BY category")
	if err != nil {
		return nil, core.Unavailable("group expenses by category", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var (
			category string
			amount   float64
		)
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, core.Unavailable("scan category total", err)
		}
		totals[category] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, core.Unavailable("group expenses by category", err)
	}

	return totals, nil
}

// TopCategories returns the n categories with the largest summed expense
// amount. Equal totals are ordered by category name.
func (d *DB) TopCategories(ctx context.Context, n int) ([]core.CategoryTotal, error) {
	if n <= 0 {
		return []core.CategoryTotal{}, nil
	}

	rows, err := d.conn.QueryContext(ctx, `
		SELECT category, SUM(amount) AS total
		FROM expenses
		GROUP BY category
		ORDER BY total DESC, category ASC
		LIMIT ?`, n)
	if err != nil {
		return nil, core.Unavailable("top expense categories", err)
	}
	defer rows.Close()

	out := []core.CategoryTotal{}
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Amount); err != nil {
			return nil, core.Unavailable("scan category total", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Unavailable("top expense categories", err)
	}

	return out, nil
}

// TransactionFeed returns income and expense rows as one date-ordered history.
func (d *DB) TransactionFeed(ctx context.Context) ([]core.Transaction, error) {
	rows, err := d.conn.QueryContext(ctx, transactionFeedSQL)
	if err != nil {
		return nil, core.Unavailable("transaction feed", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			tx   core.Transaction
			kind string
		)
		if err := rows.Scan(&tx.Date, &tx.Description, &tx.Amount, &kind); err != nil {
			return nil, core.Unavailable("scan transaction", err)
		}
		tx.Kind = core.Kind(kind)
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Unavailable("transaction feed", err)
	}

	return out, nil
}
