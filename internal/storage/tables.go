package storage

import (
	"database/sql"

	"budgetpal/internal/core"
)

func expensesTable(conn Conn) *Table[core.Expense] {
	return newTable(conn, "expenses", []string{"amount", "category", "date", "time"}, true,
		func(e core.Expense) []any {
			return []any{e.Amount, e.Category, e.Date, e.Time}
		},
		func(s scanner) (core.Expense, error) {
			var e core.Expense
			err := s.Scan(&e.ID, &e.Amount, &e.Category, &e.Date, &e.Time)
			return e, err
		},
	)
}

func incomeTable(conn Conn) *Table[core.Income] {
	return newTable(conn, "income", []string{"amount", "source", "date", "notes"}, true,
		func(i core.Income) []any {
			// Empty notes are stored as NULL
			var notes any
			if i.Notes != "" {
				notes = i.Notes
			}
			return []any{i.Amount, i.Source, i.Date, notes}
		},
		func(s scanner) (core.Income, error) {
			var (
				i     core.Income
				notes sql.NullString
			)
			err := s.Scan(&i.ID, &i.Amount, &i.Source, &i.Date, &notes)
			if notes.Valid {
				i.Notes = notes.String
			}
			return i, err
		},
	)
}

func budgetsTable(conn Conn) *Table[core.Budget] {
	return newTable(conn, "budgets", []string{"name", "amount", "date"}, true,
		func(b core.Budget) []any {
			return []any{b.Name, b.Amount, b.Date}
		},
		func(s scanner) (core.Budget, error) {
			var b core.Budget
			err := s.Scan(&b.ID, &b.Name, &b.Amount, &b.Date)
			return b, err
		},
	)
}

func savingsGoalsTable(conn Conn) *Table[core.SavingsGoal] {
	return newTable(conn, "savings_goals", []string{"goal", "date"}, false,
		func(g core.SavingsGoal) []any {
			return []any{g.Goal, g.Date}
		},
		func(s scanner) (core.SavingsGoal, error) {
			var g core.SavingsGoal
			err := s.Scan(&g.ID, &g.Goal, &g.Date)
			return g, err
		},
	)
}
