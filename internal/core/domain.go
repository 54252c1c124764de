package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Expenses     Entity = "expenses"
	Incomes      Entity = "income"
	Budgets      Entity = "budgets"
	SavingsGoals Entity = "savings_goals"
)

const (
	KindIncome  Kind = "Income"
	KindExpense Kind = "Expense"
)

type (
	// Entity names one of the four record tables.
	Entity string

	// Kind tags a row of the unified transaction feed.
	Kind string

	Expense struct {
		ID       int64   `json:"id"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
		Date     string  `json:"date"` // YYYY-MM-DD
		Time     string  `json:"time"` // HH:MM:SS
	}

	Income struct {
		ID     int64   `json:"id"`
		Amount float64 `json:"amount"`
		Source string  `json:"source"`
		Date   string  `json:"date"`
		Notes  string  `json:"notes,omitempty"`
	}

	Budget struct {
		ID     int64   `json:"id"`
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
		Date   string  `json:"date"`
	}

	SavingsGoal struct {
		ID   int64  `json:"id"`
		Goal string `json:"goal"`
		Date string `json:"date"`
	}

	// Transaction is one row of the merged income/expense history.
	Transaction struct {
		Date        string
		Description string
		Amount      float64
		Kind        Kind
	}
)

var ErrMissingAttribute = errors.New("missing required attribute")

// Entities returns every record table in a fixed order.
func Entities() []Entity {
	return []Entity{Expenses, Incomes, Budgets, SavingsGoals}
}

// String implements fmt.Stringer
func (e Entity) String() string {
	return string(e)
}

// HasAmount reports whether rows of e carry an amount column.
func (e Entity) HasAmount() bool {
	return e == Expenses || e == Incomes || e == Budgets
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, field)
	}
	return nil
}

// Validate checks that the required attributes are present. Amount sign and
// date format are the caller's concern.
func (e Expense) Validate() error {
	if err := required("category", e.Category); err != nil {
		return err
	}
	if err := required("date", e.Date); err != nil {
		return err
	}
	return required("time", e.Time)
}

func (i Income) Validate() error {
	if err := required("source", i.Source); err != nil {
		return err
	}
	return required("date", i.Date)
}

func (b Budget) Validate() error {
	if err := required("name", b.Name); err != nil {
		return err
	}
	return required("date", b.Date)
}

func (g SavingsGoal) Validate() error {
	if err := required("goal", g.Goal); err != nil {
		return err
	}
	return required("date", g.Date)
}
