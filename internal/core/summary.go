package core

import "time"

// CategoryTotal represents an expense amount aggregated by category name.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Overview is everything the dashboard shows after a reload.
type Overview struct {
	TotalIncome    float64
	TotalExpenses  float64
	Balance        float64
	ByCategory     map[string]float64
	TopCategories  []CategoryTotal
	RecentExpenses []Expense
	ChartExpenses  []Expense
	RecentGoals    []SavingsGoal
	LatestIncome   *Income
	Feed           []Transaction
}

// Snapshot bundles every record for export and import.
type Snapshot struct {
	ID           string        `json:"id"`
	ExportedAt   time.Time     `json:"exported_at"`
	Expenses     []Expense     `json:"expenses"`
	Income       []Income      `json:"income"`
	Budgets      []Budget      `json:"budgets"`
	SavingsGoals []SavingsGoal `json:"savings_goals"`
}

// Len returns the number of records in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Expenses) + len(s.Income) + len(s.Budgets) + len(s.SavingsGoals)
}
