// Package storage persists budget records in an embedded SQLite file.
//
// A DB owns the single connection of the process. Every table handle and
// every aggregation query runs on that connection, so statements execute
// one at a time even when callers issue them from several goroutines.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"budgetpal/internal/core"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// Conn is the subset of *sql.DB the store needs. Tests substitute it to
// simulate storage faults.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// wipeTables is the fixed list of tables emptied by WipeAll. Table names are
// interpolated into SQL only from this list.
var wipeTables = core.Entities()

// DB is the handle to the embedded store.
type DB struct {
	db    *sql.DB
	conn  Conn
	path  string
	owner bool

	closeOnce sync.Once
	closeErr  error

	Expenses     *Table[core.Expense]
	Incomes      *Table[core.Income]
	Budgets      *Table[core.Budget]
	SavingsGoals *Table[core.SavingsGoal]
}

// Open opens (or creates) the database file at path and ensures the schema
// exists. The returned DB holds a single connection until Close.
func Open(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		return nil, core.Unavailable("open database", errors.New("empty database path"))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, core.Unavailable("create database directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, core.Unavailable("open database", err)
	}
	// The embedded store does not support concurrent writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, core.Unavailable("ping database", err)
	}

	store := newDB(db, db, path)
	store.owner = true

	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func newDB(db *sql.DB, conn Conn, path string) *DB {
	return &DB{
		db:           db,
		conn:         conn,
		path:         path,
		Expenses:     expensesTable(conn),
		Incomes:      incomeTable(conn),
		Budgets:      budgetsTable(conn),
		SavingsGoals: savingsGoalsTable(conn),
	}
}

// WithConn returns a handle whose statements run through conn instead of
// the store's own connection. The returned handle does not own the
// connection: closing it is a no-op.
func (d *DB) WithConn(conn Conn) *DB {
	return newDB(d.db, conn, d.path)
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// EnsureSchema creates the record tables if they are absent. Calling it on
// an initialized store does nothing.
func (d *DB) EnsureSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return core.Unavailable("ensure schema", err)
	}
	var err error
	if db, ok := d.conn.(*sql.DB); ok {
		err = runMigrations(db)
	} else {
		err = applyBaseline(ctx, d.conn)
	}
	if err != nil {
		return core.Unavailable("ensure schema", err)
	}
	return nil
}

// WipeAll deletes every row from all record tables in one transaction.
func (d *DB) WipeAll(ctx context.Context) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return core.Unavailable("wipe: begin transaction", err)
	}
	defer tx.Rollback()

	for _, table := range wipeTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table.String()); err != nil {
			return core.Unavailable("wipe "+table.String(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Unavailable("wipe: commit", err)
	}
	return nil
}

// Total sums the amount column of entity's table.
func (d *DB) Total(ctx context.Context, entity core.Entity) (float64, error) {
	switch entity {
	case core.Expenses:
		return d.Expenses.Sum(ctx)
	case core.Incomes:
		return d.Incomes.Sum(ctx)
	case core.Budgets:
		return d.Budgets.Sum(ctx)
	case core.SavingsGoals:
		return d.SavingsGoals.Sum(ctx)
	default:
		return 0, ErrUnknownEntity
	}
}

// Close releases the connection. Only the first call has an effect.
func (d *DB) Close() error {
	if !d.owner {
		return nil
	}
	d.closeOnce.Do(func() {
		d.closeErr = d.db.Close()
	})
	return d.closeErr
}
