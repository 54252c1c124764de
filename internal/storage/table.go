package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budgetpal/internal/core"
)

var (
	ErrNoAmount      = errors.New("table has no amount column")
	ErrUnknownEntity = errors.New("unknown entity")
)

// Record is implemented by every persisted record type.
type Record interface {
	Validate() error
}

type scanner interface {
	Scan(dest ...any) error
}

// Table reads and appends rows of a single record type. Rows are never
// updated or deleted individually.
type Table[T Record] struct {
	name      string
	hasAmount bool
	conn      Conn

	values func(T) []any
	scan   func(scanner) (T, error)

	insertSQL string
	selectSQL string
}

func newTable[T Record](conn Conn, name string, columns []string, hasAmount bool,
	values func(T) []any, scan func(scanner) (T, error)) *Table[T] {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return &Table[T]{
		name:      name,
		hasAmount: hasAmount,
		conn:      conn,
		values:    values,
		scan:      scan,
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(columns, ", "), placeholders),
		selectSQL: fmt.Sprintf("SELECT id, %s FROM %s", strings.Join(columns, ", "), name),
	}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Insert appends rec and returns the identifier assigned by the store.
func (t *Table[T]) Insert(ctx context.Context, rec T) (int64, error) {
	return t.insert(ctx, t.conn, rec)
}

func (t *Table[T]) insert(ctx context.Context, ex execer, rec T) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", t.name, err)
	}

	res, err := ex.ExecContext(ctx, t.insertSQL, t.values(rec)...)
	if err != nil {
		return 0, core.Unavailable("insert into "+t.name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, core.Unavailable("read id from "+t.name, err)
	}
	return id, nil
}

// ListAll returns every row, newest date first. Rows sharing a date keep
// their insertion order.
func (t *Table[T]) ListAll(ctx context.Context) ([]T, error) {
	return t.query(ctx, "list "+t.name, t.selectSQL+" ORDER BY date DESC, id ASC")
}

// Latest returns the most recently inserted row, regardless of its date.
func (t *Table[T]) Latest(ctx context.Context) (T, bool, error) {
	var zero T
	rows, err := t.query(ctx, "latest "+t.name, t.selectSQL+" ORDER BY id DESC LIMIT 1")
	if err != nil || len(rows) == 0 {
		return zero, false, err
	}
	return rows[0], true, nil
}

// Recent returns the n most recently inserted rows, newest first.
func (t *Table[T]) Recent(ctx context.Context, n int) ([]T, error) {
	if n <= 0 {
		return []T{}, nil
	}
	return t.query(ctx, "recent "+t.name, t.selectSQL+" ORDER BY id DESC LIMIT ?", n)
}

// Sum adds up the amount column. An empty table sums to 0.
func (t *Table[T]) Sum(ctx context.Context) (float64, error) {
	if !t.hasAmount {
		return 0, fmt.Errorf("sum %s: %w", t.name, ErrNoAmount)
	}

	rows, err := t.conn.QueryContext(ctx, "SELECT COALESCE(SUM(amount), 0.0) FROM "+t.name)
	if err != nil {
		return 0, core.Unavailable("sum "+t.name, err)
	}
	defer rows.Close()

	var total float64
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, core.Unavailable("scan sum of "+t.name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, core.Unavailable("sum "+t.name, err)
	}
	return total, nil
}

func (t *Table[T]) query(ctx context.Context, op, query string, args ...any) ([]T, error) {
	rows, err := t.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.Unavailable(op, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, core.Unavailable("scan "+t.name, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Unavailable(op, err)
	}
	return out, nil
}
