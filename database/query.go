package database

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DefaultQueryTimeout bounds a single statement when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// Conn is the only path from the repositories to storage. It wraps either the
// pooled connection or an open transaction, and every statement it runs gets
// the same per-query timeout.
type Conn struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewConn(db *gorm.DB, timeout time.Duration) Conn {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return Conn{db: db, timeout: timeout}
}

func (c Conn) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// Query runs a parameterized statement and scans every row into T. Parameters
// are positional (?) and never interpolated into the SQL text.
func Query[T any](ctx context.Context, c Conn, query string, args ...any) ([]T, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rows := []T{}
	if err := c.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// QuerySingle runs a parameterized statement and scans the first row into T.
// A statement that yields no row returns nil without an error.
func QuerySingle[T any](ctx context.Context, c Conn, query string, args ...any) (*T, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var row T
	result := c.db.WithContext(ctx).Raw(query, args...).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// Exec runs a statement that returns no rows and reports the affected row count.
func Exec(ctx context.Context, c Conn, query string, args ...any) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result := c.db.WithContext(ctx).Exec(query, args...)
	return result.RowsAffected, result.Error
}

// Transaction runs fn inside a single database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (c Conn) Transaction(ctx context.Context, fn func(tx Conn) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Conn{db: tx, timeout: c.timeout})
	})
}

// countRow scans SELECT COUNT(*) AS count results.
type countRow struct {
	Count int64 `gorm:"column:count"`
}

func count(ctx context.Context, c Conn, query string, args ...any) (int64, error) {
	row, err := QuerySingle[countRow](ctx, c, query, args...)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	return row.Count, nil
}

// idRow scans INSERT ... RETURNING id results.
type idRow struct {
	ID int64 `gorm:"column:id"`
}
