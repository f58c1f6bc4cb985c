// Package storage provides the data persistence layer for the ledger.
//
// A Store wraps a database/sql pool for either SQLite or PostgreSQL and
// exposes three query modes: Exec for writes, All for row sets and One for a
// single optional row. Backend errors are logged here and returned wrapped in
// ErrStore so callers never see driver-specific failures unless they ask for
// them with errors.As.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/expense-ledger/internal/config"
)

// ErrStore wraps every failure reported by the database backend.
var ErrStore = errors.New("store error")

// ErrNilContext is returned when a nil context reaches the store.
var ErrNilContext = errors.New("context cannot be nil")

// queryable is satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Runner executes parameterized statements written with '?' placeholders.
// Both *Store and the transaction handed to InTx implement it.
type Runner interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row
	Dialect() Dialect
}

// Scanner is the subset of *sql.Row and *sql.Rows used by row mappers.
type Scanner interface {
	Scan(dest ...any) error
}

type conn struct {
	q       queryable
	dialect Dialect
}

func (c conn) Dialect() Dialect { return c.dialect }

// Exec runs a write statement and returns the number of affected rows.
func (c conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	res, err := c.q.ExecContext(ctx, c.dialect.Rebind(query), args...)
	if err != nil {
		return 0, fail("exec", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fail("rows affected", err)
	}
	return n, nil
}

// Query runs a statement returning rows. The caller closes the rows.
func (c conn) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	rows, err := c.q.QueryContext(ctx, c.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fail("query", err)
	}
	return rows, nil
}

// QueryRow runs a statement expected to return at most one row. Errors
// surface on Scan.
func (c conn) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.q.QueryRowContext(ctx, c.dialect.Rebind(query), args...)
}

// Store is a handle to the ledger database.
type Store struct {
	db *sql.DB
	conn
}

// Open connects to the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return OpenSQLite(ctx, cfg.Path)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrStore, cfg.Driver)
	}
}

func newStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, conn: conn{q: db, dialect: dialect}}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// InTx runs fn inside a transaction. The transaction commits when fn returns
// nil and rolls back otherwise. fn must use the Runner it is given, not the
// Store, or it will block on SQLite's single connection.
func (s *Store) InTx(ctx context.Context, fn func(Runner) error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fail("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(conn{q: tx, dialect: s.dialect}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fail("commit transaction", err)
	}
	return nil
}

// All runs query and maps every row with scan. An empty result is a non-nil
// empty slice.
func All[T any](ctx context.Context, r Runner, scan func(Scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []T{}
	for rows.Next() {
		item, scanErr := scan(rows)
		if scanErr != nil {
			return nil, fail("scan row", scanErr)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("iterate rows", err)
	}
	slog.Debug("query returned rows", "count", len(items))
	return items, nil
}

// One runs query and maps the first row with scan. found is false when the
// query matched nothing.
func One[T any](ctx context.Context, r Runner, scan func(Scanner) (T, error), query string, args ...any) (item T, found bool, err error) {
	if err := validateContext(ctx); err != nil {
		return item, false, err
	}
	item, err = scan(r.QueryRow(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, fail("query row", err)
	}
	return item, true, nil
}

func fail(op string, err error) error {
	slog.Error("store operation failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}
