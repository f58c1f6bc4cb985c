package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/expense-ledger/internal/config"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createMigratedStore(t *testing.T) *Store {
	t.Helper()
	store := createTestStore(t)
	require.NoError(t, store.InitSchema(context.Background()))
	return store
}

func TestInitSchema_Idempotent(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InitSchema(ctx))
	first, err := store.Columns(ctx, "expenses")
	require.NoError(t, err)

	require.NoError(t, store.InitSchema(ctx))
	second, err := store.Columns(ctx, "expenses")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{
		"id", "title", "date", "category_id", "amount", "is_deleted", "description", "currency",
	}, second)

	cats, err := store.Columns(ctx, "categories")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "is_deleted"}, cats)
}

func TestInitSchema_AddsMissingColumns(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	// Layout written by releases that predate description and currency.
	_, err := store.Exec(ctx, `CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(100) UNIQUE NOT NULL,
		is_deleted BOOLEAN DEFAULT FALSE
	)`)
	require.NoError(t, err)
	_, err = store.Exec(ctx, `CREATE TABLE expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title VARCHAR(255) NOT NULL,
		date DATE NOT NULL,
		category_id INTEGER REFERENCES categories(id),
		amount DECIMAL(10, 2) NOT NULL CHECK (amount > 0),
		is_deleted BOOLEAN DEFAULT FALSE
	)`)
	require.NoError(t, err)
	_, err = store.Exec(ctx, `INSERT INTO categories (name) VALUES (?)`, "Food")
	require.NoError(t, err)
	_, err = store.Exec(ctx, `INSERT INTO expenses (title, date, category_id, amount) VALUES (?, ?, ?, ?)`,
		"Bread", "2026-02-01", 1, "25.50")
	require.NoError(t, err)

	require.NoError(t, store.InitSchema(ctx))

	cols, err := store.Columns(ctx, "expenses")
	require.NoError(t, err)
	assert.Contains(t, cols, "description")
	assert.Contains(t, cols, "currency")

	title, found, err := One(ctx, store, scanString, `SELECT title FROM expenses WHERE currency IS NULL AND description IS NULL`)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Bread", title)
}

func TestAllAndOne(t *testing.T) {
	store := createMigratedStore(t)
	ctx := context.Background()

	names, err := All(ctx, store, scanString, `SELECT name FROM categories ORDER BY id`)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)

	_, found, err := One(ctx, store, scanString, `SELECT name FROM categories WHERE id = ?`, 1)
	require.NoError(t, err)
	assert.False(t, found)

	for _, name := range []string{"Food", "Transport"} {
		n, execErr := store.Exec(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
		require.NoError(t, execErr)
		assert.Equal(t, int64(1), n)
	}

	names, err = All(ctx, store, scanString, `SELECT name FROM categories ORDER BY id`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Transport"}, names)

	name, found, err := One(ctx, store, scanString, `SELECT name FROM categories WHERE id = ?`, 2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Transport", name)
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	store := createMigratedStore(t)
	ctx := context.Background()

	_, err := store.Exec(ctx, `INSERT INTO missing_table (x) VALUES (1)`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)

	_, err = All(ctx, store, scanString, `SELECT nope FROM categories`)
	assert.ErrorIs(t, err, ErrStore)

	_, _, err = One(ctx, store, scanString, `SELECT nope FROM categories`)
	assert.ErrorIs(t, err, ErrStore)
}

func TestIsUniqueViolation(t *testing.T) {
	store := createMigratedStore(t)
	ctx := context.Background()

	_, err := store.Exec(ctx, `INSERT INTO categories (name) VALUES (?)`, "Food")
	require.NoError(t, err)

	_, err = store.Exec(ctx, `INSERT INTO categories (name) VALUES (?)`, "Food")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestForeignKeysEnforced(t *testing.T) {
	store := createMigratedStore(t)
	ctx := context.Background()

	_, err := store.Exec(ctx, `INSERT INTO expenses (title, date, category_id, amount) VALUES (?, ?, ?, ?)`,
		"Orphan", "2026-02-01", 42, "10")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)

	var sqliteErr sqlite3.Error
	require.ErrorAs(t, err, &sqliteErr)
	assert.Equal(t, sqlite3.ErrConstraintForeignKey, sqliteErr.ExtendedCode)
}

func TestAmountCheckConstraint(t *testing.T) {
	store := createMigratedStore(t)
	ctx := context.Background()

	_, err := store.Exec(ctx, `INSERT INTO categories (name) VALUES (?)`, "Food")
	require.NoError(t, err)
	_, err = store.Exec(ctx, `INSERT INTO expenses (title, date, category_id, amount) VALUES (?, ?, ?, ?)`,
		"Free", "2026-02-01", 1, "0")
	assert.ErrorIs(t, err, ErrStore)
}

func TestInTx(t *testing.T) {
	store := createMigratedStore(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := store.InTx(ctx, func(r Runner) error {
		if _, err := r.Exec(ctx, `INSERT INTO categories (name) VALUES (?)`, "Rolled back"); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	err = store.InTx(ctx, func(r Runner) error {
		_, err := r.Exec(ctx, `INSERT INTO categories (name) VALUES (?)`, "Committed")
		return err
	})
	require.NoError(t, err)

	names, err := All(ctx, store, scanString, `SELECT name FROM categories`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Committed"}, names)
}

func TestUnicodeLower(t *testing.T) {
	store := createMigratedStore(t)
	ctx := context.Background()

	_, err := store.Exec(ctx, `INSERT INTO categories (name) VALUES (?)`, "Продукти")
	require.NoError(t, err)

	names, err := All(ctx, store, scanString,
		`SELECT name FROM categories WHERE LOWER(name) LIKE LOWER(?)`, "%ПРОД%")
	require.NoError(t, err)
	assert.Equal(t, []string{"Продукти"}, names)
}

func TestRebind(t *testing.T) {
	query := `SELECT * FROM expenses WHERE date >= ? AND date <= ? AND title = ?`

	assert.Equal(t, query, SQLite.Rebind(query))
	assert.Equal(t,
		`SELECT * FROM expenses WHERE date >= $1 AND date <= $2 AND title = $3`,
		Postgres.Rebind(query))
	assert.Equal(t, "SELECT 1", Postgres.Rebind("SELECT 1"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, config.DatabaseConfig{Driver: "mysql"})
	assert.ErrorIs(t, err, ErrStore)

	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	store, err := Open(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, Path: path})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	assert.Equal(t, SQLite, store.Dialect())
	assert.FileExists(t, path)
}
