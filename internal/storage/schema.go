package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// columnMigration adds a column to an existing table when it is missing.
type columnMigration struct {
	Table       string
	Column      string
	Definition  string
	Description string
}

// Columns are detected by name, not by a version counter, so databases
// created by older releases pick them up on the next start.
var columnMigrations = []columnMigration{
	{
		Table:       "expenses",
		Column:      "description",
		Definition:  "TEXT",
		Description: "Add free-form expense description",
	},
	{
		Table:       "expenses",
		Column:      "currency",
		Definition:  "CHAR(3)",
		Description: "Add expense currency code",
	},
}

// InitSchema creates the ledger tables if absent and adds any missing
// columns. Running it any number of times leaves the schema unchanged.
func (s *Store) InitSchema(ctx context.Context) error {
	return s.InTx(ctx, func(r Runner) error {
		for _, stmt := range r.Dialect().schema() {
			if _, err := r.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
		}

		for _, m := range columnMigrations {
			cols, err := tableColumns(ctx, r, m.Table)
			if err != nil {
				return err
			}
			if cols[m.Column] {
				continue
			}
			// Identifiers come from the fixed table above, never from input.
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Definition)
			if _, err := r.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %q failed: %w", m.Description, err)
			}
			slog.Info("Applied migration", "table", m.Table, "column", m.Column, "description", m.Description)
		}
		return nil
	})
}

// Columns lists the column names of table in declaration order.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	return All(ctx, s, scanString, s.dialect.columnsQuery(), table)
}

func tableColumns(ctx context.Context, r Runner, table string) (map[string]bool, error) {
	names, err := All(ctx, r, scanString, r.Dialect().columnsQuery(), table)
	if err != nil {
		return nil, fmt.Errorf("inspect %s columns: %w", table, err)
	}
	cols := make(map[string]bool, len(names))
	for _, n := range names {
		cols[n] = true
	}
	return cols, nil
}

func scanString(sc Scanner) (string, error) {
	var s string
	err := sc.Scan(&s)
	return s, err
}
