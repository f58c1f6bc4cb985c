package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"

	"github.com/Veraticus/expense-ledger/internal/config"
)

// OpenPostgres creates the configured database when it does not exist yet and
// opens a pool on it.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	if err := ensureDatabase(ctx, cfg); err != nil {
		// The role may lack CREATEDB; the ping below decides.
		slog.Warn("could not ensure database exists", "database", cfg.Name, "error", err)
	}

	db, err := sql.Open("pgx", cfg.DSN(cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to connect to %s: %w", ErrStore, cfg.Name, err)
	}
	return newStore(db, Postgres), nil
}

// ensureDatabase connects to the maintenance database and issues CREATE
// DATABASE when cfg.Name is missing from pg_database.
func ensureDatabase(ctx context.Context, cfg config.DatabaseConfig) error {
	admin, err := pgx.Connect(ctx, cfg.DSN("postgres"))
	if err != nil {
		return fmt.Errorf("connect to maintenance database: %w", err)
	}
	defer func() { _ = admin.Close(ctx) }()

	var exists int
	err = admin.QueryRow(ctx, `SELECT 1 FROM pg_catalog.pg_database WHERE datname = $1`, cfg.Name).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check database: %w", err)
	}

	if _, err := admin.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.Name}.Sanitize()); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	slog.Info("created database", "database", cfg.Name)
	return nil
}
