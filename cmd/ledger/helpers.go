package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/config"
	"github.com/Veraticus/expense-ledger/internal/ledger"
	"github.com/Veraticus/expense-ledger/internal/report"
	"github.com/Veraticus/expense-ledger/internal/storage"
)

// session is an open, migrated store with the services built on it.
type session struct {
	store   *storage.Store
	repo    *ledger.Repository
	reports *report.Engine
}

// openSession opens the configured store and brings its schema up to date.
func (st *rootState) openSession(ctx context.Context) (*session, error) {
	store, err := storage.Open(ctx, st.cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := store.InitSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &session{
		store:   store,
		repo:    ledger.NewRepository(store),
		reports: report.NewEngine(store),
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		slog.Warn("failed to close store", "error", err)
	}
}

// withSession adapts fn to a cobra RunE that owns a session for the call.
func withSession(st *rootState, fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := st.openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

// parseID reads a positional id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a positive id", common.ErrInvalidID, arg)
	}
	return id, nil
}

// dbLocation names the store for user-facing messages.
func dbLocation(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverPostgres {
		return fmt.Sprintf("postgres database %q on %s", cfg.Name, cfg.Host)
	}
	return cfg.Path
}
