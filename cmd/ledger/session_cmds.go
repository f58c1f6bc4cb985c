package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-ledger/internal/cli"
	"github.com/Veraticus/expense-ledger/internal/tui"
	"github.com/Veraticus/expense-ledger/internal/tui/themes"
)

func migrateCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Create the ledger tables if they are missing and add any columns
introduced since the database was created. Every other command does this
on start; migrate only reports the result.`,
		Args: cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			out := cmd.OutOrStdout()
			for _, table := range []string{"categories", "expenses"} {
				cols, err := s.store.Columns(cmd.Context(), table)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %s\n", table, strings.Join(cols, ", "))
			}
			fmt.Fprintln(out, cli.FormatSuccess("Schema is up to date in "+dbLocation(st.cfg.Database)+"."))
			return nil
		}),
	}
}

func seedCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo categories and expenses",
		Args:  cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			out := cmd.OutOrStdout()
			res, err := s.repo.Seed(cmd.Context(), cli.NewProgress(out, "Loading demo data..."))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Prepared %d categories and added %d expenses.", res.Categories, res.Expenses)))
			if res.Skipped > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %d expenses whose category is deleted.", res.Skipped)))
			}
			return nil
		}),
	}
}

func menuCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive console menu",
		Args:  cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			out := cmd.OutOrStdout()

			handler := cli.NewInterruptHandler(out, dbLocation(st.cfg.Database))
			ctx, stop := handler.HandleInterrupts(cmd.Context())
			defer stop()

			app := cli.NewApp(s.repo, s.reports, cli.NewPrompter(cmd.InOrStdin(), out), st.cfg.Export.CSVPath)
			err := app.Run(ctx)
			if handler.WasInterrupted() {
				return nil
			}
			return err
		}),
	}
}

func browseCmd(st *rootState) *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Scroll through expenses in a full-screen table",
		Args:  cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			t, ok := themes.Lookup(theme)
			if !ok {
				return fmt.Errorf("unknown theme %q (available: %s)", theme, strings.Join(themes.Names(), ", "))
			}
			return tui.Run(cmd.Context(), s.repo, s.reports, t)
		}),
	}

	cmd.Flags().StringVar(&theme, "theme", "default", "color theme")

	return cmd
}
