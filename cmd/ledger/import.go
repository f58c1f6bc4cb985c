package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-ledger/internal/cli"
	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/ofx"
)

func importCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import expenses from bank exports",
	}

	cmd.AddCommand(importOFXCmd(st))

	return cmd
}

func importOFXCmd(st *rootState) *cobra.Command {
	var (
		category string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "ofx [files...]",
		Short: "Import debits from OFX/QFX statements",
		Long: `Import the debits of OFX or QFX statements exported from your bank
as expenses of one category. Credits are skipped. The import is all or
nothing: if any debit is rejected, no expense is written.

Examples:
  # Import a single statement into "Card"
  ledger import ofx --category Card ~/Downloads/statement.qfx

  # Preview every statement in a directory
  ledger import ofx --dry-run ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: withSession(st, func(cmd *cobra.Command, args []string, s *session) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			parser := ofx.NewParser()
			var debits []ofx.Debit
			credits := 0
			for _, file := range files {
				stmt, err := parseStatement(cmd, parser, file)
				if err != nil {
					return err
				}
				debits = append(debits, stmt.Debits...)
				credits += stmt.Credits
			}

			if dryRun {
				rows := make([]model.ExpenseRow, 0, len(debits))
				for _, d := range debits {
					rows = append(rows, model.ExpenseRow{
						Date: d.Date, Title: d.Title, Amount: d.Amount,
						Currency: d.Currency, CategoryName: category, Description: d.Memo,
					})
				}
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d debits would be imported, %d credits skipped.", len(debits), credits)))
				return cli.RenderExpenses(out, rows)
			}

			if len(debits) == 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("No debits found; %d credits skipped.", credits)))
				return nil
			}

			cat, err := s.repo.EnsureCategory(ctx, category)
			if err != nil {
				return err
			}
			added, err := s.repo.AddExpenses(ctx, ofx.Expenses(debits, cat.ID))
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d expenses into %q, %d credits skipped.", len(added), cat.Name, credits)))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&category, "category", "c", "Imported", "category for the imported expenses, created when missing")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview without saving")

	return cmd
}

func parseStatement(cmd *cobra.Command, parser *ofx.Parser, file string) (ofx.Statement, error) {
	f, err := os.Open(file)
	if err != nil {
		return ofx.Statement{}, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer func() { _ = f.Close() }()

	stmt, err := parser.ParseFile(cmd.Context(), f)
	if err != nil {
		return ofx.Statement{}, fmt.Errorf("%s: %w", file, err)
	}
	slog.Debug("parsed statement", "file", file, "debits", len(stmt.Debits))
	return stmt, nil
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err != nil {
			slog.Warn("no files found matching pattern", "pattern", pattern)
			continue
		}
		files = append(files, pattern)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}
