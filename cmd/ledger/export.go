package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-ledger/internal/cli"
	"github.com/Veraticus/expense-ledger/internal/report"
	"github.com/Veraticus/expense-ledger/internal/sheets"
)

func exportCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses for a spreadsheet",
	}

	cmd.AddCommand(exportCSVCmd(st), exportSheetsCmd(st))

	return cmd
}

func exportCSVCmd(st *rootState) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Write active expenses to a CSV file",
		Long: `Write active expenses to a CSV file with the columns
Date, Title, Amount and Category. An existing file is replaced.`,
		Args: cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			path := output
			if path == "" {
				path = st.cfg.Export.CSVPath
			}

			rows, err := s.reports.ExportRows(cmd.Context())
			if err != nil {
				return err
			}
			if err := report.ExportCSV(path, rows); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s.", len(rows), path)))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file (default: export.csv_path)")

	return cmd
}

func exportSheetsCmd(st *rootState) *cobra.Command {
	var spreadsheetID string

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write totals and expenses to a Google spreadsheet",
		Long: `Write the per-currency totals, the per-category totals and every
active expense to a Google spreadsheet. Credentials come from the sheets
section of the config file or the GOOGLE_SHEETS_* environment variables.
A new spreadsheet is created when no id is configured.`,
		Args: cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			ctx := cmd.Context()

			cfg := st.cfg.Sheets
			if spreadsheetID != "" {
				cfg.SpreadsheetID = spreadsheetID
			}

			writer, err := sheets.NewWriter(ctx, cfg, slog.Default())
			if err != nil {
				return err
			}

			var r sheets.Report
			r.GeneratedAt = time.Now()
			if r.Totals, err = s.reports.Total(ctx); err != nil {
				return err
			}
			if r.ByCategory, err = s.reports.TotalsByCategory(ctx); err != nil {
				return err
			}
			if r.Rows, err = s.reports.ExportRows(ctx); err != nil {
				return err
			}

			id, err := writer.Write(ctx, r)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to spreadsheet %s.", len(r.Rows), id)))
			return nil
		}),
	}

	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "existing spreadsheet to overwrite")

	return cmd
}
