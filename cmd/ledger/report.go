package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-ledger/internal/cli"
)

func reportCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"reports"},
		Short:   "Summaries over active expenses",
		Long: `Summaries over active expenses. Totals are kept apart per currency;
expenses recorded without a currency are grouped under N/A.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "total",
			Short: "Total spent per currency",
			Args:  cobra.NoArgs,
			RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
				totals, err := s.reports.Total(cmd.Context())
				if err != nil {
					return err
				}
				return cli.RenderTotals(cmd.OutOrStdout(), totals)
			}),
		},
		&cobra.Command{
			Use:   "by-category",
			Short: "Total spent per category and currency",
			Args:  cobra.NoArgs,
			RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
				totals, err := s.reports.TotalsByCategory(cmd.Context())
				if err != nil {
					return err
				}
				return cli.RenderCategoryTotals(cmd.OutOrStdout(), totals)
			}),
		},
		&cobra.Command{
			Use:   "max-min",
			Short: "Largest and smallest expense per category",
			Args:  cobra.NoArgs,
			RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
				rows, err := s.reports.MaxMinByCategory(cmd.Context())
				if err != nil {
					return err
				}
				return cli.RenderCategoryExtremes(cmd.OutOrStdout(), rows)
			}),
		},
		&cobra.Command{
			Use:   "top",
			Short: "Category with the highest total per currency",
			Args:  cobra.NoArgs,
			RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
				top, err := s.reports.TopCategory(cmd.Context())
				if err != nil {
					return err
				}
				return cli.RenderTopCategories(cmd.OutOrStdout(), top)
			}),
		},
		extremesCmd(st),
		averageCmd(st),
	)

	return cmd
}

// periodFlags registers the required --from and --to flags.
func periodFlags(cmd *cobra.Command, start, end *string) {
	cmd.Flags().StringVar(start, "from", "", "first date of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(end, "to", "", "last date of the period (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

func extremesCmd(st *rootState) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "extremes",
		Short: "Most and least expensive purchase in a period",
		Args:  cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			x, err := s.reports.ExtremeInPeriod(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return cli.RenderPeriodExtremes(cmd.OutOrStdout(), x)
		}),
	}
	periodFlags(cmd, &start, &end)

	return cmd
}

func averageCmd(st *rootState) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "average",
		Short: "Average spent per day in a period",
		Args:  cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			avg, err := s.reports.AverageDaily(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return cli.RenderDailyAverage(cmd.OutOrStdout(), avg)
		}),
	}
	periodFlags(cmd, &start, &end)

	return cmd
}
