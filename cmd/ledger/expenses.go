package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-ledger/internal/cli"
	"github.com/Veraticus/expense-ledger/internal/ledger"
	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/validation"
)

func expensesCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expenses",
		Aliases: []string{"expense", "exp"},
		Short:   "Record and browse expenses",
		Long: `Add, list, update, delete and search expenses.

Dates are YYYY-MM-DD, amounts are positive with at most two decimal places
and currencies are three-letter codes (UAH when omitted).`,
	}

	cmd.AddCommand(
		listExpensesCmd(st),
		showExpenseCmd(st),
		addExpenseCmd(st),
		updateExpenseCmd(st),
		deleteExpenseCmd(st),
		searchExpensesCmd(st),
	)

	return cmd
}

func listExpensesCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active expenses",
		Args:  cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			rows, err := s.repo.ListActiveExpenses(cmd.Context())
			if err != nil {
				return err
			}
			return cli.RenderExpenses(cmd.OutOrStdout(), rows)
		}),
	}
}

func showExpenseCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one expense",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(st, func(cmd *cobra.Command, args []string, s *session) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			row, err := s.repo.GetExpense(cmd.Context(), id)
			if err != nil {
				return err
			}
			return cli.RenderExpenseDetails(cmd.OutOrStdout(), row)
		}),
	}
}

func addExpenseCmd(st *rootState) *cobra.Command {
	var in ledger.NewExpense

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an expense",
		Example: `  ledger expenses add --title Coffee --amount 85.50 --category 1
  ledger expenses add --title Netflix --amount 9.99 --currency usd --category 3 --date 2026-02-01`,
		Args: cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			e, err := s.repo.AddExpense(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Expense %q added with id %d.", e.Title, e.ID)))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "what the money was spent on")
	cmd.Flags().StringVarP(&in.Amount, "amount", "a", "", "amount, e.g. 120.50")
	cmd.Flags().Int64VarP(&in.CategoryID, "category", "c", 0, "category id")
	cmd.Flags().StringVarP(&in.Date, "date", "d", validation.FormatDate(time.Now()), "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Currency, "currency", model.DefaultCurrency, "three-letter currency code")
	cmd.Flags().StringVar(&in.Description, "description", "", "optional note")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func updateExpenseCmd(st *rootState) *cobra.Command {
	var ch ledger.ExpenseChanges

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an expense",
		Long: `Change fields of an active expense. Only the flags you pass are
changed. Pass --description clear to remove the description.`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(st, func(cmd *cobra.Command, args []string, s *session) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := s.repo.UpdateExpense(cmd.Context(), id, ch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Expense %d updated: %s, %s %s.",
				e.ID, e.Title, model.FormatMoney(e.Amount), model.CurrencyLabel(e.Currency))))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&ch.Title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&ch.Amount, "amount", "a", "", "new amount")
	cmd.Flags().Int64VarP(&ch.CategoryID, "category", "c", 0, "new category id")
	cmd.Flags().StringVarP(&ch.Date, "date", "d", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ch.Currency, "currency", "", "new currency code")
	cmd.Flags().StringVar(&ch.Description, "description", "", `new note, or "clear"`)

	return cmd
}

func deleteExpenseCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: withSession(st, func(cmd *cobra.Command, args []string, s *session) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := s.repo.SoftDeleteExpense(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Expense %d deleted.", id)))
			return nil
		}),
	}
}

func searchExpensesCmd(st *rootState) *cobra.Command {
	var f ledger.SearchFilter

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find expenses by title, category and date range",
		Example: `  ledger expenses search --title coffee
  ledger expenses search --category food --from 2026-02-01 --to 2026-02-28`,
		Args: cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			rows, err := s.repo.SearchExpenses(cmd.Context(), f)
			if err != nil {
				return err
			}
			return cli.RenderExpenses(cmd.OutOrStdout(), rows)
		}),
	}

	cmd.Flags().StringVarP(&f.Title, "title", "t", "", "title contains")
	cmd.Flags().StringVarP(&f.Category, "category", "c", "", "category name contains")
	cmd.Flags().StringVar(&f.Start, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.End, "to", "", "last date (YYYY-MM-DD)")

	return cmd
}
