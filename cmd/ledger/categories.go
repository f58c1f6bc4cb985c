package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-ledger/internal/cli"
)

func categoriesCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage expense categories",
		Long: `Add, list, rename and delete expense categories.

Deleted categories are kept in the database so existing expenses still
show where they belonged. A category cannot be deleted while active
expenses use it.`,
	}

	cmd.AddCommand(
		listCategoriesCmd(st),
		addCategoryCmd(st),
		renameCategoryCmd(st),
		deleteCategoryCmd(st),
	)

	return cmd
}

func listCategoriesCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active categories",
		Args:  cobra.NoArgs,
		RunE: withSession(st, func(cmd *cobra.Command, _ []string, s *session) error {
			cats, err := s.repo.ListActiveCategories(cmd.Context())
			if err != nil {
				return err
			}
			return cli.RenderCategories(cmd.OutOrStdout(), cats)
		}),
	}
}

func addCategoryCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(st, func(cmd *cobra.Command, args []string, s *session) error {
			cat, err := s.repo.AddCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Category %q saved with id %d.", cat.Name, cat.ID)))
			return nil
		}),
	}
}

func renameCategoryCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <new-name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(st, func(cmd *cobra.Command, args []string, s *session) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := s.repo.RenameCategory(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Category %d renamed to %q.", id, args[1])))
			return nil
		}),
	}
}

func deleteCategoryCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a category that no active expense uses",
		Args:    cobra.ExactArgs(1),
		RunE: withSession(st, func(cmd *cobra.Command, args []string, s *session) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cat, err := s.repo.GetCategory(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := s.repo.SoftDeleteCategory(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Category %q deleted.", cat.Name)))
			return nil
		}),
	}
}
