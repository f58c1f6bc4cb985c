package cli

import (
	"context"
	"fmt"

	"github.com/Veraticus/expense-ledger/internal/ledger"
	"github.com/Veraticus/expense-ledger/internal/model"
)

func (a *App) addExpense(ctx context.Context) error {
	cats, err := a.repo.ListActiveCategories(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		a.prompt.Println(FormatWarning("Add a category first."))
		return nil
	}

	var in ledger.NewExpense
	if in.Title, err = a.prompt.AskRequired(ctx, "Title"); err != nil {
		return err
	}
	if in.Date, err = a.prompt.AskDate(ctx, "Date (YYYY-MM-DD)", false); err != nil {
		return err
	}
	if in.Amount, err = a.prompt.AskAmount(ctx, "Amount", false); err != nil {
		return err
	}
	if err := RenderCategories(a.prompt.Writer(), cats); err != nil {
		return err
	}
	if in.CategoryID, err = a.prompt.AskID(ctx, "Category id"); err != nil {
		return err
	}
	if in.Currency, err = a.prompt.AskCurrency(ctx, "Currency (blank for "+model.DefaultCurrency+")"); err != nil {
		return err
	}
	if in.Description, err = a.prompt.Ask(ctx, "Description (optional)"); err != nil {
		return err
	}

	e, err := a.repo.AddExpense(ctx, in)
	if err != nil {
		return err
	}
	a.prompt.Println(FormatSuccess(fmt.Sprintf("Expense %q added with id %d.", e.Title, e.ID)))
	return nil
}

func (a *App) listExpenses(ctx context.Context) error {
	rows, err := a.repo.ListActiveExpenses(ctx)
	if err != nil {
		return err
	}
	return RenderExpenses(a.prompt.Writer(), rows)
}

func (a *App) showExpense(ctx context.Context) error {
	id, err := a.prompt.AskID(ctx, "Expense id")
	if err != nil {
		return err
	}
	row, err := a.repo.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	return RenderExpenseDetails(a.prompt.Writer(), row)
}

func (a *App) searchExpenses(ctx context.Context) error {
	a.prompt.Println(SubtleStyle.Render("Leave a field blank to skip it."))

	var f ledger.SearchFilter
	var err error
	if f.Title, err = a.prompt.Ask(ctx, "Title contains"); err != nil {
		return err
	}
	if f.Category, err = a.prompt.Ask(ctx, "Category contains"); err != nil {
		return err
	}
	if f.Start, err = a.prompt.AskDate(ctx, "From (YYYY-MM-DD)", true); err != nil {
		return err
	}
	if f.End, err = a.prompt.AskDate(ctx, "To (YYYY-MM-DD)", true); err != nil {
		return err
	}

	rows, err := a.repo.SearchExpenses(ctx, f)
	if err != nil {
		return err
	}
	return RenderExpenses(a.prompt.Writer(), rows)
}

func (a *App) updateExpense(ctx context.Context) error {
	id, err := a.prompt.AskID(ctx, "Expense id")
	if err != nil {
		return err
	}
	cur, err := a.repo.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if err := RenderExpenseDetails(a.prompt.Writer(), cur); err != nil {
		return err
	}
	a.prompt.Println(SubtleStyle.Render("Leave a field blank to keep it."))

	var ch ledger.ExpenseChanges
	if ch.Title, err = a.prompt.Ask(ctx, "New title"); err != nil {
		return err
	}
	if ch.Date, err = a.prompt.AskDate(ctx, "New date (YYYY-MM-DD)", true); err != nil {
		return err
	}
	if ch.Amount, err = a.prompt.AskAmount(ctx, "New amount", true); err != nil {
		return err
	}
	if ch.CategoryID, err = a.prompt.AskOptionalID(ctx, "New category id"); err != nil {
		return err
	}
	if ch.Currency, err = a.prompt.AskCurrency(ctx, "New currency"); err != nil {
		return err
	}
	if ch.Description, err = a.prompt.Ask(ctx, "New description (\"clear\" removes it)"); err != nil {
		return err
	}

	updated, err := a.repo.UpdateExpense(ctx, id, ch)
	if err != nil {
		return err
	}
	a.prompt.Println(FormatSuccess(fmt.Sprintf("Expense %d updated: %s, %s %s.",
		updated.ID, updated.Title, model.FormatMoney(updated.Amount), model.CurrencyLabel(updated.Currency))))
	return nil
}

func (a *App) deleteExpense(ctx context.Context) error {
	id, err := a.prompt.AskID(ctx, "Expense id")
	if err != nil {
		return err
	}
	ok, err := a.prompt.Confirm(ctx, fmt.Sprintf("Delete expense %d?", id))
	if err != nil || !ok {
		return err
	}
	if err := a.repo.SoftDeleteExpense(ctx, id); err != nil {
		return err
	}
	a.prompt.Println(FormatSuccess(fmt.Sprintf("Expense %d deleted.", id)))
	return nil
}
