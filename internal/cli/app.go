package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/ledger"
	"github.com/Veraticus/expense-ledger/internal/report"
	"github.com/Veraticus/expense-ledger/internal/storage"
)

// App is the interactive expense menu.
type App struct {
	repo       *ledger.Repository
	reports    *report.Engine
	prompt     *Prompter
	exportPath string
}

// NewApp wires the menu to a repository and a report engine. exportPath is
// offered as the default CSV destination.
func NewApp(repo *ledger.Repository, reports *report.Engine, prompt *Prompter, exportPath string) *App {
	return &App{
		repo:       repo,
		reports:    reports,
		prompt:     prompt,
		exportPath: exportPath,
	}
}

// Run shows the main menu until the user exits or input ends. Closed input
// is a normal exit; a canceled context is returned.
func (a *App) Run(ctx context.Context) error {
	err := a.prompt.runMenu(ctx, a.MainMenu())
	if errors.Is(err, ErrInputClosed) {
		a.prompt.Println()
		err = nil
	}
	if err == nil {
		a.prompt.Println(FormatInfo("Goodbye! " + LedgerIcon))
	}
	return err
}

// MainMenu is the top-level menu.
func (a *App) MainMenu() Menu {
	return Menu{
		Title:    "Expense Ledger",
		ExitText: "Exit",
		Items: []MenuItem{
			{Key: "1", Label: "Categories", Run: a.submenu(a.CategoryMenu)},
			{Key: "2", Label: "Expenses", Run: a.submenu(a.ExpenseMenu)},
			{Key: "3", Label: "Reports", Run: a.submenu(a.ReportMenu)},
			{Key: "4", Label: "Load demo data", Run: a.seed},
		},
	}
}

// CategoryMenu manages categories.
func (a *App) CategoryMenu() Menu {
	return Menu{
		Title: "Categories",
		Items: []MenuItem{
			{Key: "1", Label: "Add category", Run: a.addCategory},
			{Key: "2", Label: "List categories", Run: a.listCategories},
			{Key: "3", Label: "Rename category", Run: a.renameCategory},
			{Key: "4", Label: "Delete category", Run: a.deleteCategory},
		},
	}
}

// ExpenseMenu manages expenses.
func (a *App) ExpenseMenu() Menu {
	return Menu{
		Title: "Expenses",
		Items: []MenuItem{
			{Key: "1", Label: "Add expense", Run: a.addExpense},
			{Key: "2", Label: "List expenses", Run: a.listExpenses},
			{Key: "3", Label: "Expense details", Run: a.showExpense},
			{Key: "4", Label: "Search expenses", Run: a.searchExpenses},
			{Key: "5", Label: "Update expense", Run: a.updateExpense},
			{Key: "6", Label: "Delete expense", Run: a.deleteExpense},
		},
	}
}

// ReportMenu runs reports and the CSV export.
func (a *App) ReportMenu() Menu {
	return Menu{
		Title: "Reports",
		Items: []MenuItem{
			{Key: "1", Label: "Total spent", Run: a.reportTotal},
			{Key: "2", Label: "Totals by category", Run: a.reportByCategory},
			{Key: "3", Label: "Largest and smallest expense per category", Run: a.reportMaxMin},
			{Key: "4", Label: "Most and least expensive in a period", Run: a.reportExtremes},
			{Key: "5", Label: "Top category", Run: a.reportTop},
			{Key: "6", Label: "Average spent per day", Run: a.reportAverage},
			{Key: "7", Label: "Search expenses", Run: a.searchExpenses},
			{Key: "8", Label: "Export to CSV", Run: a.exportCSV},
		},
	}
}

func (a *App) submenu(build func() Menu) func(context.Context) error {
	return func(ctx context.Context) error {
		return a.prompt.runMenu(ctx, build())
	}
}

func (a *App) seed(ctx context.Context) error {
	res, err := a.repo.Seed(ctx, NewProgress(a.prompt.Writer(), "Loading demo data..."))
	if err != nil {
		return err
	}
	a.prompt.Println(FormatSuccess(fmt.Sprintf("Prepared %d categories and added %d expenses.", res.Categories, res.Expenses)))
	if res.Skipped > 0 {
		a.prompt.Println(FormatWarning(fmt.Sprintf("Skipped %d expenses whose category is deleted.", res.Skipped)))
	}
	return nil
}

// describe turns an error into the line shown under the menu.
func describe(err error) string {
	var ue *common.UserError
	switch {
	case errors.As(err, &ue):
		return ue.UserMessage
	case common.IsRecoverable(err):
		return err.Error()
	case errors.Is(err, storage.ErrStore):
		return "The database rejected the operation; nothing was changed."
	default:
		slog.Warn("Unexpected menu error", "error", err)
		return err.Error()
	}
}
