package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/validation"
)

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = TableHeaderStyle.Render(h)
		rules[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(styled, "\t"))
	fmt.Fprintln(tw, strings.Join(rules, "\t"))
	return tw
}

func empty(w io.Writer, message string) error {
	_, err := fmt.Fprintln(w, InfoStyle.Render(message))
	return err
}

// RenderCategories prints categories as an id/name table.
func RenderCategories(w io.Writer, cats []model.Category) error {
	if len(cats) == 0 {
		return empty(w, "No categories found.")
	}
	tw := newTable(w, "ID", "Name")
	for _, c := range cats {
		fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
	}
	return tw.Flush()
}

// RenderExpenses prints expenses with their category and currency.
func RenderExpenses(w io.Writer, rows []model.ExpenseRow) error {
	if len(rows) == 0 {
		return empty(w, "No expenses found.")
	}
	tw := newTable(w, "ID", "Date", "Title", "Category", "Amount", "Currency", "Description")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, validation.FormatDate(r.Date), r.Title, r.CategoryName,
			model.FormatMoney(r.Amount), model.CurrencyLabel(r.Currency), r.Description)
	}
	return tw.Flush()
}

// RenderExpenseDetails prints every field of one expense in a box.
func RenderExpenseDetails(w io.Writer, r model.ExpenseRow) error {
	description := r.Description
	if description == "" {
		description = "-"
	}
	lines := []string{
		fmt.Sprintf("Title:       %s", r.Title),
		fmt.Sprintf("Date:        %s", validation.FormatDate(r.Date)),
		fmt.Sprintf("Category:    %s (id %d)", r.CategoryName, r.CategoryID),
		fmt.Sprintf("Amount:      %s", FormatMoney(model.FormatMoney(r.Amount), model.CurrencyLabel(r.Currency))),
		fmt.Sprintf("Description: %s", description),
	}
	_, err := fmt.Fprintln(w, RenderBox(fmt.Sprintf("Expense #%d", r.ID), strings.Join(lines, "\n")))
	return err
}

// RenderTotals prints one total per currency.
func RenderTotals(w io.Writer, totals []model.CurrencyTotal) error {
	if len(totals) == 0 {
		return empty(w, "No expenses recorded.")
	}
	tw := newTable(w, "Currency", "Total")
	for _, t := range totals {
		fmt.Fprintf(tw, "%s\t%s\n", model.CurrencyLabel(t.Currency), model.FormatMoney(t.Total))
	}
	return tw.Flush()
}

// RenderCategoryTotals prints totals per category and currency.
func RenderCategoryTotals(w io.Writer, totals []model.CategoryTotal) error {
	if len(totals) == 0 {
		return empty(w, "No expenses recorded.")
	}
	tw := newTable(w, "Category", "Total", "Currency")
	for _, t := range totals {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Category, model.FormatMoney(t.Total), model.CurrencyLabel(t.Currency))
	}
	return tw.Flush()
}

// RenderCategoryExtremes prints max, min and count per category.
func RenderCategoryExtremes(w io.Writer, rows []model.CategoryExtremes) error {
	if len(rows) == 0 {
		return empty(w, "No expenses recorded.")
	}
	tw := newTable(w, "Category", "Max", "Min", "Count")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.Category, model.FormatMoney(r.Max), model.FormatMoney(r.Min), r.Count)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, SubtleStyle.Render("Amounts in different currencies are compared as plain numbers."))
	return err
}

// RenderPeriodExtremes prints the most and least expensive expense of a
// period. A nil result means nothing was found.
func RenderPeriodExtremes(w io.Writer, x *model.PeriodExtremes) error {
	if x == nil {
		return empty(w, "No expenses in this period.")
	}
	line := func(label string, e model.ExpenseExtreme) string {
		return fmt.Sprintf("%s %s (%s) on %s",
			BoldStyle.Render(label), e.Title,
			FormatMoney(model.FormatMoney(e.Amount), model.CurrencyLabel(e.Currency)),
			validation.FormatDate(e.Date))
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", line("Most expensive:", x.Max), line("Least expensive:", x.Min))
	return err
}

// RenderDailyAverage prints the per-currency daily average of a period.
func RenderDailyAverage(w io.Writer, avg model.DailyAverage) error {
	if len(avg.ByCurrency) == 0 {
		return empty(w, "No expenses in this period.")
	}
	if _, err := fmt.Fprintf(w, "%s\n", SubtitleStyle.Render(fmt.Sprintf("%s to %s, %d days",
		validation.FormatDate(avg.Start), validation.FormatDate(avg.End), avg.Days))); err != nil {
		return err
	}
	tw := newTable(w, "Currency", "Total", "Per day")
	for _, a := range avg.ByCurrency {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", model.CurrencyLabel(a.Currency), model.FormatMoney(a.Total), model.FormatMoney(a.Average))
	}
	return tw.Flush()
}

// RenderTopCategories prints the leading category of every currency.
func RenderTopCategories(w io.Writer, top []model.TopCategory) error {
	if len(top) == 0 {
		return empty(w, "No expenses recorded.")
	}
	tw := newTable(w, "Currency", "Category", "Total")
	for _, t := range top {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", model.CurrencyLabel(t.Currency), t.Category, model.FormatMoney(t.Total))
	}
	return tw.Flush()
}
