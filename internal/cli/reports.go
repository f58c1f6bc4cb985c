package cli

import (
	"context"
	"fmt"

	"github.com/Veraticus/expense-ledger/internal/report"
)

func (a *App) reportTotal(ctx context.Context) error {
	totals, err := a.reports.Total(ctx)
	if err != nil {
		return err
	}
	return RenderTotals(a.prompt.Writer(), totals)
}

func (a *App) reportByCategory(ctx context.Context) error {
	totals, err := a.reports.TotalsByCategory(ctx)
	if err != nil {
		return err
	}
	return RenderCategoryTotals(a.prompt.Writer(), totals)
}

func (a *App) reportMaxMin(ctx context.Context) error {
	rows, err := a.reports.MaxMinByCategory(ctx)
	if err != nil {
		return err
	}
	return RenderCategoryExtremes(a.prompt.Writer(), rows)
}

func (a *App) askPeriod(ctx context.Context) (string, string, error) {
	start, err := a.prompt.AskDate(ctx, "Start date (YYYY-MM-DD)", false)
	if err != nil {
		return "", "", err
	}
	end, err := a.prompt.AskDate(ctx, "End date (YYYY-MM-DD)", false)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

func (a *App) reportExtremes(ctx context.Context) error {
	start, end, err := a.askPeriod(ctx)
	if err != nil {
		return err
	}
	x, err := a.reports.ExtremeInPeriod(ctx, start, end)
	if err != nil {
		return err
	}
	return RenderPeriodExtremes(a.prompt.Writer(), x)
}

func (a *App) reportTop(ctx context.Context) error {
	top, err := a.reports.TopCategory(ctx)
	if err != nil {
		return err
	}
	return RenderTopCategories(a.prompt.Writer(), top)
}

func (a *App) reportAverage(ctx context.Context) error {
	start, end, err := a.askPeriod(ctx)
	if err != nil {
		return err
	}
	avg, err := a.reports.AverageDaily(ctx, start, end)
	if err != nil {
		return err
	}
	return RenderDailyAverage(a.prompt.Writer(), avg)
}

func (a *App) exportCSV(ctx context.Context) error {
	path, err := a.prompt.Ask(ctx, fmt.Sprintf("File path (blank for %s)", a.exportPath))
	if err != nil {
		return err
	}
	if path == "" {
		path = a.exportPath
	}

	rows, err := a.reports.ExportRows(ctx)
	if err != nil {
		return err
	}
	if err := report.ExportCSV(path, rows); err != nil {
		return err
	}
	a.prompt.Println(FormatSuccess(fmt.Sprintf("Exported %d expenses to %s.", len(rows), path)))
	return nil
}
