package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/validation"
)

// CSVHeader is the first line of every export.
var CSVHeader = []string{"Date", "Title", "Amount", "Category"}

// WriteCSV writes the header followed by one record per row. Amounts carry
// no currency annotation.
func WriteCSV(w io.Writer, rows []model.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			validation.FormatDate(r.Date),
			r.Title,
			model.FormatMoney(r.Amount),
			r.Category,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes rows to path, creating its directory when needed. An
// empty rows slice produces a header-only file. A path that cannot be
// created is reported as a *common.UserError.
func ExportCSV(path string, rows []model.ExportRow) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return common.NewUserError(fmt.Sprintf("Cannot create directory %s for the export.", dir), err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path comes from local configuration
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Cannot write %s; check the path and its permissions.", path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close export file: %w", cerr)
		}
	}()

	return WriteCSV(f, rows)
}
