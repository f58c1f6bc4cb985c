package report_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/report"
)

func TestWriteCSV(t *testing.T) {
	rows := []model.ExportRow{
		{
			Date:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Title:    "Silpo, weekly",
			Amount:   decimal.RequireFromString("850.5"),
			Category: "Groceries",
		},
		{
			Date:     time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
			Title:    "Кіно",
			Amount:   decimal.NewFromInt(400),
			Category: "Розваги",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Title", "Amount", "Category"},
		{"2026-02-01", "Silpo, weekly", "850.50", "Groceries"},
		{"2026-02-05", "Кіно", "400.00", "Розваги"},
	}, records)
}

func TestExportCSV_EmptyIsHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "report.csv")

	require.NoError(t, report.ExportCSV(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Title,Amount,Category\n", string(data))
}

func TestExportCSV_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	first := []model.ExportRow{{
		Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Title: "Old", Amount: decimal.NewFromInt(1), Category: "X",
	}}

	require.NoError(t, report.ExportCSV(path, first))
	require.NoError(t, report.ExportCSV(path, []model.ExportRow{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Old")
}

func TestExportCSV_UnwritablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	tests := []struct {
		name string
		path string
		msg  string
	}{
		{name: "directory is a file", path: filepath.Join(blocker, "sub", "report.csv"), msg: "Cannot create directory"},
		{name: "target is a directory", path: t.TempDir(), msg: "Cannot write"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := report.ExportCSV(tt.path, nil)
			require.Error(t, err)

			var ue *common.UserError
			require.True(t, errors.As(err, &ue))
			assert.Contains(t, ue.UserMessage, tt.msg)
			assert.NotNil(t, ue.Err)
		})
	}
}
