// Package tui implements the read-only expense browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/expense-ledger/internal/model"
	"github.com/Veraticus/expense-ledger/internal/tui/themes"
	"github.com/Veraticus/expense-ledger/internal/validation"
)

const loadTimeout = 10 * time.Second

// ExpenseLister loads the active expenses.
type ExpenseLister interface {
	ListActiveExpenses(ctx context.Context) ([]model.ExpenseRow, error)
}

// TotalReporter sums active expenses per currency.
type TotalReporter interface {
	Total(ctx context.Context) ([]model.CurrencyTotal, error)
}

type expensesLoadedMsg struct {
	err    error
	rows   []model.ExpenseRow
	totals []model.CurrencyTotal
}

// Model is the bubbletea model of the browser.
type Model struct {
	err      error
	expenses ExpenseLister
	totals   TotalReporter
	theme    themes.Theme
	keymap   KeyMap
	rows     []model.ExpenseRow
	sums     []model.CurrencyTotal
	table    table.Model
	width    int
	height   int
	loaded   bool
	fullHelp bool
	quitting bool
}

var columns = []table.Column{
	{Title: "ID", Width: 5},
	{Title: "Date", Width: 10},
	{Title: "Title", Width: 24},
	{Title: "Category", Width: 16},
	{Title: "Amount", Width: 12},
	{Title: "Cur", Width: 4},
	{Title: "Description", Width: 24},
}

// New creates a browser reading from expenses and totals.
func New(expenses ExpenseLister, totals TotalReporter, theme themes.Theme) Model {
	keymap := DefaultKeyMap()
	tk := table.DefaultKeyMap()
	tk.LineUp = keymap.Up
	tk.LineDown = keymap.Down
	tk.PageUp = keymap.PageUp
	tk.PageDown = keymap.PageDown
	tk.GotoTop = keymap.Home
	tk.GotoBottom = keymap.End

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
		table.WithKeyMap(tk),
	)

	s := table.DefaultStyles()
	s.Header = theme.Header
	s.Selected = theme.Selected
	t.SetStyles(s)

	return Model{
		expenses: expenses,
		totals:   totals,
		theme:    theme,
		keymap:   keymap,
		table:    t,
		width:    100,
		height:   24,
	}
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		rows, err := m.expenses.ListActiveExpenses(ctx)
		if err != nil {
			return expensesLoadedMsg{err: err}
		}
		totals, err := m.totals.Total(ctx)
		if err != nil {
			return expensesLoadedMsg{err: err}
		}
		return expensesLoadedMsg{rows: rows, totals: totals}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Refresh):
			return m, m.load()
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.fullHelp = !m.fullHelp
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case expensesLoadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.rows = msg.rows
			m.sums = msg.totals
			m.table.SetRows(tableRows(msg.rows))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) resize() {
	// Title, footer and help take eight lines.
	if h := m.height - 8; h > 3 {
		m.table.SetHeight(h)
	}
	cols := make([]table.Column, len(columns))
	copy(cols, columns)
	if extra := m.width - tableWidth(columns); extra > 0 {
		cols[2].Width += extra / 2
		cols[6].Width += extra - extra/2
	}
	m.table.SetColumns(cols)
}

func tableWidth(cols []table.Column) int {
	w := 0
	for _, c := range cols {
		// One cell of padding on each side.
		w += c.Width + 2
	}
	return w
}

func tableRows(rows []model.ExpenseRow) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row{
			fmt.Sprint(r.ID),
			validation.FormatDate(r.Date),
			r.Title,
			r.CategoryName,
			model.FormatMoney(r.Amount),
			model.CurrencyLabel(r.Currency),
			r.Description,
		})
	}
	return out
}

// Selected returns the expense under the cursor.
func (m Model) Selected() (model.ExpenseRow, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return model.ExpenseRow{}, false
	}
	return m.rows[i], true
}

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(fmt.Sprintf("💸 Expenses (%d)", len(m.rows))))
	b.WriteString("\n")

	switch {
	case !m.loaded:
		b.WriteString(m.theme.Subtitle.Render("Loading expenses..."))
	case m.err != nil:
		b.WriteString(m.theme.StatusError.Render("Failed to load expenses: " + m.err.Error()))
	case len(m.rows) == 0:
		b.WriteString(m.theme.Subtitle.Render("No expenses recorded yet."))
	default:
		b.WriteString(m.table.View())
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render(m.footer()))
	b.WriteString("\n")
	b.WriteString(m.help())
	return b.String()
}

func (m Model) footer() string {
	if len(m.sums) == 0 {
		return m.theme.Subtitle.Render("Totals: none")
	}
	parts := make([]string, 0, len(m.sums))
	for _, s := range m.sums {
		parts = append(parts, m.theme.Money.Render(model.FormatMoney(s.Total))+" "+model.CurrencyLabel(s.Currency))
	}
	return "Totals: " + strings.Join(parts, "  ·  ")
}

func (m Model) help() string {
	bindings := m.keymap.ShortHelp()
	if m.fullHelp {
		bindings = m.keymap.FullHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.theme.Help.Render(strings.Join(parts, " • "))
}

// Run shows the browser until the user quits or ctx ends.
func Run(ctx context.Context, expenses ExpenseLister, totals TotalReporter, theme themes.Theme) error {
	p := tea.NewProgram(New(expenses, totals, theme), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
