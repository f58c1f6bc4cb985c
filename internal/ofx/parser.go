// Package ofx reads bank and credit-card statements and turns their debits
// into expense input.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/expense-ledger/internal/ledger"
	"github.com/Veraticus/expense-ledger/internal/validation"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(info|warn|error)\b`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Debit is one outgoing transaction of a statement.
type Debit struct {
	Date     time.Time
	Amount   decimal.Decimal
	Title    string
	Memo     string
	Currency string
	Account  string
	FITID    string
}

// Statement is what a file contributed, after credits were dropped.
type Statement struct {
	Debits  []Debit
	Credits int
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY values must be upper-case; SGML files omit the closing tag.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of a bare opening tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile reads every bank and credit-card statement in reader.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return Statement{}, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Statement{}, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return Statement{}, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var st Statement
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			p.collect(&st, stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID), currencyCode(stmt.CurDef))
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			p.collect(&st, stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID), currencyCode(stmt.CurDef))
		}
	}

	slog.Info("Parsed OFX file",
		"debits", len(st.Debits),
		"credits_skipped", st.Credits,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return st, nil
}

func (p *Parser) collect(st *Statement, txns []ofxgo.Transaction, account, currency string) {
	for _, tx := range txns {
		amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
		if err != nil {
			slog.Warn("Skipping transaction with unreadable amount", "fitid", tx.FiTID, "error", err)
			continue
		}
		// OFX uses negative amounts for debits.
		if !amount.IsNegative() {
			st.Credits++
			continue
		}

		cur := currency
		if tx.Currency != nil {
			if code := currencyCode(tx.Currency.CurSym); code != "" {
				cur = code
			}
		}

		st.Debits = append(st.Debits, Debit{
			Date:     tx.DtPosted.Time,
			Amount:   amount.Neg(),
			Title:    p.extractMerchantName(tx),
			Memo:     strings.TrimSpace(string(tx.Memo)),
			Currency: strings.ToUpper(cur),
			Account:  account,
			FITID:    string(tx.FiTID),
		})
	}
}

// currencyCode returns the ISO code, or "" for the unknown-currency symbol.
func currencyCode(c ofxgo.CurrSymbol) string {
	if code := c.String(); code != "XXX" {
		return code
	}
	return ""
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// PAYEE is usually the cleanest name.
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " date.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// Expenses turns debits into expense input for one category. The memo, or
// the bank's transaction id when there is none, becomes the description.
func Expenses(debits []Debit, categoryID int64) []ledger.NewExpense {
	out := make([]ledger.NewExpense, 0, len(debits))
	for _, d := range debits {
		description := d.Memo
		if description == "" || description == d.Title {
			description = "OFX " + d.FITID
		}
		out = append(out, ledger.NewExpense{
			Title:       d.Title,
			Date:        validation.FormatDate(d.Date),
			Amount:      d.Amount.StringFixed(2),
			Description: description,
			Currency:    d.Currency,
			CategoryID:  categoryID,
		})
	}
	return out
}
