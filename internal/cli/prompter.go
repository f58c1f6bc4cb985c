package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/expense-ledger/internal/validation"
)

// Prompter asks questions on a terminal and re-asks until the answer is
// well-formed. Only closed or canceled input ends a question early.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter reading from in and writing to out. Nil
// arguments fall back to the process's stdin and stdout.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{reader: NewLineReader(in), writer: out}
}

// Writer is where the prompter prints.
func (p *Prompter) Writer() io.Writer {
	return p.writer
}

// Printf writes formatted output, logging rather than failing on write
// errors.
func (p *Prompter) Printf(format string, args ...any) {
	if _, err := fmt.Fprintf(p.writer, format, args...); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

// Println writes a line of output.
func (p *Prompter) Println(args ...any) {
	if _, err := fmt.Fprintln(p.writer, args...); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

// Ask prints label and returns the trimmed answer, which may be empty.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	p.Printf("%s", FormatPrompt(label))
	return p.reader.ReadLine(ctx)
}

// AskUntil repeats the question until accept returns true for the answer.
// hint is printed after each rejected answer.
func (p *Prompter) AskUntil(ctx context.Context, label, hint string, accept func(string) bool) (string, error) {
	for {
		answer, err := p.Ask(ctx, label)
		if err != nil {
			return "", err
		}
		if accept(answer) {
			return answer, nil
		}
		p.Println(FormatError(hint))
	}
}

// AskRequired re-asks while the answer is blank.
func (p *Prompter) AskRequired(ctx context.Context, label string) (string, error) {
	return p.AskUntil(ctx, label, "A value is required.", func(s string) bool {
		return strings.TrimSpace(s) != ""
	})
}

// AskID re-asks until the answer is a positive integer.
func (p *Prompter) AskID(ctx context.Context, label string) (int64, error) {
	answer, err := p.AskUntil(ctx, label, "Enter a positive whole number.", validation.ValidID)
	if err != nil {
		return 0, err
	}
	return validation.ParseID(answer)
}

// AskOptionalID accepts a blank answer (returned as 0) or a positive integer.
func (p *Prompter) AskOptionalID(ctx context.Context, label string) (int64, error) {
	answer, err := p.AskUntil(ctx, label, "Enter a positive whole number or leave blank.", optional(validation.ValidID))
	if err != nil || answer == "" {
		return 0, err
	}
	return validation.ParseID(answer)
}

// AskDate re-asks until the answer is a YYYY-MM-DD date. With allowBlank an
// empty answer is accepted as well.
func (p *Prompter) AskDate(ctx context.Context, label string, allowBlank bool) (string, error) {
	accept := validation.ValidDate
	if allowBlank {
		accept = optional(accept)
	}
	return p.AskUntil(ctx, label, "Use the YYYY-MM-DD format with a real date.", accept)
}

// AskAmount re-asks until the answer is a positive number. With allowBlank
// an empty answer is accepted as well.
func (p *Prompter) AskAmount(ctx context.Context, label string, allowBlank bool) (string, error) {
	accept := validation.ValidAmount
	if allowBlank {
		accept = optional(accept)
	}
	return p.AskUntil(ctx, label, "The amount must be a positive number.", accept)
}

// AskCurrency accepts a blank answer or a three-letter code.
func (p *Prompter) AskCurrency(ctx context.Context, label string) (string, error) {
	answer, err := p.AskUntil(ctx, label, "Use a three-letter code such as UAH.", optional(validation.ValidCurrency))
	return strings.ToUpper(answer), err
}

// Confirm asks a yes/no question. Anything but y or yes means no.
func (p *Prompter) Confirm(ctx context.Context, label string) (bool, error) {
	answer, err := p.Ask(ctx, label+" [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func optional(accept func(string) bool) func(string) bool {
	return func(s string) bool {
		return strings.TrimSpace(s) == "" || accept(s)
	}
}
