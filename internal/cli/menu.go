package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// MenuItem is one numbered choice of a menu.
type MenuItem struct {
	Run   func(ctx context.Context) error
	Key   string
	Label string
}

// Menu is a titled list of choices. Key "0" is reserved for leaving it.
type Menu struct {
	Title    string
	ExitText string
	Items    []MenuItem
}

// Lookup finds the item bound to key.
func (m Menu) Lookup(key string) (MenuItem, bool) {
	for _, item := range m.Items {
		if item.Key == key {
			return item, true
		}
	}
	return MenuItem{}, false
}

func (m Menu) render() string {
	var b strings.Builder
	b.WriteString("\n" + FormatTitle(m.Title) + "\n")
	for _, item := range m.Items {
		fmt.Fprintf(&b, "  %s. %s\n", BoldStyle.Render(item.Key), item.Label)
	}
	exit := m.ExitText
	if exit == "" {
		exit = "Back"
	}
	fmt.Fprintf(&b, "  %s. %s\n", BoldStyle.Render("0"), exit)
	return b.String()
}

// runMenu shows m until the user picks 0 or input ends. Errors from an item
// are printed and the menu is shown again; only input errors end the loop.
func (p *Prompter) runMenu(ctx context.Context, m Menu) error {
	for {
		p.Printf("%s", m.render())
		choice, err := p.Ask(ctx, "Choose an option")
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}

		item, ok := m.Lookup(choice)
		if !ok {
			p.Println(FormatError("Unknown option, try again."))
			continue
		}

		err = item.Run(ctx)
		switch {
		case err == nil:
		case isInputError(err):
			return err
		default:
			slog.Debug("Menu action failed", "menu", m.Title, "item", item.Label, "error", err)
			p.Println(FormatError(describe(err)))
		}
	}
}

func isInputError(err error) bool {
	return errors.Is(err, ErrInputClosed) || errors.Is(err, ErrInputCancelled)
}
