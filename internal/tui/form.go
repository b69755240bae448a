package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/khata-app/khata/internal/model"
)

// form is a small hand-rolled multi-field input used by every modal that
// collects text. Fields are traversed with tab/up/down; runes go into the
// focused field.
type form struct {
	title    string
	fields   []formField
	focus    int
	txType   model.TxType // transaction forms only
	targetID string       // id of the entity being edited, empty on add
}

type formField struct {
	label  string
	value  string
	secret bool
}

func (f *form) value(label string) string {
	for _, fld := range f.fields {
		if fld.label == label {
			return strings.TrimSpace(fld.value)
		}
	}
	return ""
}

func (f *form) setValue(label, value string) {
	for i := range f.fields {
		if f.fields[i].label == label {
			f.fields[i].value = value
			return
		}
	}
}

// handleKey consumes navigation and editing keys. It reports whether the
// form swallowed the key; enter and esc are left to the caller.
func (f *form) handleKey(m tea.KeyMsg) bool {
	switch m.Type {
	case tea.KeyTab, tea.KeyDown:
		f.focus = (f.focus + 1) % len(f.fields)
		return true
	case tea.KeyShiftTab, tea.KeyUp:
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
		return true
	case tea.KeyBackspace, tea.KeyCtrlH:
		cur := &f.fields[f.focus]
		if r := []rune(cur.value); len(r) > 0 {
			cur.value = string(r[:len(r)-1])
		}
		return true
	case tea.KeySpace:
		f.fields[f.focus].value += " "
		return true
	case tea.KeyRunes:
		f.fields[f.focus].value += string(m.Runes)
		return true
	}
	return false
}

func newCustomerForm(c *model.Customer) *form {
	f := &form{
		title: "Add Customer",
		fields: []formField{
			{label: "Name"},
			{label: "Phone"},
		},
	}
	if c != nil {
		f.title = "Edit Customer"
		f.targetID = c.ID
		f.setValue("Name", c.Name)
		f.setValue("Phone", c.Phone)
	}
	return f
}

func newTransactionForm(t *model.Transaction, dateFormat string, loc *time.Location) *form {
	f := &form{
		title:  "Add Transaction",
		txType: model.TxCredit,
		fields: []formField{
			{label: "Amount"},
			{label: "Description"},
			{label: "Date"},
		},
	}
	if t != nil {
		f.title = "Edit Transaction"
		f.targetID = t.ID
		f.txType = t.Type
		f.setValue("Amount", t.Amount.String())
		f.setValue("Description", t.Description)
		if !t.TransactionDate.IsZero() {
			f.setValue("Date", t.TransactionDate.In(loc).Format(dateFormat))
		}
	}
	return f
}

func newAuthForm(signup bool) *form {
	f := &form{
		title: "Login",
		fields: []formField{
			{label: "Email"},
			{label: "Password", secret: true},
		},
	}
	if signup {
		f.title = "Sign Up"
		f.fields = append(f.fields, formField{label: "Confirm Password", secret: true})
	}
	return f
}

func newDateSearchForm() *form {
	return &form{
		title:  "Search by Date",
		fields: []formField{{label: "Date"}},
	}
}

func newDateRangeForm() *form {
	return &form{
		title: "Custom Date Range",
		fields: []formField{
			{label: "Start"},
			{label: "End"},
		},
	}
}

// parseDate accepts the configured display format first, then ISO dates.
func parseDate(s, format string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{format, "2006-01-02", "02/01/2006"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
