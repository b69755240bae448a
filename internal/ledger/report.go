package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khata-app/khata/internal/model"
)

// MonthGroup is one calendar-month section of a report, in the order the
// months are encountered in the date-desc sorted sequence.
type MonthGroup struct {
	Label        string // e.g. "Jan 2024"
	Transactions []model.Transaction
}

// Report is the structured per-customer statement handed to the share
// collaborator. Building one performs no persistence.
type Report struct {
	Customer    model.Customer
	Balance     decimal.Decimal
	TotalCredit decimal.Decimal
	TotalDebit  decimal.Decimal
	CreditCount int
	DebitCount  int
	Earliest    time.Time
	Latest      time.Time
	Groups      []MonthGroup
	GeneratedAt time.Time

	loc *time.Location // zone the statement is dated in
}

// local views a stored instant in the statement's zone.
func (r Report) local(t time.Time) time.Time {
	if r.loc == nil {
		return t
	}
	return t.In(r.loc)
}

// BuildReport sorts the customer's transactions newest first, groups them
// by calendar month and computes the summary block. Months and dates are
// taken in now's zone, so a statement generated in IST puts a late-night
// UTC instant in the right month.
func BuildReport(customer model.Customer, txns []model.Transaction, now time.Time) Report {
	sorted := Apply(txns, Query{CustomerID: customer.ID, Sort: SortDateDesc})

	r := Report{
		Customer:    customer,
		Balance:     BalanceFor(customer.ID, sorted),
		GeneratedAt: now,
		loc:         now.Location(),
	}
	r.TotalCredit, r.TotalDebit = Totals(sorted)
	for _, t := range sorted {
		if t.Type == model.TxCredit {
			r.CreditCount++
		} else {
			r.DebitCount++
		}
	}
	if len(sorted) > 0 {
		r.Latest = r.local(sorted[0].EffectiveDate())
		r.Earliest = r.local(sorted[len(sorted)-1].EffectiveDate())
	}

	var current *MonthGroup
	for _, t := range sorted {
		label := r.local(t.EffectiveDate()).Format("Jan 2006")
		if current == nil || current.Label != label {
			r.Groups = append(r.Groups, MonthGroup{Label: label})
			current = &r.Groups[len(r.Groups)-1]
		}
		current.Transactions = append(current.Transactions, t)
	}
	return r
}

// Render produces the plain-text statement shared with the customer.
func (r Report) Render(currency string) string {
	var b strings.Builder
	b.WriteString("TRANSACTION REPORT\n")
	b.WriteString("========================\n\n")
	fmt.Fprintf(&b, "Customer: %s\n", r.Customer.Name)
	if r.Customer.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", r.Customer.Phone)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Balance: %s%s\n", currency, r.Balance.Abs().String())
	fmt.Fprintf(&b, "Total Got: %s%s (%d)\n", currency, r.TotalCredit.String(), r.CreditCount)
	fmt.Fprintf(&b, "Total Given: %s%s (%d)\n", currency, r.TotalDebit.String(), r.DebitCount)
	if !r.Earliest.IsZero() {
		fmt.Fprintf(&b, "Period: %s - %s\n", r.Earliest.Format("2 Jan 2006"), r.Latest.Format("2 Jan 2006"))
	}
	b.WriteString("\n========================\n\n")

	for _, g := range r.Groups {
		b.WriteString(g.Label + "\n")
		b.WriteString("-------------------\n")
		for _, t := range g.Transactions {
			fmt.Fprintf(&b, "%s - %s - %s%s\n",
				r.local(t.EffectiveDate()).Format("02/01/2006"),
				t.DisplayDescription(),
				currency, t.Amount.String())
		}
		b.WriteString("\n")
	}

	b.WriteString("========================\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2 Jan 2006 15:04"))
	return b.String()
}

// ShareTitle is the title handed to the share collaborator alongside the
// rendered body.
func (r Report) ShareTitle() string {
	return r.Customer.Name + " - Transaction Report"
}
