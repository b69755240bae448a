package ledger

import (
	"sort"
	"time"

	"github.com/khata-app/khata/internal/model"
)

// TypeFilter narrows the view to one transaction direction.
type TypeFilter string

const (
	TypeAll    TypeFilter = "all"
	TypeCredit TypeFilter = "credit"
	TypeDebit  TypeFilter = "debit"
)

// SortOrder selects the ordering of a filtered view. The two type-* values
// are filter presets rather than true orderings: they keep date-desc order
// and drop the other direction, matching the sort menu users see.
type SortOrder string

const (
	SortDateDesc   SortOrder = "date-desc"
	SortDateAsc    SortOrder = "date-asc"
	SortAmountDesc SortOrder = "amount-desc"
	SortAmountAsc  SortOrder = "amount-asc"
	SortTypeCredit SortOrder = "type-credit"
	SortTypeDebit  SortOrder = "type-debit"
)

// Query describes one derived transaction view. Zero value = everything,
// newest first.
type Query struct {
	CustomerID string
	Type       TypeFilter
	Day        time.Time // single-day match, calendar date only
	Start, End time.Time // inclusive range; both must be set to apply
	Sort       SortOrder
}

// Apply runs the fixed pipeline (customer scope, then type filter, then
// date constraint, then sort) and returns a fresh slice. The input is
// never mutated, so repeated calls with the same arguments are idempotent.
func Apply(txns []model.Transaction, q Query) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if q.CustomerID != "" && t.CustomerID != q.CustomerID {
			continue
		}
		if !matchesType(t, q.Type) {
			continue
		}
		if !matchesDate(t, q) {
			continue
		}
		out = append(out, t)
	}
	applySort(out, q.Sort)
	if q.Sort == SortTypeCredit || q.Sort == SortTypeDebit {
		want := model.TxCredit
		if q.Sort == SortTypeDebit {
			want = model.TxDebit
		}
		kept := out[:0]
		for _, t := range out {
			if t.Type == want {
				kept = append(kept, t)
			}
		}
		out = kept
	}
	return out
}

func matchesType(t model.Transaction, f TypeFilter) bool {
	switch f {
	case TypeCredit:
		return t.Type == model.TxCredit
	case TypeDebit:
		return t.Type == model.TxDebit
	default:
		return true
	}
}

func matchesDate(t model.Transaction, q Query) bool {
	when := t.EffectiveDate()
	if !q.Day.IsZero() {
		return sameCalendarDay(when, q.Day)
	}
	if !q.Start.IsZero() && !q.End.IsZero() {
		start := StartOfDay(q.Start)
		end := EndOfDay(q.End)
		return !when.Before(start) && !when.After(end)
	}
	return true
}

// sameCalendarDay views the transaction instant in the query day's zone
// before comparing dates. Stored instants come back from the gateway in
// UTC, so without the conversion a date entered in a non-UTC zone would
// stop matching after a reload.
func sameCalendarDay(t, day time.Time) bool {
	ty, tm, td := t.In(day.Location()).Date()
	dy, dm, dd := day.Date()
	return ty == dy && tm == dm && td == dd
}

// StartOfDay normalizes to 00:00:00 of the calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes to the last instant of the calendar day, so range
// filters are inclusive of both endpoints.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func applySort(txns []model.Transaction, order SortOrder) {
	sort.SliceStable(txns, func(i, j int) bool {
		switch order {
		case SortDateAsc:
			return txns[i].EffectiveDate().Before(txns[j].EffectiveDate())
		case SortAmountDesc:
			return txns[i].Amount.GreaterThan(txns[j].Amount)
		case SortAmountAsc:
			return txns[i].Amount.LessThan(txns[j].Amount)
		default: // date-desc and the type-* presets
			return txns[j].EffectiveDate().Before(txns[i].EffectiveDate())
		}
	})
}

// SortLabel is the menu label for a sort order.
func SortLabel(order SortOrder) string {
	switch order {
	case SortDateAsc:
		return "Date (oldest first)"
	case SortAmountDesc:
		return "Amount (high to low)"
	case SortAmountAsc:
		return "Amount (low to high)"
	case SortTypeCredit:
		return "Credits only"
	case SortTypeDebit:
		return "Debits only"
	default:
		return "Date (newest first)"
	}
}
