// Package ledger holds the pure aggregation layer: balances, the
// filter/sort pipeline for transaction views, and report building. Nothing
// in here touches a gateway; everything operates on immutable snapshots
// handed in by the caller.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/khata-app/khata/internal/model"
)

// BalanceFor sums signed amounts (+credit, -debit) over the customer's
// transactions. Zero for a customer with no transactions.
func BalanceFor(customerID string, txns []model.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		if t.CustomerID != customerID {
			continue
		}
		sum = sum.Add(signed(t))
	}
	return sum
}

// TotalBalance is the same reduction over every transaction.
func TotalBalance(txns []model.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(signed(t))
	}
	return sum
}

// Totals returns the credit and debit sums separately, for summary cards
// and report headers.
func Totals(txns []model.Transaction) (credit, debit decimal.Decimal) {
	credit, debit = decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.Type == model.TxCredit {
			credit = credit.Add(t.Amount)
		} else {
			debit = debit.Add(t.Amount)
		}
	}
	return credit, debit
}

func signed(t model.Transaction) decimal.Decimal {
	if t.Type == model.TxCredit {
		return t.Amount
	}
	return t.Amount.Neg()
}
