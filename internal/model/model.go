package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TxType is the direction of a transaction. Amounts are always positive;
// direction is carried solely by the type.
type TxType string

const (
	TxCredit TxType = "credit"
	TxDebit  TxType = "debit"
)

// ParseTxType validates a raw type string.
func ParseTxType(s string) (TxType, error) {
	switch TxType(s) {
	case TxCredit, TxDebit:
		return TxType(s), nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Customer is a person whose credit/debit book is tracked.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}

// Transaction is a single credit or debit entry against a customer.
type Transaction struct {
	ID              string
	CustomerID      string
	Type            TxType
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
	CreatedAt       time.Time
}

// EffectiveDate is the date used for filtering, sorting and grouping:
// the user-entered transaction date when set, else the creation time.
func (t Transaction) EffectiveDate() time.Time {
	if !t.TransactionDate.IsZero() {
		return t.TransactionDate
	}
	return t.CreatedAt
}

// DisplayDescription returns the description, or the conventional default
// for the transaction direction when none was entered.
func (t Transaction) DisplayDescription() string {
	if t.Description != "" {
		return t.Description
	}
	if t.Type == TxCredit {
		return "Payment Received"
	}
	return "Payment Given"
}

// DeletedKind distinguishes what a recycle-bin entry holds.
type DeletedKind string

const (
	DeletedCustomer    DeletedKind = "customer"
	DeletedTransaction DeletedKind = "transaction"
)

// DeletedItem is a recycle-bin entry: a whole-entity snapshot taken at
// deletion time. A customer entry also snapshots every transaction the
// customer had. Restore progress markers survive across retries so a
// second restore attempt does not duplicate parts that already succeeded.
type DeletedItem struct {
	ID                  string
	Kind                DeletedKind
	Customer            *Customer
	Transaction         *Transaction
	RelatedTransactions []Transaction
	DeletedAt           time.Time

	// Restore markers: original id -> id assigned on restore.
	RestoredCustomerID string
	RestoredTxIDs      map[string]string
}

// Title is the recycle-bin display label for the entry.
func (d DeletedItem) Title() string {
	if d.Kind == DeletedCustomer && d.Customer != nil {
		return d.Customer.Name
	}
	if d.Transaction != nil {
		return "Transaction - " + d.Transaction.Amount.String()
	}
	return string(d.Kind)
}
