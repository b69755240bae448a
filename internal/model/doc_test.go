package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransactionDocRoundTrip(t *testing.T) {
	t.Parallel()

	in := Transaction{
		ID:              "t1",
		CustomerID:      "c1",
		Type:            TxDebit,
		Amount:          decimal.RequireFromString("250.50"),
		Description:     "groceries",
		TransactionDate: time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
		CreatedAt:       time.Date(2024, time.January, 20, 12, 30, 0, 0, time.UTC),
	}

	out, err := TransactionFromDoc("t1", TransactionDoc(in))
	require.NoError(t, err)
	require.Equal(t, in.CustomerID, out.CustomerID)
	require.Equal(t, in.Type, out.Type)
	require.True(t, in.Amount.Equal(out.Amount))
	require.Equal(t, in.Description, out.Description)
	require.True(t, in.TransactionDate.Equal(out.TransactionDate))
	require.True(t, in.CreatedAt.Equal(out.CreatedAt))
}

func TestTransactionDocSurvivesJSON(t *testing.T) {
	t.Parallel()

	// Gateways marshal the field map to JSON; after a decode every value
	// comes back as string or float64. The codec must still read it.
	in := Transaction{
		ID:         "t1",
		CustomerID: "c1",
		Type:       TxCredit,
		Amount:     decimal.RequireFromString("99.95"),
		CreatedAt:  time.Now().UTC(),
	}
	raw, err := json.Marshal(TransactionDoc(in))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	out, err := TransactionFromDoc("t1", doc)
	require.NoError(t, err)
	require.True(t, in.Amount.Equal(out.Amount))
}

func TestTransactionFromDocAcceptsNumericAmount(t *testing.T) {
	t.Parallel()

	// documents written by older clients carry the amount as a JSON number
	doc := map[string]any{
		"customerId": "c1",
		"type":       "credit",
		"amount":     float64(500),
		"createdAt":  "2024-01-05T10:00:00Z",
	}
	out, err := TransactionFromDoc("t1", doc)
	require.NoError(t, err)
	require.Equal(t, "500", out.Amount.String())
}

func TestTransactionFromDocRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := TransactionFromDoc("t1", map[string]any{"type": "credit", "amount": "10"})
	require.Error(t, err, "missing customerId")

	_, err = TransactionFromDoc("t1", map[string]any{"customerId": "c1", "type": "refund", "amount": "10"})
	require.Error(t, err, "bad type")

	_, err = TransactionFromDoc("t1", map[string]any{"customerId": "c1", "type": "credit", "amount": true})
	require.Error(t, err, "bad amount")
}

func TestCustomerDocRoundTrip(t *testing.T) {
	t.Parallel()

	in := Customer{ID: "c1", Name: "Asha", Phone: "9876543210", CreatedAt: time.Now().UTC()}
	out, err := CustomerFromDoc("c1", CustomerDoc(in))
	require.NoError(t, err)
	require.Equal(t, in.Name, out.Name)
	require.Equal(t, in.Phone, out.Phone)

	_, err = CustomerFromDoc("c2", map[string]any{"phone": "123"})
	require.Error(t, err, "missing name")
}

func TestDeletedCustomerDocRoundTrip(t *testing.T) {
	t.Parallel()

	asha := Customer{ID: "c1", Name: "Asha", CreatedAt: time.Now().UTC()}
	related := []Transaction{
		{ID: "t1", CustomerID: "c1", Type: TxCredit, Amount: decimal.RequireFromString("500"), CreatedAt: time.Now().UTC()},
		{ID: "t2", CustomerID: "c1", Type: TxDebit, Amount: decimal.RequireFromString("200"), CreatedAt: time.Now().UTC()},
	}
	in := DeletedItem{
		ID:                  "d1",
		Kind:                DeletedCustomer,
		Customer:            &asha,
		RelatedTransactions: related,
		DeletedAt:           time.Now().UTC(),
		RestoredTxIDs:       map[string]string{"t1": "t1-new"},
	}

	out, err := DeletedItemFromDoc("d1", DeletedItemDoc(in))
	require.NoError(t, err)
	require.Equal(t, DeletedCustomer, out.Kind)
	require.NotNil(t, out.Customer)
	require.Equal(t, "Asha", out.Customer.Name)
	require.Equal(t, "c1", out.Customer.ID)
	require.Len(t, out.RelatedTransactions, 2)
	require.Equal(t, "t1-new", out.RestoredTxIDs["t1"])
}

func TestDeletedTransactionDocRoundTrip(t *testing.T) {
	t.Parallel()

	tx := Transaction{ID: "t1", CustomerID: "c1", Type: TxDebit, Amount: decimal.RequireFromString("75"), CreatedAt: time.Now().UTC()}
	in := DeletedItem{ID: "d1", Kind: DeletedTransaction, Transaction: &tx, DeletedAt: time.Now().UTC()}

	out, err := DeletedItemFromDoc("d1", DeletedItemDoc(in))
	require.NoError(t, err)
	require.Equal(t, DeletedTransaction, out.Kind)
	require.NotNil(t, out.Transaction)
	require.Equal(t, "t1", out.Transaction.ID)
	require.True(t, tx.Amount.Equal(out.Transaction.Amount))
}

func TestDeletedItemFromDocUnknownKind(t *testing.T) {
	t.Parallel()

	_, err := DeletedItemFromDoc("d1", map[string]any{"type": "mystery"})
	require.Error(t, err)
}

func TestDisplayDescriptionDefaults(t *testing.T) {
	t.Parallel()

	credit := Transaction{Type: TxCredit}
	debit := Transaction{Type: TxDebit}
	named := Transaction{Type: TxCredit, Description: "advance"}

	require.Equal(t, "Payment Received", credit.DisplayDescription())
	require.Equal(t, "Payment Given", debit.DisplayDescription())
	require.Equal(t, "advance", named.DisplayDescription())
}

func TestEffectiveDate(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)
	entered := time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC)

	require.Equal(t, created, Transaction{CreatedAt: created}.EffectiveDate())
	require.Equal(t, entered, Transaction{CreatedAt: created, TransactionDate: entered}.EffectiveDate())
}
