package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/khata-app/khata/internal/model"
)

func txn(id, customerID string, typ model.TxType, amount string, date time.Time) model.Transaction {
	return model.Transaction{
		ID:              id,
		CustomerID:      customerID,
		Type:            typ,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: date,
		CreatedAt:       date,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestBalanceFor(t *testing.T) {
	t.Parallel()

	txns := []model.Transaction{
		txn("t1", "asha", model.TxCredit, "500", day(2024, time.January, 5)),
		txn("t2", "asha", model.TxDebit, "200", day(2024, time.January, 20)),
		txn("t3", "asha", model.TxCredit, "300", day(2024, time.February, 1)),
		txn("t4", "ravi", model.TxCredit, "1000", day(2024, time.January, 1)),
	}

	require.Equal(t, "600", BalanceFor("asha", txns).String())
	require.Equal(t, "1000", BalanceFor("ravi", txns).String())
	require.True(t, BalanceFor("nobody", txns).IsZero())
}

func TestBalanceCanGoNegative(t *testing.T) {
	t.Parallel()

	txns := []model.Transaction{
		txn("t1", "c1", model.TxCredit, "100", day(2024, time.March, 1)),
		txn("t2", "c1", model.TxDebit, "250", day(2024, time.March, 2)),
	}
	require.Equal(t, "-150", BalanceFor("c1", txns).String())
}

func TestTotalBalanceMatchesPerCustomerSum(t *testing.T) {
	t.Parallel()

	txns := []model.Transaction{
		txn("t1", "a", model.TxCredit, "500.50", day(2024, time.January, 5)),
		txn("t2", "a", model.TxDebit, "200.25", day(2024, time.January, 6)),
		txn("t3", "b", model.TxDebit, "99.99", day(2024, time.January, 7)),
	}

	sum := BalanceFor("a", txns).Add(BalanceFor("b", txns))
	require.True(t, sum.Equal(TotalBalance(txns)))
}

func TestTotals(t *testing.T) {
	t.Parallel()

	txns := []model.Transaction{
		txn("t1", "a", model.TxCredit, "500", day(2024, time.January, 5)),
		txn("t2", "a", model.TxDebit, "200", day(2024, time.January, 6)),
		txn("t3", "b", model.TxCredit, "100", day(2024, time.January, 7)),
	}

	credit, debit := Totals(txns)
	require.Equal(t, "600", credit.String())
	require.Equal(t, "200", debit.String())
	require.True(t, credit.Sub(debit).Equal(TotalBalance(txns)))
}

func TestBalanceKeepsDecimalPrecision(t *testing.T) {
	t.Parallel()

	// classic float trap: 0.1 + 0.2
	txns := []model.Transaction{
		txn("t1", "c", model.TxCredit, "0.1", day(2024, time.May, 1)),
		txn("t2", "c", model.TxCredit, "0.2", day(2024, time.May, 2)),
	}
	require.Equal(t, "0.3", BalanceFor("c", txns).String())
	require.True(t, BalanceFor("c", txns).Equal(decimal.RequireFromString("0.3")))
}
