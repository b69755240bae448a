package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	d, err := ParseAmount("250.50")
	require.NoError(t, err)
	require.Equal(t, "250.5", d.String())

	d, err = ParseAmount("  100 ")
	require.NoError(t, err)
	require.Equal(t, "100", d.String())
}

func TestParseAmountRejectsBadInput(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", "0", "-50", "abc", "1,000"} {
		_, err := ParseAmount(bad)
		require.Error(t, err, "input %q", bad)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "amount", verr.Field)
	}
}

func TestValidateCustomer(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateCustomer(Customer{Name: "Asha"}))
	require.Error(t, ValidateCustomer(Customer{Name: "   "}))
	require.Error(t, ValidateCustomer(Customer{Phone: "123"}))
}

func TestValidateTransaction(t *testing.T) {
	t.Parallel()

	ok := Transaction{
		CustomerID: "c1",
		Type:       TxCredit,
		Amount:     decimal.RequireFromString("10"),
	}
	require.NoError(t, ValidateTransaction(ok))

	noCustomer := ok
	noCustomer.CustomerID = ""
	require.Error(t, ValidateTransaction(noCustomer))

	badType := ok
	badType.Type = "refund"
	require.Error(t, ValidateTransaction(badType))

	zero := ok
	zero.Amount = decimal.Zero
	require.Error(t, ValidateTransaction(zero))
}

func TestValidateDateRange(t *testing.T) {
	t.Parallel()

	jan1 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ValidateDateRange(jan1, jan31))
	require.NoError(t, ValidateDateRange(jan1, jan1))
	require.Error(t, ValidateDateRange(jan31, jan1))
	require.Error(t, ValidateDateRange(time.Time{}, jan31))
}

func TestValidateSignUp(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSignUp("a@b.com", "secret1", "secret1"))
	require.Error(t, ValidateSignUp("", "secret1", "secret1"))
	require.Error(t, ValidateSignUp("a@b.com", "short", "short"))
	require.Error(t, ValidateSignUp("a@b.com", "secret1", "secret2"))
}

func TestParseTxType(t *testing.T) {
	t.Parallel()

	typ, err := ParseTxType("credit")
	require.NoError(t, err)
	require.Equal(t, TxCredit, typ)

	typ, err = ParseTxType("debit")
	require.NoError(t, err)
	require.Equal(t, TxDebit, typ)

	_, err = ParseTxType("transfer")
	require.Error(t, err)
}
