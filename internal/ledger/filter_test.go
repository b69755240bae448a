package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/khata-app/khata/internal/model"
)

func sample() []model.Transaction {
	return []model.Transaction{
		txn("t1", "asha", model.TxCredit, "500", day(2024, time.January, 5)),
		txn("t2", "asha", model.TxDebit, "200", day(2024, time.January, 20)),
		txn("t3", "asha", model.TxCredit, "300", day(2024, time.February, 1)),
		txn("t4", "ravi", model.TxDebit, "50", day(2024, time.January, 20)),
	}
}

func ids(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}

func TestApplyDefaultSortIsDateDesc(t *testing.T) {
	t.Parallel()

	got := Apply(sample(), Query{})
	require.Equal(t, []string{"t3", "t2", "t4", "t1"}, ids(got))
}

func TestApplyCustomerScope(t *testing.T) {
	t.Parallel()

	got := Apply(sample(), Query{CustomerID: "asha"})
	require.Equal(t, []string{"t3", "t2", "t1"}, ids(got))
}

func TestApplyTypeFilterPartitionsSet(t *testing.T) {
	t.Parallel()

	all := sample()
	credits := Apply(all, Query{Type: TypeCredit})
	debits := Apply(all, Query{Type: TypeDebit})

	require.Len(t, credits, 2)
	require.Len(t, debits, 2)
	require.Equal(t, len(all), len(credits)+len(debits))
	for _, tx := range credits {
		require.Equal(t, model.TxCredit, tx.Type)
	}
	for _, tx := range debits {
		require.Equal(t, model.TxDebit, tx.Type)
	}
}

func TestApplySingleDay(t *testing.T) {
	t.Parallel()

	got := Apply(sample(), Query{Day: day(2024, time.January, 20)})
	require.Equal(t, []string{"t2", "t4"}, ids(got))
}

func TestApplyDayIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	midnight := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	got := Apply(sample(), Query{Day: midnight})
	require.Len(t, got, 2)
}

func TestApplyRangeIsInclusive(t *testing.T) {
	t.Parallel()

	q := Query{
		Start: StartOfDay(day(2024, time.January, 5)),
		End:   EndOfDay(day(2024, time.January, 20)),
	}
	got := Apply(sample(), q)
	require.Equal(t, []string{"t2", "t4", "t1"}, ids(got))
}

func TestApplyDateSortsAreMirrors(t *testing.T) {
	t.Parallel()

	// unique effective dates only; ties are resolved by input order either way
	uniq := []model.Transaction{
		txn("t1", "asha", model.TxCredit, "500", day(2024, time.January, 5)),
		txn("t2", "asha", model.TxDebit, "200", day(2024, time.January, 20)),
		txn("t3", "asha", model.TxCredit, "300", day(2024, time.February, 1)),
	}
	desc := Apply(uniq, Query{Sort: SortDateDesc})
	asc := Apply(uniq, Query{Sort: SortDateAsc})
	require.Equal(t, len(desc), len(asc))
	for i := range desc {
		require.Equal(t, desc[i].ID, asc[len(asc)-1-i].ID)
	}
}

func TestApplyAmountSort(t *testing.T) {
	t.Parallel()

	got := Apply(sample(), Query{Sort: SortAmountDesc})
	require.Equal(t, []string{"t1", "t3", "t2", "t4"}, ids(got))

	got = Apply(sample(), Query{Sort: SortAmountAsc})
	require.Equal(t, []string{"t4", "t2", "t3", "t1"}, ids(got))
}

func TestApplyTypePresetsFilterAndSortByDate(t *testing.T) {
	t.Parallel()

	got := Apply(sample(), Query{Sort: SortTypeCredit})
	require.Equal(t, []string{"t3", "t1"}, ids(got))

	got = Apply(sample(), Query{Sort: SortTypeDebit})
	require.Equal(t, []string{"t2", "t4"}, ids(got))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := sample()
	_ = Apply(in, Query{Sort: SortAmountAsc})
	require.Equal(t, []string{"t1", "t2", "t3", "t4"}, ids(in))
}

func TestApplyUsesCreatedAtWhenDateMissing(t *testing.T) {
	t.Parallel()

	undated := txn("t9", "asha", model.TxCredit, "10", time.Time{})
	undated.CreatedAt = day(2024, time.March, 1)
	got := Apply(append(sample(), undated), Query{})
	require.Equal(t, "t9", got[0].ID)
}

func TestEndOfDayBoundary(t *testing.T) {
	t.Parallel()

	end := EndOfDay(day(2024, time.January, 20))
	lastMoment := time.Date(2024, time.January, 20, 23, 59, 59, 999999999, time.UTC)
	require.Equal(t, lastMoment, end)
	require.True(t, StartOfDay(day(2024, time.January, 21)).After(end))
}

func TestApplyDayFilterSurvivesStorageRoundTrip(t *testing.T) {
	t.Parallel()

	// the user entered 20/01/2024 in IST; the gateway hands the instant
	// back in UTC, where it is still the 19th
	ist := time.FixedZone("IST", 5*3600+1800)
	entered := time.Date(2024, time.January, 20, 0, 0, 0, 0, ist)
	tx := txn("t1", "asha", model.TxCredit, "500", entered)

	before := Apply([]model.Transaction{tx}, Query{Day: entered})
	require.Len(t, before, 1)

	reloaded, err := model.TransactionFromDoc("t1", model.TransactionDoc(tx))
	require.NoError(t, err)
	require.Equal(t, time.UTC, reloaded.TransactionDate.Location())

	after := Apply([]model.Transaction{reloaded}, Query{Day: entered})
	require.Len(t, after, 1, "same instant, same calendar day in the query zone")

	dayBefore := time.Date(2024, time.January, 19, 0, 0, 0, 0, ist)
	require.Empty(t, Apply([]model.Transaction{reloaded}, Query{Day: dayBefore}))
}
