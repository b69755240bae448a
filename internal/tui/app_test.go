package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/khata-app/khata/internal/config"
	"github.com/khata-app/khata/internal/ledger"
	"github.com/khata-app/khata/internal/model"
	"github.com/khata-app/khata/internal/service"
	"github.com/khata-app/khata/internal/store"
)

func testApp(t *testing.T) *App {
	t.Helper()
	st := store.New()
	st.PutCustomer(model.Customer{ID: "c1", Name: "Asha", Phone: "9876543210",
		CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)})
	st.PutTransaction(model.Transaction{ID: "t1", CustomerID: "c1", Type: model.TxCredit,
		Amount:    decimal.RequireFromString("500"),
		CreatedAt: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)})

	return &App{
		ctx:  context.Background(),
		cfg:  config.Config{UI: config.UIConfig{CurrencySymbol: "₹", DateFormat: "02/01/2006"}},
		keys: newKeyMap(),
		loc:  time.UTC,
		ledger: &service.Ledger{
			Store: st,
		},
		screen: screenDashboard,
	}
}

func press(a *App, msg tea.KeyMsg) {
	m, _ := a.Update(msg)
	*a = *m.(*App)
}

func rune_(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestTabCyclesScreens(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	press(a, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, screenCustomers, a.screen)
	press(a, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, screenTransactions, a.screen)
	press(a, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, screenDashboard, a.screen)
}

func TestEnterOpensCustomerDetailAndEscReturns(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenCustomers

	press(a, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, screenCustomerDetail, a.screen)
	require.Equal(t, "c1", a.customerID)

	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, screenCustomers, a.screen)
	require.Empty(t, a.stack)
}

func TestEscClosesOverlayBeforeLeavingScreen(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenCustomers
	press(a, tea.KeyMsg{Type: tea.KeyEnter}) // open detail
	press(a, rune_("a"))                     // open add-transaction form
	require.Len(t, a.overlays, 1)

	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	require.Empty(t, a.overlays, "esc closes the overlay first")
	require.Equal(t, screenCustomerDetail, a.screen, "screen unchanged")

	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, screenCustomers, a.screen)
}

func TestEscAtRootAsksBeforeExit(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	require.Len(t, a.overlays, 1)
	require.Equal(t, overlayConfirm, a.overlays[0].kind)

	// declining keeps the app running
	press(a, rune_("n"))
	require.Empty(t, a.overlays)
}

func TestFilterKeyCyclesType(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenTransactions

	press(a, rune_("f"))
	require.Equal(t, ledger.TypeCredit, a.txnsQuery.Type)
	press(a, rune_("f"))
	require.Equal(t, ledger.TypeDebit, a.txnsQuery.Type)
	press(a, rune_("f"))
	require.Equal(t, ledger.TypeAll, a.txnsQuery.Type)
}

func TestSortPickerAppliesToActiveScreen(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenTransactions
	press(a, rune_("s"))
	require.Len(t, a.overlays, 1)
	require.Equal(t, overlaySortPicker, a.overlays[0].kind)

	press(a, tea.KeyMsg{Type: tea.KeyDown})
	press(a, tea.KeyMsg{Type: tea.KeyDown})
	press(a, tea.KeyMsg{Type: tea.KeyEnter})

	require.Empty(t, a.overlays)
	require.Equal(t, ledger.SortAmountDesc, a.txnsQuery.Sort)
}

func TestDateSearchOverlaySetsDayFilter(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenTransactions
	press(a, rune_("d"))
	require.Len(t, a.overlays, 1)

	for _, r := range "05/01/2024" {
		press(a, rune_(string(r)))
	}
	press(a, tea.KeyMsg{Type: tea.KeyEnter})

	require.Empty(t, a.overlays)
	require.Equal(t, 5, a.txnsQuery.Day.Day())
	require.Len(t, a.allTxns(), 1)
}

func TestSearchModeFiltersCustomers(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.ledger.Store.PutCustomer(model.Customer{ID: "c2", Name: "Priya",
		CreatedAt: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)})
	a.screen = screenCustomers

	press(a, rune_("/"))
	require.True(t, a.searching)
	for _, r := range "pri" {
		press(a, rune_(string(r)))
	}
	require.Len(t, a.visibleCustomers(), 1)
	require.Equal(t, "Priya", a.visibleCustomers()[0].Name)

	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, a.searching)
	require.Len(t, a.visibleCustomers(), 2)
}

func TestViewRendersWithoutSession(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	out := a.View()
	require.Contains(t, out, "Khata")
	require.Contains(t, out, "Balance")

	a.screen = screenCustomers
	require.Contains(t, a.View(), "Asha")
}

func TestAuthScreenRendersMaskedPassword(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenAuth
	a.authForm = newAuthForm(false)
	press(a, rune_("x")) // email field
	press(a, tea.KeyMsg{Type: tea.KeyTab})
	press(a, rune_("s"))
	press(a, rune_("s"))

	out := a.View()
	require.Contains(t, out, "**")
	require.NotContains(t, out, "ss")
}

func TestTransactionListDatesUseConfiguredZone(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	// instants come back from the gateway in UTC; late evening UTC on the
	// 19th is already the 20th in IST
	a.loc = time.FixedZone("IST", 5*3600+1800)
	a.ledger.Store.PutTransaction(model.Transaction{ID: "t2", CustomerID: "c1", Type: model.TxCredit,
		Amount:          decimal.RequireFromString("100"),
		TransactionDate: time.Date(2024, time.January, 19, 18, 30, 0, 0, time.UTC),
		CreatedAt:       time.Date(2024, time.January, 19, 18, 30, 0, 0, time.UTC)})
	a.screen = screenTransactions

	out := a.View()
	require.Contains(t, out, "20/01/2024")
	require.NotContains(t, out, "19/01/2024")
}

func TestSearchBackspaceRemovesWholeRunes(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	a.screen = screenCustomers
	press(a, rune_("/"))
	press(a, rune_("अ"))
	press(a, rune_("श"))
	press(a, tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "अ", a.searchTerm)
}

func TestRecycleBinCursorClampsWhenLastItemLeaves(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	tx := model.Transaction{ID: "x1", CustomerID: "c1", Type: model.TxCredit,
		Amount: decimal.RequireFromString("10")}
	d1 := model.DeletedItem{ID: "d1", Kind: model.DeletedTransaction, Transaction: &tx,
		DeletedAt: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)}
	d2 := model.DeletedItem{ID: "d2", Kind: model.DeletedTransaction, Transaction: &tx,
		DeletedAt: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
	a.ledger.Store.PutDeleted(d1)
	a.ledger.Store.PutDeleted(d2)

	press(a, rune_("b"))
	require.Equal(t, overlayRecycleBin, a.overlays[0].kind)
	press(a, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, a.overlays[0].cursor)

	// restoring the last row shrinks the list under the cursor
	m, _ := a.Update(restoreDoneMsg{result: service.RestoreResult{Item: d2, Done: true}})
	*a = *m.(*App)
	require.Len(t, a.ledger.Store.Deleted(), 1)
	require.Equal(t, 0, a.overlays[0].cursor)

	m, _ = a.Update(purgeDoneMsg{itemID: "d1"})
	*a = *m.(*App)
	require.Empty(t, a.ledger.Store.Deleted())
	require.Equal(t, 0, a.overlays[0].cursor)
}

func TestSavedMessagesUpdateMirrorInLoop(t *testing.T) {
	t.Parallel()

	a := testApp(t)
	c := model.Customer{ID: "c9", Name: "Meena",
		CreatedAt: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
	m, _ := a.Update(customerSavedMsg{customer: c, created: true})
	*a = *m.(*App)

	got, ok := a.ledger.Store.Customer("c9")
	require.True(t, ok)
	require.Equal(t, "Meena", got.Name)
	require.Equal(t, "Added Meena", a.status)
}
