package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/khata-app/khata/internal/config"
	"github.com/khata-app/khata/internal/gateway"
	"github.com/khata-app/khata/internal/ledger"
	"github.com/khata-app/khata/internal/model"
	"github.com/khata-app/khata/internal/notify"
	"github.com/khata-app/khata/internal/service"
)

type screen string

const (
	screenAuth           screen = "auth"
	screenDashboard      screen = "dashboard"
	screenCustomers      screen = "customers"
	screenCustomerDetail screen = "customer_detail"
	screenTransactions   screen = "transactions"
)

type overlayKind string

const (
	overlayAddCustomer  overlayKind = "add_customer"
	overlayEditCustomer overlayKind = "edit_customer"
	overlayAddTxn       overlayKind = "add_txn"
	overlayEditTxn      overlayKind = "edit_txn"
	overlayTxnDetail    overlayKind = "txn_detail"
	overlaySortPicker   overlayKind = "sort_picker"
	overlayDateSearch   overlayKind = "date_search"
	overlayDateRange    overlayKind = "date_range"
	overlayReport       overlayKind = "report"
	overlayRecycleBin   overlayKind = "recycle_bin"
	overlayProfile      overlayKind = "profile"
	overlayConfirm      overlayKind = "confirm"
)

type overlay struct {
	kind    overlayKind
	form    *form
	cursor  int
	txnID   string
	report  *ledger.Report
	confirm *confirmSpec
}

type confirmSpec struct {
	prompt string
	accept func() tea.Cmd
}

// App is the bubbletea model for the whole program.
type App struct {
	ctx       context.Context
	cfg       config.Config
	keys      keyMap
	auth      gateway.Auth
	newLedger func(*gateway.Session) (*service.Ledger, error)
	ledger    *service.Ledger
	session   *gateway.Session
	sms       notify.SMS
	share     notify.Share
	loc       *time.Location

	screen   screen
	stack    []screen // screens beneath the current one
	overlays []overlay

	authForm *form
	signup   bool

	customerID  string // selection on the detail screen
	cursor      int
	searching   bool
	searchTerm  string
	detailQuery ledger.Query
	txnsQuery   ledger.Query

	status  string
	errText string
	loading bool
	width   int
	height  int
}

// New wires the model. newLedger builds a per-user service once a
// session exists; persistence is scoped to the signed-in user.
func New(ctx context.Context, cfg config.Config, auth gateway.Auth, newLedger func(*gateway.Session) (*service.Ledger, error)) *App {
	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		loc = time.Local
	}
	return &App{
		ctx:       ctx,
		cfg:       cfg,
		keys:      newKeyMap(),
		auth:      auth,
		newLedger: newLedger,
		sms:       notify.SMS{AppName: "Khata", Currency: cfg.UI.CurrencySymbol},
		share:     notify.Share{Dir: cfg.UI.ExportDir},
		loc:       loc,
		screen:    screenAuth,
		authForm:  newAuthForm(false),
	}
}

func (a *App) Init() tea.Cmd {
	if s := a.auth.Current(); s != nil {
		return a.startSession(s)
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// a gateway result that lands after sign-out has nothing to apply to
	if a.ledger == nil {
		switch msg.(type) {
		case dataLoadedMsg, customerSavedMsg, transactionSavedMsg,
			deleteDoneMsg, restoreDoneMsg, purgeDoneMsg:
			return a, nil
		}
	}

	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil

	case sessionMsg:
		return a, a.startSession(m.session)

	case dataLoadedMsg:
		a.ledger.ApplySnapshot(m.snap)
		a.loading = false
		a.screen = screenDashboard
		a.stack = nil
		return a, nil

	case customerSavedMsg:
		a.ledger.ApplyCustomer(m.customer)
		a.popForm()
		if m.created {
			a.status = "Added " + m.customer.Name
		} else {
			a.status = "Updated " + m.customer.Name
		}
		return a, nil

	case transactionSavedMsg:
		a.ledger.ApplyTransaction(m.txn)
		a.popForm()
		a.status = "Saved transaction"
		if m.smsErr != nil {
			a.status = "Saved transaction (SMS failed)"
		}
		return a, nil

	case deleteDoneMsg:
		a.ledger.ApplyDelete(m.result)
		a.popOverlay(overlayTxnDetail)
		if m.err != nil {
			a.errText = m.err.Error()
		} else {
			a.status = "Moved to recycle bin: " + m.result.Item.Title()
		}
		a.clampCursor()
		return a, nil

	case restoreDoneMsg:
		a.ledger.ApplyRestore(m.result)
		if m.err != nil {
			var partial *service.PartialRestoreError
			if errors.As(m.err, &partial) {
				a.errText = "restore incomplete, press r again to retry: " + partial.Cause.Error()
			} else {
				a.errText = m.err.Error()
			}
		} else {
			a.status = "Restored"
		}
		a.clampBinCursor()
		return a, nil

	case purgeDoneMsg:
		a.ledger.ApplyPurge(m.itemID)
		a.status = "Deleted permanently"
		a.clampBinCursor()
		return a, nil

	case reportReadyMsg:
		r := m.report
		a.overlays = append(a.overlays, overlay{kind: overlayReport, report: &r})
		return a, nil

	case shareDoneMsg:
		if m.err != nil {
			a.errText = m.err.Error()
		} else {
			a.status = "Report saved to " + m.path
		}
		return a, nil

	case signedOutMsg:
		a.session = nil
		a.ledger = nil
		a.screen = screenAuth
		a.stack = nil
		a.overlays = nil
		a.authForm = newAuthForm(false)
		a.signup = false
		a.status = ""
		return a, nil

	case errMsg:
		a.loading = false
		a.errText = m.Error()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) startSession(s *gateway.Session) tea.Cmd {
	svc, err := a.newLedger(s)
	if err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	a.session = s
	a.ledger = svc
	a.loading = true
	a.errText = ""
	return a.loadCmd()
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(m, a.keys.Quit) {
		return a, tea.Quit
	}
	a.errText = ""

	if len(a.overlays) > 0 {
		return a.handleOverlayKey(m)
	}
	if a.screen == screenAuth {
		return a.handleAuthKey(m)
	}
	if a.searching {
		return a.handleSearchKey(m)
	}

	switch {
	case key.Matches(m, a.keys.Back):
		if n := len(a.stack); n > 0 {
			a.screen = a.stack[n-1]
			a.stack = a.stack[:n-1]
			a.cursor = 0
			return a, nil
		}
		a.pushConfirm("Exit Khata?", func() tea.Cmd { return tea.Quit })
		return a, nil

	case key.Matches(m, a.keys.Tab):
		a.cycleTab()
		return a, nil

	case key.Matches(m, a.keys.Bin):
		a.overlays = append(a.overlays, overlay{kind: overlayRecycleBin})
		return a, nil

	case key.Matches(m, a.keys.Profile):
		a.overlays = append(a.overlays, overlay{kind: overlayProfile})
		return a, nil
	}

	switch a.screen {
	case screenDashboard:
		return a.handleDashboardKey(m)
	case screenCustomers:
		return a.handleCustomersKey(m)
	case screenCustomerDetail:
		return a.handleDetailKey(m)
	case screenTransactions:
		return a.handleTransactionsKey(m)
	}
	return a, nil
}

func (a *App) cycleTab() {
	a.stack = nil
	a.cursor = 0
	a.searching = false
	a.searchTerm = ""
	switch a.screen {
	case screenDashboard:
		a.screen = screenCustomers
	case screenCustomers:
		a.screen = screenTransactions
	default:
		a.screen = screenDashboard
	}
}

func (a *App) handleAuthKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEnter:
		return a, a.submitAuthCmd()
	case tea.KeyEsc:
		a.pushConfirm("Exit Khata?", func() tea.Cmd { return tea.Quit })
		return a, nil
	}
	if m.Type == tea.KeyCtrlS {
		a.signup = !a.signup
		a.authForm = newAuthForm(a.signup)
		return a, nil
	}
	a.authForm.handleKey(m)
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searching = false
		a.searchTerm = ""
		a.cursor = 0
		return a, nil
	case tea.KeyEnter:
		a.searching = false
		return a, nil
	case tea.KeyBackspace, tea.KeyCtrlH:
		if r := []rune(a.searchTerm); len(r) > 0 {
			a.searchTerm = string(r[:len(r)-1])
		}
		a.cursor = 0
		return a, nil
	case tea.KeySpace:
		a.searchTerm += " "
		return a, nil
	case tea.KeyRunes:
		a.searchTerm += string(m.Runes)
		a.cursor = 0
		return a, nil
	}
	return a, nil
}

func (a *App) handleDashboardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Add):
		a.overlays = append(a.overlays, overlay{kind: overlayAddCustomer, form: newCustomerForm(nil)})
	}
	return a, nil
}

func (a *App) handleCustomersKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := a.visibleCustomers()
	switch {
	case key.Matches(m, a.keys.Add):
		a.overlays = append(a.overlays, overlay{kind: overlayAddCustomer, form: newCustomerForm(nil)})
	case key.Matches(m, a.keys.Search):
		a.searching = true
		a.searchTerm = ""
		a.cursor = 0
	case key.Matches(m, a.keys.Edit):
		if a.cursor < len(list) {
			c := list[a.cursor]
			a.overlays = append(a.overlays, overlay{kind: overlayEditCustomer, form: newCustomerForm(&c)})
		}
	case key.Matches(m, a.keys.Delete):
		if a.cursor < len(list) {
			c := list[a.cursor]
			a.pushConfirm("Delete "+c.Name+" and all their transactions?", func() tea.Cmd {
				return a.deleteCustomerCmd(c)
			})
		}
	case key.Matches(m, a.keys.Enter):
		if a.cursor < len(list) {
			a.customerID = list[a.cursor].ID
			a.detailQuery = ledger.Query{CustomerID: a.customerID}
			a.stack = append(a.stack, a.screen)
			a.screen = screenCustomerDetail
			a.cursor = 0
		}
	case m.Type == tea.KeyUp:
		a.moveCursor(-1, len(list))
	case m.Type == tea.KeyDown:
		a.moveCursor(1, len(list))
	}
	return a, nil
}

func (a *App) handleDetailKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	txns := a.detailTxns()
	switch {
	case key.Matches(m, a.keys.Add):
		a.overlays = append(a.overlays, overlay{kind: overlayAddTxn, form: newTransactionForm(nil, a.cfg.UI.DateFormat, a.loc)})
	case key.Matches(m, a.keys.Edit):
		if c, ok := a.ledger.Store.Customer(a.customerID); ok {
			a.overlays = append(a.overlays, overlay{kind: overlayEditCustomer, form: newCustomerForm(&c)})
		}
	case key.Matches(m, a.keys.Report):
		return a, a.reportCmd(a.customerID)
	case key.Matches(m, a.keys.Sort):
		a.overlays = append(a.overlays, overlay{kind: overlaySortPicker})
	case key.Matches(m, a.keys.Filter):
		a.detailQuery.Type = nextTypeFilter(a.detailQuery.Type)
		a.cursor = 0
	case key.Matches(m, a.keys.DateKey):
		a.overlays = append(a.overlays, overlay{kind: overlayDateSearch, form: newDateSearchForm()})
	case key.Matches(m, a.keys.Enter):
		if a.cursor < len(txns) {
			a.overlays = append(a.overlays, overlay{kind: overlayTxnDetail, txnID: txns[a.cursor].ID})
		}
	case m.Type == tea.KeyUp:
		a.moveCursor(-1, len(txns))
	case m.Type == tea.KeyDown:
		a.moveCursor(1, len(txns))
	}
	return a, nil
}

func (a *App) handleTransactionsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	txns := a.allTxns()
	switch {
	case key.Matches(m, a.keys.Sort):
		a.overlays = append(a.overlays, overlay{kind: overlaySortPicker})
	case key.Matches(m, a.keys.Filter):
		a.txnsQuery.Type = nextTypeFilter(a.txnsQuery.Type)
		a.cursor = 0
	case key.Matches(m, a.keys.DateKey):
		a.overlays = append(a.overlays, overlay{kind: overlayDateSearch, form: newDateSearchForm()})
	case key.Matches(m, a.keys.Enter):
		if a.cursor < len(txns) {
			a.overlays = append(a.overlays, overlay{kind: overlayTxnDetail, txnID: txns[a.cursor].ID})
		}
	case m.Type == tea.KeyUp:
		a.moveCursor(-1, len(txns))
	case m.Type == tea.KeyDown:
		a.moveCursor(1, len(txns))
	}
	return a, nil
}

func (a *App) handleOverlayKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	top := &a.overlays[len(a.overlays)-1]

	if m.Type == tea.KeyEsc {
		a.overlays = a.overlays[:len(a.overlays)-1]
		return a, nil
	}

	switch top.kind {
	case overlayConfirm:
		switch {
		case m.Type == tea.KeyEnter, m.Type == tea.KeyRunes && string(m.Runes) == "y":
			accept := top.confirm.accept
			a.overlays = a.overlays[:len(a.overlays)-1]
			return a, accept()
		case m.Type == tea.KeyRunes && string(m.Runes) == "n":
			a.overlays = a.overlays[:len(a.overlays)-1]
		}
		return a, nil

	case overlayAddCustomer, overlayEditCustomer:
		if m.Type == tea.KeyEnter {
			return a, a.saveCustomerCmd(top.form)
		}
		top.form.handleKey(m)
		return a, nil

	case overlayAddTxn, overlayEditTxn:
		if m.Type == tea.KeyLeft || m.Type == tea.KeyRight {
			if top.form.txType == model.TxCredit {
				top.form.txType = model.TxDebit
			} else {
				top.form.txType = model.TxCredit
			}
			return a, nil
		}
		if m.Type == tea.KeyEnter {
			return a, a.saveTransactionCmd(top.form)
		}
		top.form.handleKey(m)
		return a, nil

	case overlayTxnDetail:
		switch {
		case key.Matches(m, a.keys.Edit):
			if t, ok := a.ledger.Store.Transaction(top.txnID); ok {
				a.overlays = append(a.overlays, overlay{kind: overlayEditTxn, form: newTransactionForm(&t, a.cfg.UI.DateFormat, a.loc)})
			}
		case key.Matches(m, a.keys.Delete):
			if t, ok := a.ledger.Store.Transaction(top.txnID); ok {
				a.pushConfirm("Delete this transaction?", func() tea.Cmd {
					return a.deleteTransactionCmd(t)
				})
			}
		}
		return a, nil

	case overlaySortPicker:
		opts := sortOptions()
		switch m.Type {
		case tea.KeyUp:
			if top.cursor > 0 {
				top.cursor--
			}
		case tea.KeyDown:
			if top.cursor < len(opts) {
				top.cursor++
			}
		case tea.KeyEnter:
			if top.cursor == len(opts) {
				// last row opens the custom date range form
				a.overlays = a.overlays[:len(a.overlays)-1]
				a.overlays = append(a.overlays, overlay{kind: overlayDateRange, form: newDateRangeForm()})
				return a, nil
			}
			a.setSort(opts[top.cursor])
			a.overlays = a.overlays[:len(a.overlays)-1]
			a.cursor = 0
		}
		return a, nil

	case overlayDateSearch:
		if m.Type == tea.KeyEnter {
			day, ok := parseDate(top.form.value("Date"), a.cfg.UI.DateFormat, a.loc)
			if !ok {
				a.errText = "enter a date as " + a.cfg.UI.DateFormat
				return a, nil
			}
			q := a.activeQuery()
			q.Day = day
			q.Start, q.End = time.Time{}, time.Time{}
			a.overlays = a.overlays[:len(a.overlays)-1]
			a.cursor = 0
		} else {
			top.form.handleKey(m)
		}
		return a, nil

	case overlayDateRange:
		if m.Type == tea.KeyEnter {
			start, ok1 := parseDate(top.form.value("Start"), a.cfg.UI.DateFormat, a.loc)
			end, ok2 := parseDate(top.form.value("End"), a.cfg.UI.DateFormat, a.loc)
			if !ok1 || !ok2 {
				a.errText = "enter both dates as " + a.cfg.UI.DateFormat
				return a, nil
			}
			if err := model.ValidateDateRange(start, end); err != nil {
				a.errText = err.Error()
				return a, nil
			}
			q := a.activeQuery()
			q.Start, q.End = ledger.StartOfDay(start), ledger.EndOfDay(end)
			q.Day = time.Time{}
			a.overlays = a.overlays[:len(a.overlays)-1]
			a.cursor = 0
		} else {
			top.form.handleKey(m)
		}
		return a, nil

	case overlayReport:
		if key.Matches(m, a.keys.Sort) { // s shares from the report view
			return a, a.shareReportCmd(*top.report)
		}
		return a, nil

	case overlayRecycleBin:
		items := a.ledger.Store.Deleted()
		switch {
		case m.Type == tea.KeyUp:
			if top.cursor > 0 {
				top.cursor--
			}
		case m.Type == tea.KeyDown:
			if top.cursor < len(items)-1 {
				top.cursor++
			}
		case key.Matches(m, a.keys.Report): // r restores
			if top.cursor < len(items) {
				return a, a.restoreCmd(items[top.cursor])
			}
		case key.Matches(m, a.keys.Delete):
			if top.cursor < len(items) {
				id := items[top.cursor].ID
				a.pushConfirm("Delete permanently? This cannot be undone.", func() tea.Cmd {
					return a.purgeCmd(id)
				})
			}
		}
		return a, nil

	case overlayProfile:
		if key.Matches(m, a.keys.Sort) { // s signs out
			a.pushConfirm("Sign out?", func() tea.Cmd { return a.signOutCmd() })
		}
		return a, nil
	}
	return a, nil
}

func (a *App) setSort(order ledger.SortOrder) {
	q := a.activeQuery()
	q.Sort = order
}

// activeQuery returns the filter state of the screen the user is on.
func (a *App) activeQuery() *ledger.Query {
	if a.screen == screenCustomerDetail {
		return &a.detailQuery
	}
	return &a.txnsQuery
}

func (a *App) pushConfirm(prompt string, accept func() tea.Cmd) {
	a.overlays = append(a.overlays, overlay{kind: overlayConfirm, confirm: &confirmSpec{prompt: prompt, accept: accept}})
}

// popForm closes the topmost overlay when it is a form modal.
func (a *App) popForm() {
	if n := len(a.overlays); n > 0 && a.overlays[n-1].form != nil {
		a.overlays = a.overlays[:n-1]
	}
}

// popOverlay closes the topmost overlay when it has the given kind.
func (a *App) popOverlay(kind overlayKind) {
	if n := len(a.overlays); n > 0 && a.overlays[n-1].kind == kind {
		a.overlays = a.overlays[:n-1]
	}
}

func (a *App) moveCursor(delta, n int) {
	a.cursor += delta
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.cursor >= n && n > 0 {
		a.cursor = n - 1
	}
}

// clampBinCursor keeps the recycle-bin selection in range after an item
// leaves the list.
func (a *App) clampBinCursor() {
	n := len(a.overlays)
	if n == 0 || a.overlays[n-1].kind != overlayRecycleBin {
		return
	}
	top := &a.overlays[n-1]
	if count := len(a.ledger.Store.Deleted()); top.cursor >= count {
		top.cursor = count - 1
	}
	if top.cursor < 0 {
		top.cursor = 0
	}
}

func (a *App) clampCursor() {
	var n int
	switch a.screen {
	case screenCustomers:
		n = len(a.visibleCustomers())
	case screenCustomerDetail:
		n = len(a.detailTxns())
	case screenTransactions:
		n = len(a.allTxns())
	default:
		return
	}
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) visibleCustomers() []model.Customer {
	if a.ledger == nil {
		return nil
	}
	if a.searchTerm != "" {
		return a.ledger.SearchCustomers(a.searchTerm)
	}
	return a.ledger.Store.Customers()
}

func (a *App) detailTxns() []model.Transaction {
	if a.ledger == nil {
		return nil
	}
	return ledger.Apply(a.ledger.Store.Transactions(), a.detailQuery)
}

func (a *App) allTxns() []model.Transaction {
	if a.ledger == nil {
		return nil
	}
	return ledger.Apply(a.ledger.Store.Transactions(), a.txnsQuery)
}

func nextTypeFilter(f ledger.TypeFilter) ledger.TypeFilter {
	switch f {
	case ledger.TypeCredit:
		return ledger.TypeDebit
	case ledger.TypeDebit:
		return ledger.TypeAll
	default:
		return ledger.TypeCredit
	}
}

func sortOptions() []ledger.SortOrder {
	return []ledger.SortOrder{
		ledger.SortDateDesc,
		ledger.SortDateAsc,
		ledger.SortAmountDesc,
		ledger.SortAmountAsc,
		ledger.SortTypeCredit,
		ledger.SortTypeDebit,
	}
}
