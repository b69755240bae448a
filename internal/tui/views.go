package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khata-app/khata/internal/ledger"
	"github.com/khata-app/khata/internal/model"
)

func (a *App) View() string {
	var b strings.Builder

	if a.screen == screenAuth {
		out := a.renderAuth()
		if len(a.overlays) > 0 {
			out += "\n" + a.renderOverlay()
		}
		return out
	}

	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")

	if a.loading {
		b.WriteString("Loading...\n")
	} else {
		switch a.screen {
		case screenDashboard:
			b.WriteString(a.renderDashboard())
		case screenCustomers:
			b.WriteString(a.renderCustomers())
		case screenCustomerDetail:
			b.WriteString(a.renderCustomerDetail())
		case screenTransactions:
			b.WriteString(a.renderTransactions())
		}
	}

	if len(a.overlays) > 0 {
		b.WriteString("\n")
		b.WriteString(a.renderOverlay())
	}

	b.WriteString("\n")
	if a.errText != "" {
		b.WriteString(errorStyle.Render(a.errText))
		b.WriteString("\n")
	} else if a.status != "" {
		b.WriteString(faintStyle.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(faintStyle.Render(a.hints()))
	return b.String()
}

func (a *App) renderTabs() string {
	tabs := []struct {
		s     screen
		label string
	}{
		{screenDashboard, "Dashboard"},
		{screenCustomers, "Customers"},
		{screenTransactions, "Transactions"},
	}
	parts := make([]string, 0, len(tabs))
	active := a.screen
	if active == screenCustomerDetail {
		active = screenCustomers
	}
	for _, t := range tabs {
		if t.s == active {
			parts = append(parts, tabActive.Render(t.label))
		} else {
			parts = append(parts, tabStyle.Render(t.label))
		}
	}
	return titleStyle.Render("Khata") + "  " + strings.Join(parts, " ")
}

func (a *App) renderAuth() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Khata"))
	b.WriteString("\n\n")
	b.WriteString(a.renderForm(a.authForm))
	b.WriteString("\n")
	if a.errText != "" {
		b.WriteString(errorStyle.Render(a.errText))
		b.WriteString("\n")
	}
	if a.signup {
		b.WriteString(faintStyle.Render("enter: create account · ctrl+s: back to login · ctrl+c: quit"))
	} else {
		b.WriteString(faintStyle.Render("enter: sign in · ctrl+s: sign up · ctrl+c: quit"))
	}
	return b.String()
}

func (a *App) renderDashboard() string {
	txns := a.ledger.Store.Transactions()
	credit, debit := ledger.Totals(txns)
	balance := ledger.TotalBalance(txns)

	cards := []string{
		summaryCard.Render(fmt.Sprintf("Balance\n%s", a.money(balance))),
		summaryCard.Render(fmt.Sprintf("Received\n%s", creditStyle.Render(a.money(credit)))),
		summaryCard.Render(fmt.Sprintf("Given\n%s", debitStyle.Render(a.money(debit)))),
		summaryCard.Render(fmt.Sprintf("Customers\n%d", len(a.ledger.Store.Customers()))),
	}

	var b strings.Builder
	b.WriteString(joinCards(cards))
	b.WriteString("\n\n")
	b.WriteString("Recent customers\n")
	customers := a.ledger.Store.Customers()
	if len(customers) > 5 {
		customers = customers[:5]
	}
	for _, c := range customers {
		b.WriteString(fmt.Sprintf("  %-24s %12s\n", truncate(c.Name, 24), a.money(ledger.BalanceFor(c.ID, txns))))
	}
	b.WriteString("\n")
	b.WriteString("Recent transactions\n")
	recent := ledger.Apply(txns, ledger.Query{})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	if len(recent) == 0 {
		b.WriteString(faintStyle.Render("  nothing yet, add a customer to get started"))
		b.WriteString("\n")
	}
	for _, t := range recent {
		b.WriteString("  " + a.txnLine(t, true) + "\n")
	}
	return b.String()
}

// joinCards lays side-by-side bordered cards line by line.
func joinCards(cards []string) string {
	split := make([][]string, len(cards))
	rows := 0
	for i, c := range cards {
		split[i] = strings.Split(c, "\n")
		if len(split[i]) > rows {
			rows = len(split[i])
		}
	}
	var b strings.Builder
	for r := 0; r < rows; r++ {
		for i := range split {
			if r < len(split[i]) {
				b.WriteString(split[i][r])
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderCustomers() string {
	var b strings.Builder
	if a.searching || a.searchTerm != "" {
		b.WriteString("Search: " + a.searchTerm)
		if a.searching {
			b.WriteString("_")
		}
		b.WriteString("\n\n")
	}
	list := a.visibleCustomers()
	if len(list) == 0 {
		b.WriteString(faintStyle.Render("no customers"))
		b.WriteString("\n")
		return b.String()
	}
	txns := a.ledger.Store.Transactions()
	for i, c := range list {
		cursor := "  "
		if i == a.cursor {
			cursor = cursorStyle.Render("> ")
		}
		balance := ledger.BalanceFor(c.ID, txns)
		line := fmt.Sprintf("%s%-24s %12s", cursor, truncate(c.Name, 24), a.money(balance))
		if c.Phone != "" {
			line += faintStyle.Render("  " + c.Phone)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (a *App) renderCustomerDetail() string {
	c, ok := a.ledger.Store.Customer(a.customerID)
	if !ok {
		return faintStyle.Render("customer no longer exists, press esc")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Name))
	if c.Phone != "" {
		b.WriteString(faintStyle.Render("  " + c.Phone))
	}
	balance := ledger.BalanceFor(c.ID, a.ledger.Store.Transactions())
	b.WriteString(fmt.Sprintf("\nBalance: %s\n", a.money(balance)))
	b.WriteString(a.queryLine(a.detailQuery))
	b.WriteString("\n")

	txns := a.detailTxns()
	if len(txns) == 0 {
		b.WriteString(faintStyle.Render("no transactions"))
		b.WriteString("\n")
		return b.String()
	}
	for i, t := range txns {
		cursor := "  "
		if i == a.cursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor + a.txnLine(t, false) + "\n")
	}
	return b.String()
}

func (a *App) renderTransactions() string {
	var b strings.Builder
	b.WriteString(a.queryLine(a.txnsQuery))
	b.WriteString("\n")
	txns := a.allTxns()
	if len(txns) == 0 {
		b.WriteString(faintStyle.Render("no transactions"))
		b.WriteString("\n")
		return b.String()
	}
	for i, t := range txns {
		cursor := "  "
		if i == a.cursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor + a.txnLine(t, true) + "\n")
	}
	return b.String()
}

func (a *App) queryLine(q ledger.Query) string {
	parts := []string{"Sort: " + ledger.SortLabel(q.Sort)}
	switch q.Type {
	case ledger.TypeCredit:
		parts = append(parts, "Type: received")
	case ledger.TypeDebit:
		parts = append(parts, "Type: given")
	}
	if !q.Day.IsZero() {
		parts = append(parts, "Date: "+q.Day.Format(a.cfg.UI.DateFormat))
	}
	if !q.Start.IsZero() && !q.End.IsZero() {
		parts = append(parts, fmt.Sprintf("Range: %s to %s",
			q.Start.Format(a.cfg.UI.DateFormat), q.End.Format(a.cfg.UI.DateFormat)))
	}
	return faintStyle.Render(strings.Join(parts, " · "))
}

func (a *App) txnLine(t model.Transaction, withCustomer bool) string {
	amount := a.money(t.Amount)
	if t.Type == model.TxCredit {
		amount = creditStyle.Render("+" + amount)
	} else {
		amount = debitStyle.Render("-" + amount)
	}
	line := fmt.Sprintf("%s  %12s  %s",
		t.EffectiveDate().In(a.loc).Format(a.cfg.UI.DateFormat), amount, truncate(t.DisplayDescription(), 32))
	if withCustomer {
		if c, ok := a.ledger.Store.Customer(t.CustomerID); ok {
			line += faintStyle.Render("  " + truncate(c.Name, 18))
		}
	}
	return line
}

func (a *App) renderOverlay() string {
	top := a.overlays[len(a.overlays)-1]
	switch top.kind {
	case overlayAddCustomer, overlayEditCustomer, overlayAddTxn, overlayEditTxn,
		overlayDateSearch, overlayDateRange:
		return overlayBox.Render(a.renderFormOverlay(top))
	case overlayConfirm:
		return overlayBox.Render(top.confirm.prompt + "\n\n" + faintStyle.Render("enter/y: yes · n/esc: no"))
	case overlayTxnDetail:
		return overlayBox.Render(a.renderTxnDetail(top.txnID))
	case overlaySortPicker:
		return overlayBox.Render(a.renderSortPicker(top.cursor))
	case overlayReport:
		return overlayBox.Render(top.report.Render(a.cfg.UI.CurrencySymbol) + "\n" + faintStyle.Render("s: save & open · esc: close"))
	case overlayRecycleBin:
		return overlayBox.Render(a.renderRecycleBin(top.cursor))
	case overlayProfile:
		return overlayBox.Render(a.renderProfile())
	}
	return ""
}

func (a *App) renderFormOverlay(top overlay) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(top.form.title))
	b.WriteString("\n\n")
	if top.kind == overlayAddTxn || top.kind == overlayEditTxn {
		received, given := "Received", "Given"
		if top.form.txType == model.TxCredit {
			received = creditStyle.Render("[Received]")
			given = faintStyle.Render(" Given ")
		} else {
			received = faintStyle.Render(" Received ")
			given = debitStyle.Render("[Given]")
		}
		b.WriteString(received + " " + given + faintStyle.Render("  (left/right)"))
		b.WriteString("\n\n")
	}
	b.WriteString(a.renderForm(top.form))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("enter: save · esc: cancel"))
	return b.String()
}

func (a *App) renderForm(f *form) string {
	var b strings.Builder
	for i, fld := range f.fields {
		label := fld.label
		value := fld.value
		if fld.secret {
			value = strings.Repeat("*", len(value))
		}
		if i == f.focus {
			b.WriteString(focusedField.Render(fmt.Sprintf("%-18s %s_", label+":", value)))
		} else {
			b.WriteString(blurredField.Render(fmt.Sprintf("%-18s %s", label+":", value)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderTxnDetail(id string) string {
	t, ok := a.ledger.Store.Transaction(id)
	if !ok {
		return "transaction no longer exists"
	}
	kind := "Received"
	if t.Type == model.TxDebit {
		kind = "Given"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Transaction"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%-12s %s\n", "Type:", kind)
	fmt.Fprintf(&b, "%-12s %s\n", "Amount:", a.money(t.Amount))
	fmt.Fprintf(&b, "%-12s %s\n", "Description:", t.DisplayDescription())
	fmt.Fprintf(&b, "%-12s %s\n", "Date:", t.EffectiveDate().In(a.loc).Format(a.cfg.UI.DateFormat))
	if c, ok := a.ledger.Store.Customer(t.CustomerID); ok {
		fmt.Fprintf(&b, "%-12s %s\n", "Customer:", c.Name)
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("e: edit · x: delete · esc: close"))
	return b.String()
}

func (a *App) renderSortPicker(cursor int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sort & Filter"))
	b.WriteString("\n\n")
	opts := sortOptions()
	for i, o := range opts {
		marker := "  "
		if i == cursor {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(marker + ledger.SortLabel(o) + "\n")
	}
	marker := "  "
	if cursor == len(opts) {
		marker = cursorStyle.Render("> ")
	}
	b.WriteString(marker + "Custom date range...\n")
	return b.String()
}

func (a *App) renderRecycleBin(cursor int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recycle Bin"))
	b.WriteString("\n\n")
	items := a.ledger.Store.Deleted()
	if len(items) == 0 {
		b.WriteString(faintStyle.Render("empty"))
		b.WriteString("\n")
	}
	for i, item := range items {
		marker := "  "
		if i == cursor {
			marker = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%-32s %s", marker, truncate(item.Title(), 32),
			faintStyle.Render(item.DeletedAt.In(a.loc).Format(a.cfg.UI.DateFormat)))
		if item.Kind == model.DeletedCustomer {
			line += faintStyle.Render(fmt.Sprintf("  (+%d txns)", len(item.RelatedTransactions)))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("r: restore · x: delete forever · esc: close"))
	return b.String()
}

func (a *App) renderProfile() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Profile"))
	b.WriteString("\n\n")
	if a.session != nil {
		fmt.Fprintf(&b, "%-14s %s\n", "Email:", a.session.Email)
		if !a.session.CreatedAt.IsZero() {
			fmt.Fprintf(&b, "%-14s %s\n", "Member since:", a.session.CreatedAt.In(a.loc).Format(a.cfg.UI.DateFormat))
		}
		if !a.session.LastSignInAt.IsZero() {
			fmt.Fprintf(&b, "%-14s %s\n", "Last sign in:", a.session.LastSignInAt.In(a.loc).Format(a.cfg.UI.DateFormat))
		}
	}
	fmt.Fprintf(&b, "%-14s %s\n", "Backend:", a.cfg.Backend.Mode)
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("s: sign out · esc: close"))
	return b.String()
}

func (a *App) hints() string {
	if len(a.overlays) > 0 {
		return ""
	}
	switch a.screen {
	case screenCustomers:
		return "a: add · e: edit · x: delete · /: search · enter: open · b: bin · p: profile · tab: switch"
	case screenCustomerDetail:
		return "a: add txn · e: edit customer · r: report · s: sort · f: filter · d: date · esc: back"
	case screenTransactions:
		return "s: sort · f: filter · d: date · enter: detail · b: bin · tab: switch"
	default:
		return "a: add customer · b: bin · p: profile · tab: switch · esc: exit"
	}
}

func (a *App) money(d decimal.Decimal) string {
	return a.cfg.UI.CurrencySymbol + d.StringFixed(2)
}

// truncate cuts at rune boundaries so multibyte names never end mid-rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
