package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/khata-app/khata/internal/gateway"
	"github.com/khata-app/khata/internal/ledger"
	"github.com/khata-app/khata/internal/model"
)

// Commands run gateway calls off the update loop and post a typed
// message back when done. Anything a command needs from the mirror is
// captured here, while still on the loop; the closures never touch the
// store themselves.

func (a *App) submitAuthCmd() tea.Cmd {
	email := a.authForm.value("Email")
	password := a.authForm.value("Password")
	signup := a.signup
	confirm := a.authForm.value("Confirm Password")
	return func() tea.Msg {
		var (
			s   *gateway.Session
			err error
		)
		if signup {
			if err = model.ValidateSignUp(email, password, confirm); err != nil {
				return errMsg{err}
			}
			s, err = a.auth.SignUp(a.ctx, email, password)
		} else {
			if err = model.ValidateSignIn(email, password); err != nil {
				return errMsg{err}
			}
			s, err = a.auth.SignIn(a.ctx, email, password)
		}
		if err != nil {
			return errMsg{authError(err)}
		}
		return sessionMsg{session: s}
	}
}

// authError rewrites the gateway sentinels into messages fit for the
// login screen.
func authError(err error) error {
	switch {
	case errors.Is(err, gateway.ErrEmailInUse):
		return errors.New("that email is already registered, sign in instead")
	case errors.Is(err, gateway.ErrUserNotFound):
		return errors.New("no account with that email, sign up first (ctrl+s)")
	case errors.Is(err, gateway.ErrWrongPassword):
		return errors.New("wrong password")
	case errors.Is(err, gateway.ErrInvalidEmail):
		return errors.New("that does not look like an email address")
	case errors.Is(err, gateway.ErrWeakPassword):
		return errors.New("password must be at least 6 characters")
	}
	return err
}

func (a *App) loadCmd() tea.Cmd {
	svc := a.ledger
	return func() tea.Msg {
		snap, err := svc.Load(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return dataLoadedMsg{snap: snap}
	}
}

func (a *App) saveCustomerCmd(f *form) tea.Cmd {
	svc := a.ledger
	name, phone, id := f.value("Name"), f.value("Phone"), f.targetID
	var existing model.Customer
	if id != "" {
		c, ok := a.ledger.Store.Customer(id)
		if !ok {
			return func() tea.Msg { return errMsg{errors.New("customer no longer exists")} }
		}
		existing = c
	}
	return func() tea.Msg {
		var (
			c   model.Customer
			err error
		)
		if id == "" {
			c, err = svc.AddCustomer(a.ctx, name, phone)
		} else {
			c, err = svc.UpdateCustomer(a.ctx, existing, name, phone)
		}
		if err != nil {
			return errMsg{err}
		}
		return customerSavedMsg{customer: c, created: id == ""}
	}
}

func (a *App) saveTransactionCmd(f *form) tea.Cmd {
	svc := a.ledger
	amount, desc, id, typ := f.value("Amount"), f.value("Description"), f.targetID, f.txType
	var txnDate time.Time
	if raw := f.value("Date"); raw != "" {
		d, ok := parseDate(raw, a.cfg.UI.DateFormat, a.loc)
		if !ok {
			format := a.cfg.UI.DateFormat
			return func() tea.Msg { return errMsg{errors.New("enter the date as " + format)} }
		}
		txnDate = d
	}

	var (
		customer model.Customer
		existing model.Transaction
	)
	if id == "" {
		c, ok := a.ledger.Store.Customer(a.customerID)
		if !ok {
			return func() tea.Msg { return errMsg{errors.New("customer no longer exists")} }
		}
		customer = c
	} else {
		t, ok := a.ledger.Store.Transaction(id)
		if !ok {
			return func() tea.Msg { return errMsg{errors.New("transaction no longer exists")} }
		}
		existing = t
	}

	sms := a.sms
	return func() tea.Msg {
		var (
			t   model.Transaction
			err error
		)
		if id == "" {
			t, err = svc.AddTransaction(a.ctx, customer, typ, amount, desc, txnDate)
		} else {
			t, err = svc.UpdateTransaction(a.ctx, existing, typ, amount, desc, txnDate)
		}
		if err != nil {
			return errMsg{err}
		}
		msg := transactionSavedMsg{txn: t, created: id == ""}
		if id == "" && customer.Phone != "" {
			msg.smsErr = sms.Send(customer.Phone, t)
		}
		return msg
	}
}

func (a *App) deleteCustomerCmd(c model.Customer) tea.Cmd {
	svc := a.ledger
	related := a.ledger.Store.TransactionsFor(c.ID)
	return func() tea.Msg {
		res, err := svc.DeleteCustomer(a.ctx, c, related)
		return deleteDoneMsg{result: res, err: err}
	}
}

func (a *App) deleteTransactionCmd(t model.Transaction) tea.Cmd {
	svc := a.ledger
	return func() tea.Msg {
		res, err := svc.DeleteTransaction(a.ctx, t)
		return deleteDoneMsg{result: res, err: err}
	}
}

func (a *App) restoreCmd(item model.DeletedItem) tea.Cmd {
	svc := a.ledger
	return func() tea.Msg {
		res, err := svc.Restore(a.ctx, item)
		return restoreDoneMsg{result: res, err: err}
	}
}

func (a *App) purgeCmd(itemID string) tea.Cmd {
	svc := a.ledger
	return func() tea.Msg {
		if err := svc.Purge(a.ctx, itemID); err != nil {
			return errMsg{err}
		}
		return purgeDoneMsg{itemID: itemID}
	}
}

func (a *App) reportCmd(customerID string) tea.Cmd {
	c, ok := a.ledger.Store.Customer(customerID)
	if !ok {
		return func() tea.Msg { return errMsg{errors.New("customer not found")} }
	}
	txns := a.ledger.Store.TransactionsFor(customerID)
	loc := a.loc
	return func() tea.Msg {
		r := ledger.BuildReport(c, txns, time.Now().In(loc))
		return reportReadyMsg{report: r}
	}
}

func (a *App) shareReportCmd(r ledger.Report) tea.Cmd {
	share := a.share
	currency := a.cfg.UI.CurrencySymbol
	return func() tea.Msg {
		path, err := share.Send(r.ShareTitle(), r.Render(currency))
		return shareDoneMsg{path: path, err: err}
	}
}

func (a *App) signOutCmd() tea.Cmd {
	auth := a.auth
	return func() tea.Msg {
		if err := auth.SignOut(a.ctx); err != nil {
			return errMsg{err}
		}
		return signedOutMsg{}
	}
}
