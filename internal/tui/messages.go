package tui

import (
	"github.com/khata-app/khata/internal/gateway"
	"github.com/khata-app/khata/internal/ledger"
	"github.com/khata-app/khata/internal/model"
	"github.com/khata-app/khata/internal/service"
)

// Messages posted back to the update loop by commands. Commands run on
// their own goroutines and only talk to the gateways; the mirror is
// updated here, in the loop, from what the message carries.

type sessionMsg struct {
	session *gateway.Session
}

type dataLoadedMsg struct {
	snap service.Snapshot
}

type customerSavedMsg struct {
	customer model.Customer
	created  bool
}

type transactionSavedMsg struct {
	txn     model.Transaction
	created bool
	smsErr  error
}

type deleteDoneMsg struct {
	result service.DeleteResult
	err    error
}

type restoreDoneMsg struct {
	result service.RestoreResult
	err    error
}

type purgeDoneMsg struct {
	itemID string
}

type reportReadyMsg struct {
	report ledger.Report
}

type shareDoneMsg struct {
	path string
	err  error
}

type signedOutMsg struct{}

type errMsg struct{ error }
