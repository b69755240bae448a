// Package service orchestrates gateway calls for the UI. Mutating
// methods talk only to the gateway and return what changed; the caller
// applies the result to the in-memory store with the Apply methods from
// the event loop, so the mirror never has concurrent writers. A failed
// gateway call therefore leaves the mirror untouched.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/khata-app/khata/internal/gateway"
	"github.com/khata-app/khata/internal/model"
	"github.com/khata-app/khata/internal/store"
)

// Ledger owns all customer/transaction operations. Store is read and
// written only from the event loop; commands running on other goroutines
// get the state they need passed in as arguments.
type Ledger struct {
	Gateway gateway.Persistence
	Store   *store.Store
	Now     func() time.Time
}

func (s *Ledger) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Snapshot is one full read of the gateway collections.
type Snapshot struct {
	Customers    []model.Customer
	Transactions []model.Transaction
	Deleted      []model.DeletedItem
}

// Load pulls all three collections. Documents that fail to decode are
// skipped rather than failing the whole reload.
func (s *Ledger) Load(ctx context.Context) (Snapshot, error) {
	customerDocs, err := s.Gateway.List(ctx, gateway.Customers)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load customers: %w", err)
	}
	txnDocs, err := s.Gateway.List(ctx, gateway.Transactions)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load transactions: %w", err)
	}
	deletedDocs, err := s.Gateway.List(ctx, gateway.Deleted)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load deleted items: %w", err)
	}

	var snap Snapshot
	for _, doc := range customerDocs {
		c, err := model.CustomerFromDoc(doc.ID, doc.Fields)
		if err != nil {
			continue
		}
		snap.Customers = append(snap.Customers, c)
	}
	for _, doc := range txnDocs {
		t, err := model.TransactionFromDoc(doc.ID, doc.Fields)
		if err != nil {
			continue
		}
		snap.Transactions = append(snap.Transactions, t)
	}
	for _, doc := range deletedDocs {
		d, err := model.DeletedItemFromDoc(doc.ID, doc.Fields)
		if err != nil {
			continue
		}
		snap.Deleted = append(snap.Deleted, d)
	}
	return snap, nil
}

// ApplySnapshot replaces the mirror with the freshly loaded data.
func (s *Ledger) ApplySnapshot(snap Snapshot) {
	s.Store.Reset(snap.Customers, snap.Transactions, snap.Deleted)
}

// AddCustomer validates and creates the document.
func (s *Ledger) AddCustomer(ctx context.Context, name, phone string) (model.Customer, error) {
	c := model.Customer{
		Name:      strings.TrimSpace(name),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: s.now(),
	}
	if err := model.ValidateCustomer(c); err != nil {
		return model.Customer{}, err
	}
	id, err := s.Gateway.Create(ctx, gateway.Customers, model.CustomerDoc(c))
	if err != nil {
		return model.Customer{}, fmt.Errorf("add customer: %w", err)
	}
	c.ID = id
	return c, nil
}

// UpdateCustomer replaces name/phone on the customer passed in by the
// caller.
func (s *Ledger) UpdateCustomer(ctx context.Context, c model.Customer, name, phone string) (model.Customer, error) {
	if c.ID == "" {
		return model.Customer{}, fmt.Errorf("update customer: %w", gateway.ErrNotFound)
	}
	c.Name = strings.TrimSpace(name)
	c.Phone = strings.TrimSpace(phone)
	if err := model.ValidateCustomer(c); err != nil {
		return model.Customer{}, err
	}
	fields := map[string]any{"name": c.Name, "phone": c.Phone}
	if err := s.Gateway.Update(ctx, gateway.Customers, c.ID, fields); err != nil {
		return model.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

// ApplyCustomer mirrors a saved customer.
func (s *Ledger) ApplyCustomer(c model.Customer) {
	s.Store.PutCustomer(c)
}

// AddTransaction validates and records a new entry for the customer. A
// zero txnDate falls back to the creation time in all derived views.
func (s *Ledger) AddTransaction(ctx context.Context, customer model.Customer, typ model.TxType, amount, description string, txnDate time.Time) (model.Transaction, error) {
	if customer.ID == "" {
		return model.Transaction{}, fmt.Errorf("add transaction: %w", gateway.ErrNotFound)
	}
	amt, err := model.ParseAmount(amount)
	if err != nil {
		return model.Transaction{}, err
	}
	t := model.Transaction{
		CustomerID:      customer.ID,
		Type:            typ,
		Amount:          amt,
		Description:     strings.TrimSpace(description),
		TransactionDate: txnDate,
		CreatedAt:       s.now(),
	}
	if err := model.ValidateTransaction(t); err != nil {
		return model.Transaction{}, err
	}
	id, err := s.Gateway.Create(ctx, gateway.Transactions, model.TransactionDoc(t))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	t.ID = id
	return t, nil
}

// UpdateTransaction replaces the editable fields of the entry passed in
// by the caller.
func (s *Ledger) UpdateTransaction(ctx context.Context, t model.Transaction, typ model.TxType, amount, description string, txnDate time.Time) (model.Transaction, error) {
	if t.ID == "" {
		return model.Transaction{}, fmt.Errorf("update transaction: %w", gateway.ErrNotFound)
	}
	amt, err := model.ParseAmount(amount)
	if err != nil {
		return model.Transaction{}, err
	}
	t.Type = typ
	t.Amount = amt
	t.Description = strings.TrimSpace(description)
	if !txnDate.IsZero() {
		t.TransactionDate = txnDate
	}
	if err := model.ValidateTransaction(t); err != nil {
		return model.Transaction{}, err
	}
	fields := map[string]any{
		"type":        string(t.Type),
		"amount":      t.Amount.String(),
		"description": t.Description,
	}
	if !t.TransactionDate.IsZero() {
		fields["transactionDate"] = t.TransactionDate.UTC().Format(time.RFC3339Nano)
	}
	if err := s.Gateway.Update(ctx, gateway.Transactions, t.ID, fields); err != nil {
		return model.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	return t, nil
}

// ApplyTransaction mirrors a saved transaction.
func (s *Ledger) ApplyTransaction(t model.Transaction) {
	s.Store.PutTransaction(t)
}

// SearchCustomers matches by name or phone. Substring matches rank first;
// close name matches (edit distance) are kept so one-letter typos still
// find the customer. Reads the mirror, so event-loop only.
func (s *Ledger) SearchCustomers(term string) []model.Customer {
	customers := s.Store.Customers()
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return customers
	}

	type ranked struct {
		c    model.Customer
		rank int
	}
	var matches []ranked
	for _, c := range customers {
		name := strings.ToLower(c.Name)
		switch {
		case strings.Contains(name, term) || strings.Contains(c.Phone, term):
			matches = append(matches, ranked{c, 0})
		case fuzzyNameMatch(name, term):
			matches = append(matches, ranked{c, 1})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })
	out := make([]model.Customer, len(matches))
	for i, m := range matches {
		out[i] = m.c
	}
	return out
}

// fuzzyNameMatch tolerates small typos: the term is close to the whole
// name or to one of its words.
func fuzzyNameMatch(name, term string) bool {
	if len(term) < 3 {
		return false
	}
	limit := 1
	if len(term) >= 5 {
		limit = 2
	}
	if levenshtein.ComputeDistance(name, term) <= limit {
		return true
	}
	for _, word := range strings.Fields(name) {
		if levenshtein.ComputeDistance(word, term) <= limit {
			return true
		}
	}
	return false
}
