// Package store is the in-memory mirror of the user's collections. It is
// only ever touched from the UI event loop, so there is no locking; the
// remote store may still change underneath us, and a full Reset simply
// overwrites the local view.
package store

import (
	"sort"

	"github.com/khata-app/khata/internal/model"
)

// Store holds the live entity collections plus the recycle bin mirror.
type Store struct {
	customers map[string]model.Customer
	txns      map[string]model.Transaction
	deleted   map[string]model.DeletedItem
}

func New() *Store {
	return &Store{
		customers: make(map[string]model.Customer),
		txns:      make(map[string]model.Transaction),
		deleted:   make(map[string]model.DeletedItem),
	}
}

// Reset replaces every collection with the freshly loaded data.
func (s *Store) Reset(customers []model.Customer, txns []model.Transaction, deleted []model.DeletedItem) {
	s.customers = make(map[string]model.Customer, len(customers))
	for _, c := range customers {
		s.customers[c.ID] = c
	}
	s.txns = make(map[string]model.Transaction, len(txns))
	for _, t := range txns {
		s.txns[t.ID] = t
	}
	s.deleted = make(map[string]model.DeletedItem, len(deleted))
	for _, d := range deleted {
		s.deleted[d.ID] = d
	}
}

func (s *Store) PutCustomer(c model.Customer)      { s.customers[c.ID] = c }
func (s *Store) PutTransaction(t model.Transaction) { s.txns[t.ID] = t }
func (s *Store) PutDeleted(d model.DeletedItem)     { s.deleted[d.ID] = d }

func (s *Store) RemoveCustomer(id string)    { delete(s.customers, id) }
func (s *Store) RemoveTransaction(id string) { delete(s.txns, id) }
func (s *Store) RemoveDeleted(id string)     { delete(s.deleted, id) }

// Customer returns a copy; ok is false when the id is not live.
func (s *Store) Customer(id string) (model.Customer, bool) {
	c, ok := s.customers[id]
	return c, ok
}

func (s *Store) Transaction(id string) (model.Transaction, bool) {
	t, ok := s.txns[id]
	return t, ok
}

func (s *Store) DeletedItem(id string) (model.DeletedItem, bool) {
	d, ok := s.deleted[id]
	return d, ok
}

// Customers returns every live customer, newest first. Fresh slice each
// call; callers may reorder freely.
func (s *Store) Customers() []model.Customer {
	out := make([]model.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[j].CreatedAt.Before(out[i].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Transactions returns every live transaction in unspecified order; views
// go through ledger.Apply which imposes its own ordering.
func (s *Store) Transactions() []model.Transaction {
	out := make([]model.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		out = append(out, t)
	}
	return out
}

// TransactionsFor returns the customer's live transactions.
func (s *Store) TransactionsFor(customerID string) []model.Transaction {
	var out []model.Transaction
	for _, t := range s.txns {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out
}

// Deleted returns recycle-bin entries, most recently deleted first.
func (s *Store) Deleted() []model.DeletedItem {
	out := make([]model.DeletedItem, 0, len(s.deleted))
	for _, d := range s.deleted {
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DeletedAt.Equal(out[j].DeletedAt) {
			return out[j].DeletedAt.Before(out[i].DeletedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
