package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/khata-app/khata/internal/gateway"
	"github.com/khata-app/khata/internal/model"
)

// PartialRestoreError reports a restore where some parts were re-created
// and others failed. The progress already made is recorded on the deleted
// item, so retrying skips the restored parts instead of duplicating them.
type PartialRestoreError struct {
	Restored []string
	Failed   []string
	Cause    error
}

func (e *PartialRestoreError) Error() string {
	return fmt.Sprintf("restore incomplete: restored %s; failed %s: %v",
		strings.Join(e.Restored, ", "), strings.Join(e.Failed, ", "), e.Cause)
}

func (e *PartialRestoreError) Unwrap() error { return e.Cause }

// DeleteResult names everything a delete changed on the gateway: the new
// recycle-bin entry plus the live entities that were removed. It carries
// the partial state when a live delete fails mid-way, so the caller can
// keep the mirror honest before surfacing the error.
type DeleteResult struct {
	Item           model.DeletedItem
	CustomerID     string
	TransactionIDs []string
}

// DeleteCustomer archives the customer together with its transactions as
// one recycle-bin entry, then removes them from the live collections. The
// archive write must be acknowledged before any live delete is issued; if
// archiving fails the live entities are untouched.
func (s *Ledger) DeleteCustomer(ctx context.Context, c model.Customer, related []model.Transaction) (DeleteResult, error) {
	item := model.DeletedItem{
		Kind:                model.DeletedCustomer,
		Customer:            &c,
		RelatedTransactions: related,
		DeletedAt:           s.now(),
	}
	id, err := s.Gateway.Create(ctx, gateway.Deleted, model.DeletedItemDoc(item))
	if err != nil {
		return DeleteResult{}, fmt.Errorf("archive customer: %w", err)
	}
	item.ID = id
	res := DeleteResult{Item: item}

	if err := s.Gateway.Delete(ctx, gateway.Customers, c.ID); err != nil {
		return res, fmt.Errorf("remove customer %s (archived as %s): %w", c.ID, id, err)
	}
	res.CustomerID = c.ID
	for _, t := range related {
		if err := s.Gateway.Delete(ctx, gateway.Transactions, t.ID); err != nil {
			return res, fmt.Errorf("remove transaction %s (archived as %s): %w", t.ID, id, err)
		}
		res.TransactionIDs = append(res.TransactionIDs, t.ID)
	}
	return res, nil
}

// DeleteTransaction archives a single entry, then removes it live.
func (s *Ledger) DeleteTransaction(ctx context.Context, t model.Transaction) (DeleteResult, error) {
	item := model.DeletedItem{
		Kind:        model.DeletedTransaction,
		Transaction: &t,
		DeletedAt:   s.now(),
	}
	id, err := s.Gateway.Create(ctx, gateway.Deleted, model.DeletedItemDoc(item))
	if err != nil {
		return DeleteResult{}, fmt.Errorf("archive transaction: %w", err)
	}
	item.ID = id
	res := DeleteResult{Item: item}

	if err := s.Gateway.Delete(ctx, gateway.Transactions, t.ID); err != nil {
		return res, fmt.Errorf("remove transaction %s (archived as %s): %w", t.ID, id, err)
	}
	res.TransactionIDs = []string{t.ID}
	return res, nil
}

// ApplyDelete mirrors a completed or partially completed delete.
func (s *Ledger) ApplyDelete(res DeleteResult) {
	if res.Item.ID != "" {
		s.Store.PutDeleted(res.Item)
	}
	if res.CustomerID != "" {
		s.Store.RemoveCustomer(res.CustomerID)
	}
	for _, id := range res.TransactionIDs {
		s.Store.RemoveTransaction(id)
	}
}

// RestoreResult names everything a restore attempt changed, complete or
// not. Item carries the bin entry with its restore markers brought up to
// date; when Done is false the entry stays in the bin for a retry.
type RestoreResult struct {
	Customer     *model.Customer
	Transactions []model.Transaction
	Item         model.DeletedItem
	Done         bool
}

// Restore re-creates the archived entities with fresh gateway-assigned
// ids and removes the recycle-bin entry only once every part exists. On a
// retry after partial failure, parts recorded as restored are skipped.
// The caller passes the bin entry it read from the mirror.
func (s *Ledger) Restore(ctx context.Context, item model.DeletedItem) (RestoreResult, error) {
	switch item.Kind {
	case model.DeletedCustomer:
		return s.restoreCustomer(ctx, item)
	case model.DeletedTransaction:
		return s.restoreTransaction(ctx, item)
	default:
		return RestoreResult{Item: item}, fmt.Errorf("restore: unknown item kind %q", item.Kind)
	}
}

func (s *Ledger) restoreCustomer(ctx context.Context, item model.DeletedItem) (RestoreResult, error) {
	res := RestoreResult{Item: item}
	if item.Customer == nil {
		return res, fmt.Errorf("restore: item %s has no customer snapshot", item.ID)
	}

	// Re-create the customer unless a previous attempt already did.
	customerID := item.RestoredCustomerID
	if customerID == "" {
		c := *item.Customer
		id, err := s.Gateway.Create(ctx, gateway.Customers, model.CustomerDoc(c))
		if err != nil {
			return res, fmt.Errorf("restore customer: %w", err)
		}
		customerID = id
		item.RestoredCustomerID = id
		s.markRestoreProgress(ctx, item)
		c.ID = id
		res.Customer = &c
		res.Item = item
	}

	restored := []string{"customer"}
	var failed []string
	var cause error
	for _, t := range item.RelatedTransactions {
		if item.RestoredTxIDs[t.ID] != "" {
			restored = append(restored, "transaction "+t.ID)
			continue
		}
		nt := t
		nt.CustomerID = customerID
		newID, err := s.Gateway.Create(ctx, gateway.Transactions, model.TransactionDoc(nt))
		if err != nil {
			failed = append(failed, "transaction "+t.ID)
			if cause == nil {
				cause = err
			}
			continue
		}
		if item.RestoredTxIDs == nil {
			item.RestoredTxIDs = make(map[string]string)
		}
		item.RestoredTxIDs[t.ID] = newID
		s.markRestoreProgress(ctx, item)
		nt.ID = newID
		res.Transactions = append(res.Transactions, nt)
		res.Item = item
		restored = append(restored, "transaction "+t.ID)
	}
	if len(failed) > 0 {
		return res, &PartialRestoreError{Restored: restored, Failed: failed, Cause: cause}
	}

	if err := s.Gateway.Delete(ctx, gateway.Deleted, item.ID); err != nil {
		return res, fmt.Errorf("remove recycle-bin entry %s: %w", item.ID, err)
	}
	res.Done = true
	return res, nil
}

func (s *Ledger) restoreTransaction(ctx context.Context, item model.DeletedItem) (RestoreResult, error) {
	res := RestoreResult{Item: item}
	if item.Transaction == nil {
		return res, fmt.Errorf("restore: item %s has no transaction snapshot", item.ID)
	}
	if item.RestoredTxIDs[item.Transaction.ID] == "" {
		t := *item.Transaction
		newID, err := s.Gateway.Create(ctx, gateway.Transactions, model.TransactionDoc(t))
		if err != nil {
			return res, fmt.Errorf("restore transaction: %w", err)
		}
		if item.RestoredTxIDs == nil {
			item.RestoredTxIDs = make(map[string]string)
		}
		item.RestoredTxIDs[item.Transaction.ID] = newID
		s.markRestoreProgress(ctx, item)
		t.ID = newID
		res.Transactions = append(res.Transactions, t)
		res.Item = item
	}
	if err := s.Gateway.Delete(ctx, gateway.Deleted, item.ID); err != nil {
		return res, fmt.Errorf("remove recycle-bin entry %s: %w", item.ID, err)
	}
	res.Done = true
	return res, nil
}

// markRestoreProgress persists restore markers on the deleted item so a
// retried restore does not duplicate parts. Best effort: if the marker
// write fails the progress is still carried home on the RestoreResult.
func (s *Ledger) markRestoreProgress(ctx context.Context, item model.DeletedItem) {
	fields := map[string]any{}
	if item.RestoredCustomerID != "" {
		fields["restoredCustomerId"] = item.RestoredCustomerID
	}
	if len(item.RestoredTxIDs) > 0 {
		restored := make(map[string]any, len(item.RestoredTxIDs))
		for orig, id := range item.RestoredTxIDs {
			restored[orig] = id
		}
		fields["restoredTransactionIds"] = restored
	}
	_ = s.Gateway.Update(ctx, gateway.Deleted, item.ID, fields)
}

// ApplyRestore mirrors the parts a restore attempt brought back. The bin
// entry is removed only when the restore ran to completion; otherwise the
// marker-carrying entry replaces it so a retry can skip restored parts.
func (s *Ledger) ApplyRestore(res RestoreResult) {
	if res.Customer != nil {
		s.Store.PutCustomer(*res.Customer)
	}
	for _, t := range res.Transactions {
		s.Store.PutTransaction(t)
	}
	if res.Done {
		s.Store.RemoveDeleted(res.Item.ID)
	} else if res.Item.ID != "" {
		s.Store.PutDeleted(res.Item)
	}
}

// Purge permanently removes a recycle-bin entry. Irreversible.
func (s *Ledger) Purge(ctx context.Context, itemID string) error {
	if err := s.Gateway.Delete(ctx, gateway.Deleted, itemID); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	return nil
}

// ApplyPurge drops the purged entry from the mirror.
func (s *Ledger) ApplyPurge(itemID string) {
	s.Store.RemoveDeleted(itemID)
}
