package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Documents are what the persistence gateway moves around: flat string-keyed
// maps, JSON-compatible, timestamps as RFC 3339 strings and amounts as
// decimal strings. These codecs are the single place that knows the wire
// field names.

// CustomerDoc flattens a customer for the gateway. The id travels
// separately; it is owned by the gateway.
func CustomerDoc(c Customer) map[string]any {
	doc := map[string]any{
		"name":      c.Name,
		"createdAt": c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if c.Phone != "" {
		doc["phone"] = c.Phone
	}
	return doc
}

// CustomerFromDoc rebuilds a customer from a gateway document.
func CustomerFromDoc(id string, doc map[string]any) (Customer, error) {
	c := Customer{
		ID:    id,
		Name:  docString(doc, "name"),
		Phone: docString(doc, "phone"),
	}
	if c.Name == "" {
		return Customer{}, fmt.Errorf("customer %s: missing name", id)
	}
	c.CreatedAt = docTime(doc, "createdAt")
	return c, nil
}

// TransactionDoc flattens a transaction for the gateway.
func TransactionDoc(t Transaction) map[string]any {
	doc := map[string]any{
		"customerId": t.CustomerID,
		"type":       string(t.Type),
		"amount":     t.Amount.String(),
		"createdAt":  t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if t.Description != "" {
		doc["description"] = t.Description
	}
	if !t.TransactionDate.IsZero() {
		doc["transactionDate"] = t.TransactionDate.UTC().Format(time.RFC3339Nano)
	}
	return doc
}

// TransactionFromDoc rebuilds a transaction from a gateway document.
func TransactionFromDoc(id string, doc map[string]any) (Transaction, error) {
	typ, err := ParseTxType(docString(doc, "type"))
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction %s: %w", id, err)
	}
	amount, err := docAmount(doc, "amount")
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction %s: %w", id, err)
	}
	t := Transaction{
		ID:              id,
		CustomerID:      docString(doc, "customerId"),
		Type:            typ,
		Amount:          amount,
		Description:     docString(doc, "description"),
		TransactionDate: docTime(doc, "transactionDate"),
		CreatedAt:       docTime(doc, "createdAt"),
	}
	if t.CustomerID == "" {
		return Transaction{}, fmt.Errorf("transaction %s: missing customerId", id)
	}
	return t, nil
}

// DeletedItemDoc flattens a recycle-bin entry, nesting the entity snapshot
// (and related transactions for customer entries) the way the original
// store laid them out.
func DeletedItemDoc(d DeletedItem) map[string]any {
	doc := map[string]any{
		"type":      string(d.Kind),
		"deletedAt": d.DeletedAt.UTC().Format(time.RFC3339Nano),
	}
	switch d.Kind {
	case DeletedCustomer:
		if d.Customer != nil {
			data := CustomerDoc(*d.Customer)
			data["id"] = d.Customer.ID
			doc["data"] = data
		}
		related := make([]any, 0, len(d.RelatedTransactions))
		for _, t := range d.RelatedTransactions {
			data := TransactionDoc(t)
			data["id"] = t.ID
			related = append(related, data)
		}
		doc["relatedTransactions"] = related
	case DeletedTransaction:
		if d.Transaction != nil {
			data := TransactionDoc(*d.Transaction)
			data["id"] = d.Transaction.ID
			doc["data"] = data
		}
	}
	if d.RestoredCustomerID != "" {
		doc["restoredCustomerId"] = d.RestoredCustomerID
	}
	if len(d.RestoredTxIDs) > 0 {
		restored := make(map[string]any, len(d.RestoredTxIDs))
		for orig, restoredID := range d.RestoredTxIDs {
			restored[orig] = restoredID
		}
		doc["restoredTransactionIds"] = restored
	}
	return doc
}

// DeletedItemFromDoc rebuilds a recycle-bin entry.
func DeletedItemFromDoc(id string, doc map[string]any) (DeletedItem, error) {
	d := DeletedItem{
		ID:                 id,
		Kind:               DeletedKind(docString(doc, "type")),
		DeletedAt:          docTime(doc, "deletedAt"),
		RestoredCustomerID: docString(doc, "restoredCustomerId"),
	}
	switch d.Kind {
	case DeletedCustomer:
		data, ok := doc["data"].(map[string]any)
		if !ok {
			return DeletedItem{}, fmt.Errorf("deleted item %s: missing customer snapshot", id)
		}
		c, err := CustomerFromDoc(docString(data, "id"), data)
		if err != nil {
			return DeletedItem{}, fmt.Errorf("deleted item %s: %w", id, err)
		}
		d.Customer = &c
		if related, ok := doc["relatedTransactions"].([]any); ok {
			for _, raw := range related {
				txDoc, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				t, err := TransactionFromDoc(docString(txDoc, "id"), txDoc)
				if err != nil {
					return DeletedItem{}, fmt.Errorf("deleted item %s: %w", id, err)
				}
				d.RelatedTransactions = append(d.RelatedTransactions, t)
			}
		}
	case DeletedTransaction:
		data, ok := doc["data"].(map[string]any)
		if !ok {
			return DeletedItem{}, fmt.Errorf("deleted item %s: missing transaction snapshot", id)
		}
		t, err := TransactionFromDoc(docString(data, "id"), data)
		if err != nil {
			return DeletedItem{}, fmt.Errorf("deleted item %s: %w", id, err)
		}
		d.Transaction = &t
	default:
		return DeletedItem{}, fmt.Errorf("deleted item %s: unknown type %q", id, docString(doc, "type"))
	}
	if restored, ok := doc["restoredTransactionIds"].(map[string]any); ok {
		d.RestoredTxIDs = make(map[string]string, len(restored))
		for orig, raw := range restored {
			if s, ok := raw.(string); ok {
				d.RestoredTxIDs[orig] = s
			}
		}
	}
	return d, nil
}

func docString(doc map[string]any, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func docTime(doc map[string]any, key string) time.Time {
	s := docString(doc, key)
	if s == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// docAmount accepts both the canonical string encoding and a bare JSON
// number, which is what a generic decoder hands back for documents written
// by older clients.
func docAmount(doc map[string]any, key string) (decimal.Decimal, error) {
	switch v := doc[key].(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case nil:
		return decimal.Zero, fmt.Errorf("missing amount")
	default:
		return decimal.Zero, fmt.Errorf("bad amount type %T", v)
	}
}
