package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidationError reports a bad input caught before any gateway call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ParseAmount parses a user-entered amount string. The amount must be a
// positive finite decimal; direction comes from the transaction type.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, invalid("amount", "amount is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid("amount", "amount must be a number")
	}
	if !d.IsPositive() {
		return decimal.Zero, invalid("amount", "amount must be greater than zero")
	}
	return d, nil
}

// ValidateCustomer checks the add/edit customer form fields.
func ValidateCustomer(c Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "name is required")
	}
	return nil
}

// ValidateTransaction checks an add/edit transaction before it is sent to
// the gateway.
func ValidateTransaction(t Transaction) error {
	if t.CustomerID == "" {
		return invalid("customer", "transaction must belong to a customer")
	}
	if _, err := ParseTxType(string(t.Type)); err != nil {
		return invalid("type", "type must be credit or debit")
	}
	if !t.Amount.IsPositive() {
		return invalid("amount", "amount must be greater than zero")
	}
	return nil
}

// ValidateDateRange rejects an inverted custom range before it reaches the
// filter engine.
func ValidateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return invalid("range", "both start and end dates are required")
	}
	if end.Before(start) {
		return invalid("range", "end date is before start date")
	}
	return nil
}

// ValidateSignUp checks the signup form: both fields present, password
// long enough and matching its confirmation.
func ValidateSignUp(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return invalid("auth", "please fill in all fields")
	}
	if len(password) < 6 {
		return invalid("password", "password must be at least 6 characters")
	}
	if password != confirm {
		return invalid("password", "passwords do not match")
	}
	return nil
}

// ValidateSignIn checks the login form.
func ValidateSignIn(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return invalid("auth", "please fill in all fields")
	}
	return nil
}
