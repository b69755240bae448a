// Package gateway defines the two external collaborators the ledger is
// built on: a per-user document store and an email/password auth service.
// Implementations live in gateway/local (sqlite, offline) and
// gateway/remote (hosted HTTP backend).
package gateway

import (
	"context"
	"errors"
	"time"
)

// Collection names used by the app.
const (
	Customers    = "customers"
	Transactions = "transactions"
	Deleted      = "deleted"
)

// Document is one stored record: the gateway-assigned id plus a flat
// JSON-compatible field map.
type Document struct {
	ID     string
	Fields map[string]any
}

// Persistence is the document store, already scoped to the authenticated
// user. Update merges the given fields into the stored document.
type Persistence interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

// Session identifies a signed-in user.
type Session struct {
	UserID       string
	Email        string
	Token        string
	CreatedAt    time.Time
	LastSignInAt time.Time
}

// Auth is the authentication service. OnSessionChange fires the callback
// with the current session (nil when signed out) on every transition,
// including registration time.
type Auth interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	Current() *Session
	OnSessionChange(fn func(*Session))
}

// Auth failure taxonomy, mirrored from the backend error codes.
var (
	ErrEmailInUse    = errors.New("email already in use")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrWeakPassword  = errors.New("password too weak")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
)

// ErrNotFound reports a missing document.
var ErrNotFound = errors.New("document not found")
