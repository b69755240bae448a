package local

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/khata-app/khata/internal/gateway"
)

// Auth implements gateway.Auth against the local users table.
type Auth struct {
	db        *sql.DB
	session   *gateway.Session
	listeners []func(*gateway.Session)
}

func NewAuth(db *sql.DB) *Auth {
	return &Auth{db: db}
}

func (a *Auth) SignUp(ctx context.Context, email, password string) (*gateway.Session, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, gateway.ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, gateway.ErrWeakPassword
	}
	var existing int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&existing); err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, gateway.ErrEmailInUse
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	id := uuid.NewString()
	ts := now()
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO users(id, email, password_hash, created_at, last_sign_in_at) VALUES(?, ?, ?, ?, ?)`,
		id, email, string(hash), ts, ts)
	if err != nil {
		return nil, err
	}
	s := &gateway.Session{UserID: id, Email: email, CreatedAt: ts, LastSignInAt: ts}
	a.setSession(s)
	return s, nil
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, gateway.ErrInvalidEmail
	}
	var (
		id, hash string
		created  sql.NullTime
	)
	err := a.db.QueryRowContext(ctx,
		`SELECT id, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&id, &hash, &created)
	if err == sql.ErrNoRows {
		return nil, gateway.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, gateway.ErrWrongPassword
	}
	ts := now()
	_, _ = a.db.ExecContext(ctx, `UPDATE users SET last_sign_in_at = ? WHERE id = ?`, ts, id)
	s := &gateway.Session{UserID: id, Email: email, LastSignInAt: ts}
	if created.Valid {
		s.CreatedAt = created.Time
	}
	a.setSession(s)
	return s, nil
}

func (a *Auth) SignOut(context.Context) error {
	a.setSession(nil)
	return nil
}

func (a *Auth) Current() *gateway.Session { return a.session }

func (a *Auth) OnSessionChange(fn func(*gateway.Session)) {
	a.listeners = append(a.listeners, fn)
	fn(a.session)
}

func (a *Auth) setSession(s *gateway.Session) {
	a.session = s
	for _, fn := range a.listeners {
		fn(s)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}
