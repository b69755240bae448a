package remote

import (
	"context"
	"net/http"
	"time"

	"github.com/khata-app/khata/internal/gateway"
)

// Auth implements gateway.Auth against the backend token endpoints.
type Auth struct {
	client    *Client
	session   *gateway.Session
	listeners []func(*gateway.Session)
}

func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

type sessionPayload struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Token        string    `json:"token"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSignInAt time.Time `json:"lastSignInAt"`
}

func (p sessionPayload) session() *gateway.Session {
	return &gateway.Session{
		UserID:       p.UserID,
		Email:        p.Email,
		Token:        p.Token,
		CreatedAt:    p.CreatedAt,
		LastSignInAt: p.LastSignInAt,
	}
}

func (a *Auth) SignUp(ctx context.Context, email, password string) (*gateway.Session, error) {
	var resp sessionPayload
	body := map[string]string{"email": email, "password": password}
	if err := a.client.do(ctx, http.MethodPost, "/v1/auth/signup", "", body, &resp); err != nil {
		return nil, err
	}
	s := resp.session()
	a.setSession(s)
	return s, nil
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	var resp sessionPayload
	body := map[string]string{"email": email, "password": password}
	if err := a.client.do(ctx, http.MethodPost, "/v1/auth/signin", "", body, &resp); err != nil {
		return nil, err
	}
	s := resp.session()
	a.setSession(s)
	return s, nil
}

func (a *Auth) SignOut(ctx context.Context) error {
	if a.session != nil {
		// Best effort; the token simply expires server side if this fails.
		_ = a.client.do(ctx, http.MethodPost, "/v1/auth/signout", a.session.Token, nil, nil)
	}
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
