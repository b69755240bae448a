// Package remote implements the gateways against the hosted backend: a
// JSON REST document store with bearer-token auth. The backend namespaces
// every collection under the authenticated user, so the client only deals
// in collection names.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/khata-app/khata/internal/gateway"
)

// Client holds the shared HTTP plumbing for both gateways.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// apiError is the backend's error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error apiError `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &envelope) == nil && envelope.Error.Code != "" {
			return mapAPIError(envelope.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapAPIError(e apiError, status int) error {
	switch e.Code {
	case "email-in-use":
		return gateway.ErrEmailInUse
	case "invalid-email":
		return gateway.ErrInvalidEmail
	case "weak-password":
		return gateway.ErrWeakPassword
	case "user-not-found":
		return gateway.ErrUserNotFound
	case "wrong-password":
		return gateway.ErrWrongPassword
	case "not-found":
		return gateway.ErrNotFound
	}
	if e.Message != "" {
		return fmt.Errorf("backend: %s (%d)", e.Message, status)
	}
	return fmt.Errorf("backend: %s (%d)", e.Code, status)
}

// Store implements gateway.Persistence over the hosted document API using
// the signed-in session's token.
type Store struct {
	client *Client
	auth   *Auth
}

func NewStore(client *Client, auth *Auth) *Store {
	return &Store{client: client, auth: auth}
}

func (s *Store) token() (string, error) {
	sess := s.auth.Current()
	if sess == nil {
		return "", fmt.Errorf("not signed in")
	}
	return sess.Token, nil
}

type documentPayload struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

func (s *Store) List(ctx context.Context, collection string) ([]gateway.Document, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	var resp struct {
		Documents []documentPayload `json:"documents"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/v1/"+collection, token, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]gateway.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		out = append(out, gateway.Document{ID: d.ID, Fields: d.Fields})
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	token, err := s.token()
	if err != nil {
		return "", err
	}
	var resp struct {
		ID string `json:"id"`
	}
	body := map[string]any{"fields": fields}
	if err := s.client.do(ctx, http.MethodPost, "/v1/"+collection, token, body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create %s: backend returned no id", collection)
	}
	return resp.ID, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	body := map[string]any{"fields": fields}
	return s.client.do(ctx, http.MethodPatch, "/v1/"+collection+"/"+id, token, body, nil)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	return s.client.do(ctx, http.MethodDelete, "/v1/"+collection+"/"+id, token, nil, nil)
}
