package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/khata-app/khata/internal/gateway"
)

// Store implements gateway.Persistence for one user.
type Store struct {
	db     *sql.DB
	userID string
}

func NewStore(db *sql.DB, userID string) *Store {
	return &Store{db: db, userID: userID}
}

func (s *Store) List(ctx context.Context, collection string) ([]gateway.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE user_id = ? AND collection = ? ORDER BY created_at, id`,
		s.userID, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []gateway.Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		fields := map[string]any{}
		if err := json.Unmarshal([]byte(body), &fields); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		out = append(out, gateway.Document{ID: id, Fields: fields})
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", collection, err)
	}
	id := uuid.NewString()
	ts := now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents(user_id, collection, id, body, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)`,
		s.userID, collection, id, string(body), ts, ts)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update merges the given fields into the stored body.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return WithTx(s.db, func(tx *sql.Tx) error {
		var body string
		err := tx.QueryRowContext(ctx,
			`SELECT body FROM documents WHERE user_id = ? AND collection = ? AND id = ?`,
			s.userID, collection, id).Scan(&body)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%s/%s: %w", collection, id, gateway.ErrNotFound)
		}
		if err != nil {
			return err
		}
		merged := map[string]any{}
		if err := json.Unmarshal([]byte(body), &merged); err != nil {
			return fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		for k, v := range fields {
			merged[k] = v
		}
		next, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", collection, id, err)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE documents SET body = ?, updated_at = ? WHERE user_id = ? AND collection = ? AND id = ?`,
			string(next), now(), s.userID, collection, id)
		return err
	})
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE user_id = ? AND collection = ? AND id = ?`,
		s.userID, collection, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, gateway.ErrNotFound)
	}
	return nil
}
