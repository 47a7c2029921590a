// Package credstore persists the client's session (the opaque bearer
// token and a minimal user summary) in a local SQLite database. It is the
// Go stand-in for the platform secure storage a mobile client would use.
package credstore

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/aislescan/aislescan/internal/client/api"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	keyToken = "authToken"
	keyUser  = "user"
)

// Store is a key/value credential store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the store at the given DSN (a file path, or
// ":memory:" in tests) and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("credstore open: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("credstore dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("credstore migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Store) Token(ctx context.Context) (string, error) {
	return s.get(ctx, keyToken)
}

// SetSession stores the token and user summary atomically.
func (s *Store) SetSession(ctx context.Context, token string, user api.UserSummary) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("credstore encode user: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("credstore begin: %w", err)
	}
	defer tx.Rollback()

	for _, kv := range []struct{ k, v string }{
		{keyToken, token},
		{keyUser, string(userJSON)},
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO credentials (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			kv.k, kv.v); err != nil {
			return fmt.Errorf("credstore set %s: %w", kv.k, err)
		}
	}

	return tx.Commit()
}

// User returns the stored user summary, or nil when logged out.
func (s *Store) User(ctx context.Context) (*api.UserSummary, error) {
	raw, err := s.get(ctx, keyUser)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var user api.UserSummary
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("credstore decode user: %w", err)
	}
	return &user, nil
}

// Clear wipes the stored session.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("credstore clear: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credstore get %s: %w", key, err)
	}
	return value, nil
}
