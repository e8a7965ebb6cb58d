package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/hpungsan/passgen/internal/errors"
)

// Keys used by the application.
const (
	KeyHistory             = "password_history"
	KeyBrandingCompanyName = "branding_company_name"
	KeyBrandingColor       = "branding_primary_color"
)

// KV is a string key-value store backed by the kv table.
type KV struct {
	db  *sql.DB
	now func() time.Time
}

// NewKV wraps db. The table must exist (see Init).
func NewKV(db *sql.DB) *KV {
	return &KV{db: db, now: time.Now}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *KV) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.NewPersistenceFailure(key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *KV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, s.now().Unix())
	if err != nil {
		return errors.NewPersistenceFailure(key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.NewPersistenceFailure(key, err)
	}
	return nil
}
