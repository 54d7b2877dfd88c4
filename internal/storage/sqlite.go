package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLite keeps documents in the kv table of the workspace database.
type SQLite struct {
	DB  *sqlx.DB
	Now func() time.Time
}

func (s SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.DB.GetContext(ctx, &value, `SELECT value FROM kv WHERE namespace=?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s SQLite) Put(ctx context.Context, key string, value []byte) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	_, err := s.DB.ExecContext(ctx, `INSERT INTO kv(namespace,value,updated_at) VALUES (?,?,?)
ON CONFLICT(namespace) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(value), now().UTC().Format(time.RFC3339))
	return err
}

func (s SQLite) Delete(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM kv WHERE namespace=?`, key)
	return err
}

// putAll writes several keys and removes others in one transaction.
func (s SQLite) putAll(ctx context.Context, values map[string][]byte, deletes ...string) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ts := now().UTC().Format(time.RFC3339)
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv(namespace,value,updated_at) VALUES (?,?,?)
ON CONFLICT(namespace) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`, k, string(v), ts); err != nil {
			return err
		}
	}
	for _, k := range deletes {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE namespace=?`, k); err != nil {
			return err
		}
	}
	return tx.Commit()
}
