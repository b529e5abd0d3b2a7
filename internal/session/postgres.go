package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage persists session entries in a key/value table:
//
//	CREATE TABLE console_session (
//	    key   text PRIMARY KEY,
//	    value text NOT NULL
//	);
type PostgresStorage struct {
	db *pgxpool.Pool
}

// NewPostgresStorage builds a Postgres-backed storage.
func NewPostgresStorage(db *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) Get(ctx context.Context, key string) (string, error) {
	row := s.db.QueryRow(ctx, `SELECT value FROM console_session WHERE key = $1`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("select %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `INSERT INTO console_session (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM console_session WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
