package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/pfkeygen/internal/retry"
)

const createSlotsTable = `
CREATE TABLE IF NOT EXISTS kv_slots (
	slot       TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps slots as rows of the kv_slots table, so several
// operators can share one history.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL, retrying transient failures,
// and makes sure the kv_slots table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("postgres store: database url is required")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	res := retry.Do(ctx, "postgres ping", retry.ConnectConfig(), func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if !res.Success {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database after %d attempts: %w", res.Attempts, res.LastError)
	}

	if _, err := pool.Exec(ctx, createSlotsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create kv_slots table: %w", err)
	}

	log.Debug().Int("attempts", res.Attempts).Msg("Connected to postgres history backend")
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Read(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_slots WHERE slot = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Op: "read", Key: key, Err: err}
	}
	return value, true, nil
}

func (p *PostgresStore) Write(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO kv_slots (slot, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM kv_slots WHERE slot = $1`, key); err != nil {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
