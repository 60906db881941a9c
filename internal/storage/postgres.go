package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Store backed by the local_storage table.
// The schema is created by database.RunMigrations.
func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db}
}

// Get retrieves a value using parameterized queries
func (p *postgresStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	query := `SELECT value FROM local_storage WHERE namespace = $1 AND key = $2`

	var value []byte
	err := p.db.QueryRowContext(ctx, query, namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s/%s: %w", namespace, key, err)
	}
	return value, nil
}

// Put upserts a value; the last write wins
func (p *postgresStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	query := `
		INSERT INTO local_storage (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := p.db.ExecContext(ctx, query, namespace, key, value); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Delete removes a value; deleting a missing key is not an error
func (p *postgresStore) Delete(ctx context.Context, namespace, key string) error {
	query := `DELETE FROM local_storage WHERE namespace = $1 AND key = $2`

	if _, err := p.db.ExecContext(ctx, query, namespace, key); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (p *postgresStore) Close() error {
	return p.db.Close()
}
