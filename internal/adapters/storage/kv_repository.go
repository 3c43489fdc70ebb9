package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/unfocus/internal/domain"
	"github.com/xvierd/unfocus/internal/ports"
)

// kvRepository implements ports.KeyValueStore using the kv table.
type kvRepository struct {
	db *sql.DB
}

// newKVRepository creates a new key/value repository.
func newKVRepository(db *sql.DB) ports.KeyValueStore {
	return &kvRepository{db: db}
}

// Get returns the raw value stored under key.
func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return []byte(value), nil
}

// Put stores value under key.
func (r *kvRepository) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, string(value), time.Now()); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *kvRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// prefixedKV namespaces every key of an underlying store.
type prefixedKV struct {
	inner  ports.KeyValueStore
	prefix string
}

// WithPrefix returns a store that prepends prefix to every key.
func WithPrefix(kv ports.KeyValueStore, prefix string) ports.KeyValueStore {
	if prefix == "" {
		return kv
	}
	return &prefixedKV{inner: kv, prefix: prefix}
}

func (p *prefixedKV) Get(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixedKV) Put(ctx context.Context, key string, value []byte) error {
	return p.inner.Put(ctx, p.prefix+key, value)
}

func (p *prefixedKV) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}
