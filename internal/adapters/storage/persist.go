package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xvierd/unfocus/internal/ports"
)

// Storage keys for the persisted documents.
const (
	KeySettings = "settings"
	KeyStats    = "stats"
)

// Load reads and decodes the JSON document stored under key on top of def,
// so fields missing from the stored document keep their default. Any failure
// (nil store, missing key, malformed data, storage error) yields def.
func Load[T any](ctx context.Context, kv ports.KeyValueStore, key string, def T) T {
	if kv == nil {
		return def
	}
	raw, err := kv.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return def
	}
	v := def
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// Save encodes v as JSON and stores it under key.
func Save[T any](ctx context.Context, kv ports.KeyValueStore, key string, v T) error {
	if kv == nil {
		return fmt.Errorf("no store for key %q", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return kv.Put(ctx, key, data)
}
