// Package kv defines the persistent key-value store consumed by the rate
// limiter (timestamp ledger), the usage tracker (counters), the privacy
// settings, and the insight cache.
package kv

import "context"

// Store is a minimal persistent key-value store. Values are opaque bytes;
// callers own serialization. Get returns (nil, false, nil) for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
