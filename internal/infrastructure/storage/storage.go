package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a key has no stored value.
	ErrNotFound = errors.New("key not found")
	// ErrQuotaExceeded is returned when a write is rejected by the backend's
	// capacity limit.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KV is the string-keyed durable storage surface the app state is persisted
// to. Writes may be rejected with ErrQuotaExceeded; callers decide whether to
// surface or swallow that.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
