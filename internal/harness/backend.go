package harness

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/roach88/todos/internal/kv"
)

// errStorageOffline is returned by a broken switchBackend.
var errStorageOffline = errors.New("storage offline")

// switchBackend wraps a kv.Backend and fails every call while broken.
// break_storage and heal_storage steps flip it.
type switchBackend struct {
	kv.Backend
	broken atomic.Bool
}

func (b *switchBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b.broken.Load() {
		return nil, false, errStorageOffline
	}
	return b.Backend.Get(ctx, key)
}

func (b *switchBackend) Set(ctx context.Context, key string, value []byte) error {
	if b.broken.Load() {
		return errStorageOffline
	}
	return b.Backend.Set(ctx, key, value)
}
