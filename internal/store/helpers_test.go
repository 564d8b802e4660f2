package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/todos/internal/kv"
	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/testutil"
)

// flakyBackend wraps a backend and fails on demand.
type flakyBackend struct {
	kv.Backend
	getErr error
	setErr error
	sets   int
}

func (b *flakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b.getErr != nil {
		return nil, false, b.getErr
	}
	return b.Backend.Get(ctx, key)
}

func (b *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	b.sets++
	if b.setErr != nil {
		return b.setErr
	}
	return b.Backend.Set(ctx, key, value)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestStore creates a store over an in-memory backend with a
// deterministic clock and sequential ids.
func createTestStore(t *testing.T, opts ...Option) (*Store, *flakyBackend, *testutil.DeterministicClock) {
	t.Helper()
	backend := &flakyBackend{Backend: kv.NewMemory()}
	clock := testutil.NewDeterministicClock()
	base := []Option{
		WithClock(clock),
		WithIDGenerator(testutil.NewSequentialIDGenerator("")),
		WithLogger(quietLogger()),
	}
	s := New(backend, append(base, opts...)...)
	t.Cleanup(func() { backend.Close() })
	return s, backend, clock
}

func texts(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}
