package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/todos/internal/kv"
	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/testutil"
)

func TestListAll_EmptyStore(t *testing.T) {
	s, _, _ := createTestStore(t)

	tasks, err := s.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)

	got, err := s.Create(ctx, "  Buy milk  ")
	require.NoError(t, err)

	assert.Equal(t, "task-0001", got.ID)
	assert.Equal(t, "Buy milk", got.Text)
	assert.False(t, got.Completed)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.Equal(t, testutil.Epoch.Add(time.Second), got.CreatedAt)

	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, got, tasks[0])
}

func TestCreate_RejectsEmptyText(t *testing.T) {
	ctx := context.Background()
	s, backend, _ := createTestStore(t)

	_, err := s.Create(ctx, "keep")
	require.NoError(t, err)
	setsBefore := backend.sets

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := s.Create(ctx, text)
		require.Error(t, err)
		assert.True(t, task.IsInvalidInput(err), "text %q", text)
	}

	assert.Equal(t, setsBefore, backend.sets, "rejected creates must not write")
	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, texts(tasks))
}

func TestCreate_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)

	_, err := s.Create(ctx, "A")
	require.NoError(t, err)
	_, err = s.Create(ctx, "B")
	require.NoError(t, err)

	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, texts(tasks))
}

func TestCreate_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), WithLogger(quietLogger()))

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		created, err := s.Create(ctx, "x")
		require.NoError(t, err)
		assert.False(t, seen[created.ID], "duplicate id %s", created.ID)
		seen[created.ID] = true
	}
}

func TestCreate_RegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t, WithIDGenerator(testutil.NewScriptedIDGenerator("dup", "dup", "", "fresh")))

	first, err := s.Create(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, "dup", first.ID)

	second, err := s.Create(ctx, "two")
	require.NoError(t, err)
	assert.Equal(t, "fresh", second.ID, "colliding and empty ids must be skipped")
}

func TestCreate_FallsBackWhenGeneratorStuck(t *testing.T) {
	ctx := context.Background()
	stuck := make([]string, maxIDAttempts+1)
	for i := range stuck {
		stuck[i] = "same"
	}
	s, _, _ := createTestStore(t, WithIDGenerator(testutil.NewScriptedIDGenerator(stuck...)))

	first, err := s.Create(ctx, "one")
	require.NoError(t, err)
	second, err := s.Create(ctx, "two")
	require.NoError(t, err)

	assert.Equal(t, "same", first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)

	created, err := s.Create(ctx, "Buy milk")
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, task.IsNotFound(err))
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)

	created, err := s.Create(ctx, "draft")
	require.NoError(t, err)

	done, err := s.Update(ctx, created.ID, task.CompletedPatch(true))
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, created.ID, done.ID)
	assert.Equal(t, created.CreatedAt, done.CreatedAt)
	assert.True(t, done.UpdatedAt.After(created.UpdatedAt))

	undone, err := s.Update(ctx, created.ID, task.CompletedPatch(false))
	require.NoError(t, err)
	assert.False(t, undone.Completed)
	assert.True(t, undone.UpdatedAt.After(done.UpdatedAt))

	renamed, err := s.Update(ctx, created.ID, task.TextPatch("  final "))
	require.NoError(t, err)
	assert.Equal(t, "final", renamed.Text)
	assert.False(t, renamed.Completed)

	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, renamed, tasks[0])
}

func TestUpdate_PreservesPosition(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)

	a, err := s.Create(ctx, "A")
	require.NoError(t, err)
	_, err = s.Create(ctx, "B")
	require.NoError(t, err)

	_, err = s.Update(ctx, a.ID, task.TextPatch("A2"))
	require.NoError(t, err)

	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A2"}, texts(tasks))
}

func TestUpdate_UpdatedAtNeverDecreasesUnderCoarseClock(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t, WithClock(testutil.NewDeterministicClockWithStep(0)))

	created, err := s.Create(ctx, "x")
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, task.CompletedPatch(true))
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	s, backend, _ := createTestStore(t)

	_, err := s.Update(ctx, "nope", task.CompletedPatch(true))
	require.Error(t, err)
	assert.True(t, task.IsNotFound(err))
	assert.Equal(t, 0, backend.sets)
}

func TestUpdate_RejectsEmptyText(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)

	created, err := s.Create(ctx, "keep")
	require.NoError(t, err)

	_, err = s.Update(ctx, created.ID, task.TextPatch("  "))
	assert.True(t, task.IsInvalidInput(err))

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Text)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)

	a, err := s.Create(ctx, "A")
	require.NoError(t, err)
	_, err = s.Create(ctx, "B")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, a.ID))
	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, texts(tasks))

	_, err = s.Get(ctx, a.ID)
	assert.True(t, task.IsNotFound(err))
}

func TestDelete_MissingIsNoop(t *testing.T) {
	ctx := context.Background()
	s, backend, _ := createTestStore(t)

	_, err := s.Create(ctx, "A")
	require.NoError(t, err)
	before, err := s.ListAll(ctx)
	require.NoError(t, err)
	setsBefore := backend.sets

	require.NoError(t, s.Delete(ctx, "does-not-exist"))

	after, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, setsBefore, backend.sets)
}

func TestDeleteCompleted(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)

	for _, text := range []string{"a", "b", "c", "d"} {
		_, err := s.Create(ctx, text)
		require.NoError(t, err)
	}
	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	// tasks is [d c b a]; complete d and b
	_, err = s.Update(ctx, tasks[0].ID, task.CompletedPatch(true))
	require.NoError(t, err)
	_, err = s.Update(ctx, tasks[2].ID, task.CompletedPatch(true))
	require.NoError(t, err)

	require.NoError(t, s.DeleteCompleted(ctx))
	remaining, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, texts(remaining))

	// Idempotent
	require.NoError(t, s.DeleteCompleted(ctx))
	again, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, remaining, again)
}

func TestDeleteWhere_Active(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)

	a, err := s.Create(ctx, "a")
	require.NoError(t, err)
	_, err = s.Create(ctx, "b")
	require.NoError(t, err)
	_, err = s.Update(ctx, a.ID, task.CompletedPatch(true))
	require.NoError(t, err)

	require.NoError(t, s.DeleteWhere(ctx, false))
	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, texts(tasks))
}

func TestListAll_CorruptStorageIsEmpty(t *testing.T) {
	ctx := context.Background()
	s, backend, _ := createTestStore(t)

	require.NoError(t, backend.Backend.Set(ctx, DefaultKey, []byte("{not json")))

	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// The next write replaces the malformed document.
	created, err := s.Create(ctx, "fresh")
	require.NoError(t, err)
	tasks, err = s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []task.Task{created}, tasks)
}

func TestListAll_NullDocumentIsEmpty(t *testing.T) {
	ctx := context.Background()
	s, backend, _ := createTestStore(t)

	require.NoError(t, backend.Backend.Set(ctx, DefaultKey, []byte("null")))
	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestListAll_BackendReadFailureIsEmpty(t *testing.T) {
	ctx := context.Background()
	s, backend, _ := createTestStore(t)

	_, err := s.Create(ctx, "hidden")
	require.NoError(t, err)

	backend.getErr = errors.New("disk gone")
	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestWrites_SurfaceStorageUnavailable(t *testing.T) {
	ctx := context.Background()
	s, backend, _ := createTestStore(t)

	created, err := s.Create(ctx, "a")
	require.NoError(t, err)

	backend.setErr = errors.New("quota exceeded")

	_, err = s.Create(ctx, "b")
	assert.True(t, task.IsStorageUnavailable(err))

	_, err = s.Update(ctx, created.ID, task.CompletedPatch(true))
	assert.True(t, task.IsStorageUnavailable(err))

	err = s.Delete(ctx, created.ID)
	assert.True(t, task.IsStorageUnavailable(err))

	backend.setErr = nil
	backend.getErr = errors.New("read failed")

	_, err = s.Create(ctx, "c")
	assert.True(t, task.IsStorageUnavailable(err))

	backend.getErr = nil
	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []task.Task{created}, tasks, "failed writes must leave storage unchanged")
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)

	_, err := s.Create(ctx, "old")
	require.NoError(t, err)

	now := testutil.Epoch
	incoming := []task.Task{
		{ID: "x", Text: " X ", CreatedAt: now, UpdatedAt: now},
		{ID: "y", Text: "Y", Completed: true, CreatedAt: now, UpdatedAt: now.Add(time.Minute)},
	}
	require.NoError(t, s.Replace(ctx, incoming))

	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, texts(tasks))
	assert.True(t, tasks[1].Completed)
}

func TestReplace_RejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t)
	now := testutil.Epoch

	err := s.Replace(ctx, []task.Task{
		{ID: "x", Text: "a", CreatedAt: now, UpdatedAt: now},
		{ID: "x", Text: "b", CreatedAt: now, UpdatedAt: now},
	})
	assert.True(t, task.IsInvalidInput(err))

	err = s.Replace(ctx, []task.Task{{ID: "x", Text: " ", CreatedAt: now, UpdatedAt: now}})
	assert.True(t, task.IsInvalidInput(err))
}

func TestLatency(t *testing.T) {
	ctx := context.Background()
	s, _, _ := createTestStore(t, WithLatency(20*time.Millisecond))

	start := time.Now()
	_, err := s.Create(ctx, "slow")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Create(cancelled, "never")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListAllIgnoresCancellation(t *testing.T) {
	ctx := context.Background()
	s, backend, _ := createTestStore(t, WithLatency(time.Hour))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := s.Create(cancelled, "blocked")
	require.ErrorIs(t, err, context.Canceled)

	fast := New(backend, WithLogger(quietLogger()))
	_, err = fast.Create(ctx, "Buy milk")
	require.NoError(t, err)

	tasks, err := s.ListAll(cancelled)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)

	got, err := s.Get(cancelled, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Text)
}

func TestWithKey(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	s := New(backend, WithKey("other"), WithLogger(quietLogger()))
	assert.Equal(t, "other", s.Key())

	_, err := s.Create(ctx, "x")
	require.NoError(t, err)

	_, ok, err := backend.Get(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = backend.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoundTripAcrossSessions(t *testing.T) {
	ctx := context.Background()

	open := map[string]func(t *testing.T, dir string) kv.Backend{
		"file": func(t *testing.T, dir string) kv.Backend {
			b, err := kv.NewFile(dir)
			require.NoError(t, err)
			return b
		},
		"sqlite": func(t *testing.T, dir string) kv.Backend {
			b, err := kv.OpenSQLite(filepath.Join(dir, "todos.db"))
			require.NoError(t, err)
			return b
		},
	}

	for name, openBackend := range open {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()

			first := openBackend(t, dir)
			s1 := New(first, WithLogger(quietLogger()))
			a, err := s1.Create(ctx, "A")
			require.NoError(t, err)
			_, err = s1.Create(ctx, "B")
			require.NoError(t, err)
			_, err = s1.Update(ctx, a.ID, task.CompletedPatch(true))
			require.NoError(t, err)
			before, err := s1.ListAll(ctx)
			require.NoError(t, err)
			require.NoError(t, first.Close())

			second := openBackend(t, dir)
			defer second.Close()
			s2 := New(second, WithLogger(quietLogger()))
			after, err := s2.ListAll(ctx)
			require.NoError(t, err)

			require.Len(t, after, len(before))
			for i := range before {
				assert.Equal(t, before[i].ID, after[i].ID)
				assert.Equal(t, before[i].Text, after[i].Text)
				assert.Equal(t, before[i].Completed, after[i].Completed)
				assert.True(t, before[i].CreatedAt.Equal(after[i].CreatedAt))
				assert.True(t, before[i].UpdatedAt.Equal(after[i].UpdatedAt))
			}
		})
	}
}

func TestUUIDGenerator(t *testing.T) {
	g := UUIDGenerator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
