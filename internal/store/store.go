package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/todos/internal/kv"
	"github.com/roach88/todos/internal/task"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "todos-api-data"

// maxIDAttempts bounds how often an id is regenerated on collision before
// falling back to a random UUID.
const maxIDAttempts = 8

// Store is the sole reader and writer of the persisted task collection.
//
// Thread-safety: all methods are safe for concurrent use; each one runs its
// read-modify-write under a single mutex.
type Store struct {
	mu      sync.Mutex
	backend kv.Backend
	key     string
	clock   task.Clock
	ids     IDGenerator
	latency time.Duration
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for CreatedAt and UpdatedAt.
func WithClock(c task.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator sets the generator used for new task ids.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithLatency adds a simulated delay before every operation.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store over backend. The caller keeps ownership of backend
// and closes it.
func New(backend kv.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		clock:   task.NewSystemClock(),
		ids:     UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Key returns the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// ListAll returns the full collection in stored order.
//
// It never fails: unreadable storage yields an empty collection, and ctx
// ending only cuts the simulated latency short. The error return is kept
// for symmetry with the write operations and is always nil.
func (s *Store) ListAll(ctx context.Context) ([]task.Task, error) {
	_ = s.wait(ctx)
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("task storage unreadable, treating as empty",
			"key", s.key,
			"error", err,
		)
		return []task.Task{}, nil
	}
	return tasks, nil
}

// Get returns the task with id.
func (s *Store) Get(ctx context.Context, id string) (task.Task, error) {
	tasks, err := s.ListAll(ctx)
	if err != nil {
		return task.Task{}, err
	}
	t, ok := task.Find(tasks, id)
	if !ok {
		return task.Task{}, task.NewError(task.KindNotFound, "get", id, "")
	}
	return t, nil
}

// Create validates text and prepends a new, incomplete task.
func (s *Store) Create(ctx context.Context, text string) (task.Task, error) {
	text = task.NormalizeText(text)
	if text == "" {
		return task.Task{}, task.NewError(task.KindInvalidInput, "create", "", "text must not be empty")
	}

	if err := s.wait(ctx); err != nil {
		return task.Task{}, fmt.Errorf("create: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadForWrite(ctx, "create")
	if err != nil {
		return task.Task{}, err
	}

	now := s.clock.Now()
	t := task.Task{
		ID:        s.newID(tasks),
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	updated := make([]task.Task, 0, len(tasks)+1)
	updated = append(updated, t)
	updated = append(updated, tasks...)

	if err := s.save(ctx, "create", updated); err != nil {
		return task.Task{}, err
	}

	s.logger.Debug("task created", "id", t.ID)
	return t, nil
}

// Update merges patch into the task with id and refreshes UpdatedAt.
// The task keeps its position in the collection.
func (s *Store) Update(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	if patch.Text != nil && task.NormalizeText(*patch.Text) == "" {
		return task.Task{}, task.NewError(task.KindInvalidInput, "update", id, "text must not be empty")
	}

	if err := s.wait(ctx); err != nil {
		return task.Task{}, fmt.Errorf("update: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadForWrite(ctx, "update")
	if err != nil {
		return task.Task{}, err
	}

	i := task.Index(tasks, id)
	if i < 0 {
		return task.Task{}, task.NewError(task.KindNotFound, "update", id, "")
	}

	t := tasks[i]
	t.Apply(patch, s.clock.Now())
	tasks[i] = t

	if err := s.save(ctx, "update", tasks); err != nil {
		return task.Task{}, err
	}

	s.logger.Debug("task updated", "id", id)
	return t, nil
}

// Delete removes the task with id. Deleting an absent id succeeds and
// writes nothing.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.remove(ctx, "delete", func(t task.Task) bool { return t.ID == id })
}

// DeleteWhere removes every task whose Completed flag equals completed.
func (s *Store) DeleteWhere(ctx context.Context, completed bool) error {
	return s.remove(ctx, "delete where", func(t task.Task) bool { return t.Completed == completed })
}

// DeleteCompleted removes every completed task.
func (s *Store) DeleteCompleted(ctx context.Context) error {
	return s.DeleteWhere(ctx, true)
}

// Replace swaps the whole collection for tasks, in the given order.
// Every task must be valid and ids must be unique.
func (s *Store) Replace(ctx context.Context, tasks []task.Task) error {
	seen := make(map[string]bool, len(tasks))
	normalized := make([]task.Task, len(tasks))
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("replace: task %d: %w", i, err)
		}
		if seen[t.ID] {
			return task.NewError(task.KindInvalidInput, "replace", t.ID, "duplicate id")
		}
		seen[t.ID] = true
		t.Text = task.NormalizeText(t.Text)
		t.CreatedAt = t.CreatedAt.UTC()
		t.UpdatedAt = t.UpdatedAt.UTC()
		normalized[i] = t
	}

	if err := s.wait(ctx); err != nil {
		return fmt.Errorf("replace: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, "replace", normalized); err != nil {
		return err
	}
	s.logger.Debug("tasks replaced", "count", len(normalized))
	return nil
}

func (s *Store) remove(ctx context.Context, op string, match func(task.Task) bool) error {
	if err := s.wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadForWrite(ctx, op)
	if err != nil {
		return err
	}

	kept := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !match(t) {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return nil
	}

	if err := s.save(ctx, op, kept); err != nil {
		return err
	}
	s.logger.Debug("tasks removed", "op", op, "count", len(tasks)-len(kept))
	return nil
}

// load reads and decodes the collection. A missing key is an empty
// collection; backend and decode failures are returned.
func (s *Store) load(ctx context.Context) ([]task.Task, error) {
	data, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, task.WrapError(task.KindStorageUnavailable, "load", "", err)
	}
	if !ok || len(data) == 0 {
		return []task.Task{}, nil
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &corruptError{err: err}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// loadForWrite is load for mutating operations: a malformed document is
// replaced by the write, a failing backend is reported.
func (s *Store) loadForWrite(ctx context.Context, op string) ([]task.Task, error) {
	tasks, err := s.load(ctx)
	if err == nil {
		return tasks, nil
	}
	if isCorrupt(err) {
		s.logger.Warn("task storage malformed, starting from empty",
			"op", op,
			"key", s.key,
			"error", err,
		)
		return []task.Task{}, nil
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

func (s *Store) save(ctx context.Context, op string, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return task.WrapError(task.KindStorageUnavailable, op, "", fmt.Errorf("marshal tasks: %w", err))
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return task.WrapError(task.KindStorageUnavailable, op, "", err)
	}
	return nil
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
