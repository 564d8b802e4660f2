package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/todos/internal/task"
)

// Store is the subset of the task store the controller drives.
type Store interface {
	ListAll(ctx context.Context) ([]task.Task, error)
	Create(ctx context.Context, text string) (task.Task, error)
	Update(ctx context.Context, id string, patch task.Patch) (task.Task, error)
	Delete(ctx context.Context, id string) error
	DeleteCompleted(ctx context.Context) error
}

// Messages recorded in Err when an action fails.
const (
	MsgLoadFailed   = "failed to load tasks"
	MsgAddFailed    = "failed to add task"
	MsgUpdateFailed = "failed to update task"
	MsgDeleteFailed = "failed to delete task"
	MsgClearFailed  = "failed to clear completed tasks"
)

// State is a point-in-time copy of everything a presentation layer renders.
type State struct {
	Filter  task.Filter `json:"filter"`
	Loading bool        `json:"loading"`
	Error   string      `json:"error,omitempty"`
	Visible []task.Task `json:"tasks"`
	Stats   task.Stats  `json:"stats"`
}

// Observer is notified with a fresh State after every state transition.
// It is called synchronously and must not call back into the Controller's
// actions.
type Observer func(State)

// Controller orchestrates a single session.
//
// Thread-safety: all methods are safe for concurrent use. Store-touching
// actions are serialized by opMu; reads take mu only.
type Controller struct {
	store    Store
	logger   *slog.Logger
	observer Observer

	opMu sync.Mutex

	mu      sync.RWMutex
	tasks   []task.Task
	filter  task.Filter
	loading bool
	err     string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithObserver registers a callback for state transitions.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// New creates a Controller with an empty collection and FilterAll.
// Call Refresh to load the collection.
func New(s Store, opts ...Option) *Controller {
	c := &Controller{
		store:  s,
		tasks:  []task.Task{},
		filter: task.FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Refresh replaces the in-memory collection with the store's.
// On failure the previous collection is kept and MsgLoadFailed recorded.
func (c *Controller) Refresh(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	ctx = context.WithoutCancel(ctx)

	c.update(func() {
		c.err = ""
		c.loading = true
	})

	tasks, err := c.store.ListAll(ctx)

	c.update(func() {
		c.loading = false
		if err != nil {
			c.fail("refresh", MsgLoadFailed, err)
			return
		}
		c.tasks = task.Clone(tasks)
	})
}

// Add creates a task and prepends it. Text that trims to empty is ignored.
func (c *Controller) Add(ctx context.Context, text string) {
	if task.NormalizeText(text) == "" {
		return
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()
	ctx = context.WithoutCancel(ctx)

	c.clearError()
	created, err := c.store.Create(ctx, text)

	c.update(func() {
		if err != nil {
			c.fail("add", MsgAddFailed, err)
			return
		}
		tasks := make([]task.Task, 0, len(c.tasks)+1)
		tasks = append(tasks, created)
		c.tasks = append(tasks, c.tasks...)
	})
}

// Edit replaces a task's text. Text that trims to empty is ignored.
func (c *Controller) Edit(ctx context.Context, id, text string) {
	text = task.NormalizeText(text)
	if text == "" {
		return
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.apply(context.WithoutCancel(ctx), "edit", id, task.TextPatch(text))
}

// Toggle flips a task's completion flag. Ids not in the in-memory
// collection are ignored.
func (c *Controller) Toggle(ctx context.Context, id string) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.RLock()
	current, ok := task.Find(c.tasks, id)
	c.mu.RUnlock()
	if !ok {
		return
	}

	c.apply(context.WithoutCancel(ctx), "toggle", id, task.CompletedPatch(!current.Completed))
}

// Delete removes a task. It is removed from memory on success whether or
// not the store had it.
func (c *Controller) Delete(ctx context.Context, id string) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	ctx = context.WithoutCancel(ctx)

	c.clearError()
	err := c.store.Delete(ctx, id)

	c.update(func() {
		if err != nil {
			c.fail("delete", MsgDeleteFailed, err)
			return
		}
		c.tasks = removeWhere(c.tasks, func(t task.Task) bool { return t.ID == id })
	})
}

// ClearCompleted removes every completed task.
func (c *Controller) ClearCompleted(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	ctx = context.WithoutCancel(ctx)

	c.clearError()
	err := c.store.DeleteCompleted(ctx)

	c.update(func() {
		if err != nil {
			c.fail("clear completed", MsgClearFailed, err)
			return
		}
		c.tasks = removeWhere(c.tasks, func(t task.Task) bool { return t.Completed })
	})
}

// SetFilter changes the active filter. It performs no I/O. Names are
// matched as task.ParseFilter does; an unknown name selects task.FilterAll.
func (c *Controller) SetFilter(f task.Filter) {
	parsed, err := task.ParseFilter(string(f))
	if err != nil {
		parsed = task.FilterAll
	}
	c.update(func() { c.filter = parsed })
}

// apply sends patch to the store and swaps in the returned task.
// Callers hold opMu.
func (c *Controller) apply(ctx context.Context, op, id string, patch task.Patch) {
	c.clearError()
	updated, err := c.store.Update(ctx, id, patch)

	c.update(func() {
		if err != nil {
			c.fail(op, MsgUpdateFailed, err)
			return
		}
		if i := task.Index(c.tasks, id); i >= 0 {
			tasks := task.Clone(c.tasks)
			tasks[i] = updated
			c.tasks = tasks
		}
	})
}

func (c *Controller) clearError() {
	c.update(func() { c.err = "" })
}

// fail records msg and logs the cause. Callers hold mu.
func (c *Controller) fail(op, msg string, err error) {
	c.err = msg
	c.logger.Error(msg,
		"op", op,
		"kind", string(task.KindOf(err)),
		"error", err,
	)
}

// update runs fn under the state lock and then notifies the observer.
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	fn()
	var snap State
	if c.observer != nil {
		snap = c.snapshotLocked()
	}
	c.mu.Unlock()

	if c.observer != nil {
		c.observer(snap)
	}
}

func removeWhere(tasks []task.Task, match func(task.Task) bool) []task.Task {
	kept := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !match(t) {
			kept = append(kept, t)
		}
	}
	return kept
}
