package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/todos/internal/kv"
	"github.com/roach88/todos/internal/store"
	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/testutil"
	"github.com/roach88/todos/internal/view"
)

// Harness is the test execution engine.
// It runs one scenario against an in-memory backend with a deterministic
// clock and sequential task ids.
type Harness struct {
	raw     kv.Backend
	backend *switchBackend
	clock   *testutil.DeterministicClock
	ids     *testutil.SequentialIDGenerator
	logger  *slog.Logger

	store      *store.Store
	controller *view.Controller
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs over a fresh kv.Memory for isolation. Ids are
// "task-0001", "task-0002", ... in creation order.
//
// Execution flow:
// 1. Create tasks listed in setup directly through the store
// 2. Start a session (new controller + refresh)
// 3. Execute steps, checking each expect clause
// 4. Evaluate assertions against the trace and final state
func Run(scenario *Scenario) (*Result, error) {
	raw := kv.NewMemory()
	defer raw.Close()

	h := &Harness{
		raw:     raw,
		backend: &switchBackend{Backend: raw},
		clock:   testutil.NewDeterministicClock(),
		ids:     testutil.NewSequentialIDGenerator("task"),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	ctx := context.Background()

	h.openStore()
	for i, text := range scenario.Setup {
		if _, err := h.store.Create(ctx, text); err != nil {
			return nil, fmt.Errorf("failed to execute setup: setup[%d]: %w", i, err)
		}
	}
	h.startSession(ctx)

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.execute(ctx, step); err != nil {
			return nil, fmt.Errorf("failed to execute step %d: %w", i+1, err)
		}
		result.AddTrace(h.traceEvent(i+1, step))

		if step.Expect != nil {
			label := fmt.Sprintf("step %d (%s)", i+1, step.Action)
			for _, msg := range h.check(ctx, label, step.Expect) {
				result.AddError(msg)
			}
		}

		h.logger.Info("step completed", "step", i+1, "action", step.Action)
	}

	actx := &AssertionContext{Ctx: ctx, Harness: h}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) openStore() {
	h.store = store.New(h.backend,
		store.WithClock(h.clock),
		store.WithIDGenerator(h.ids),
		store.WithLogger(h.logger),
	)
}

func (h *Harness) startSession(ctx context.Context) {
	h.controller = view.New(h.store, view.WithLogger(h.logger))
	h.controller.Refresh(ctx)
}

// execute performs one step. Controller actions never return errors; they
// are observed through the recorded state.
func (h *Harness) execute(ctx context.Context, step Step) error {
	c := h.controller
	switch step.Action {
	case ActionRefresh:
		c.Refresh(ctx)
	case ActionAdd:
		c.Add(ctx, step.Text)
	case ActionEdit:
		c.Edit(ctx, step.ID, step.Text)
	case ActionToggle:
		c.Toggle(ctx, step.ID)
	case ActionDelete:
		c.Delete(ctx, step.ID)
	case ActionClearCompleted:
		c.ClearCompleted(ctx)
	case ActionSetFilter:
		f, err := task.ParseFilter(step.Filter)
		if err != nil {
			return err
		}
		c.SetFilter(f)
	case ActionRestart:
		h.openStore()
		h.startSession(ctx)
	case ActionBreakStorage:
		h.backend.broken.Store(true)
	case ActionHealStorage:
		h.backend.broken.Store(false)
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	return nil
}

func (h *Harness) traceEvent(n int, step Step) TraceEvent {
	state := h.controller.Snapshot()
	return TraceEvent{
		Step:   n,
		Action: step.Action,
		Args:   stepArgs(step),
		Filter: state.Filter,
		Error:  state.Error,
		Tasks:  traceTasks(state.Visible),
		Stats:  state.Stats,
	}
}

// stored reads the persisted collection, bypassing a broken backend.
func (h *Harness) stored(ctx context.Context) ([]task.Task, error) {
	st := store.New(h.raw, store.WithLogger(h.logger))
	return st.ListAll(ctx)
}

func stepArgs(step Step) map[string]string {
	args := map[string]string{}
	if step.ID != "" {
		args["id"] = step.ID
	}
	if step.Text != "" {
		args["text"] = step.Text
	}
	if step.Filter != "" {
		args["filter"] = step.Filter
	}
	if len(args) == 0 {
		return nil
	}
	return args
}
