package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/todos/internal/task"
)

// AssertionContext carries what assertions need beyond the trace.
type AssertionContext struct {
	Ctx     context.Context
	Harness *Harness
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v\n", event.Step, event.Action, event.Args)
		}
	}

	return buf.String()
}

// assertTraceOrder checks if actions appear in the specified order.
// Actions don't need to be consecutive (intervening actions are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	next := 0
	for _, event := range trace {
		if next < len(assertion.Actions) && event.Action == assertion.Actions[next] {
			next++
		}
	}

	if next < len(assertion.Actions) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("actions in order: %v", assertion.Actions),
			Actual:   fmt.Sprintf("%s not found after %v", assertion.Actions[next], assertion.Actions[:next]),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceCount checks if the action appears exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Action == assertion.Action {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks the controller's final state.
func assertFinalState(actx *AssertionContext, assertion Assertion) error {
	msgs := actx.Harness.check(actx.Ctx, "final state", assertion.Expect)
	if len(msgs) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalState,
		Expected: "final state matches expect",
		Actual:   strings.Join(msgs, "; "),
	}
}

// EvaluateAssertions runs every assertion and returns one message per
// failure.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertFinalState:
			err = assertFinalState(actx, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

// check compares the controller (and, if asked, the store) against exp.
func (h *Harness) check(ctx context.Context, label string, exp *Expect) []string {
	if exp == nil {
		return nil
	}

	var errs []string
	state := h.controller.Snapshot()

	if exp.Visible != nil {
		if got := texts(state.Visible); !slices.Equal(got, exp.Visible) {
			errs = append(errs, fmt.Sprintf("%s: visible = %q, want %q", label, got, exp.Visible))
		}
	}

	if exp.Stats != nil && state.Stats != *exp.Stats {
		errs = append(errs, fmt.Sprintf("%s: stats = %s, want %s", label, state.Stats, *exp.Stats))
	}

	if exp.Error != nil && state.Error != *exp.Error {
		errs = append(errs, fmt.Sprintf("%s: error = %q, want %q", label, state.Error, *exp.Error))
	}

	if exp.Completed != nil {
		var got []string
		for _, t := range h.controller.Tasks() {
			if t.Completed {
				got = append(got, t.Text)
			}
		}
		if !slices.Equal(got, exp.Completed) {
			errs = append(errs, fmt.Sprintf("%s: completed = %q, want %q", label, got, exp.Completed))
		}
	}

	if exp.Stored != nil {
		stored, err := h.stored(ctx)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: read store: %v", label, err))
		} else if got := texts(stored); !slices.Equal(got, exp.Stored) {
			errs = append(errs, fmt.Sprintf("%s: stored = %q, want %q", label, got, exp.Stored))
		}
	}

	return errs
}

func texts(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}
