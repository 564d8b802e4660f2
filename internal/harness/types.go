package harness

import "github.com/roach88/todos/internal/task"

// TraceTask is the part of a task recorded in the trace. Timestamps are
// left out so traces read the same whatever the clock step.
type TraceTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TraceEvent records one executed step and the state it left behind.
type TraceEvent struct {
	Step   int               `json:"step"`
	Action string            `json:"action"`
	Args   map[string]string `json:"args,omitempty"`
	Filter task.Filter       `json:"filter"`
	Error  string            `json:"error,omitempty"`
	Tasks  []TraceTask       `json:"tasks"`
	Stats  task.Stats        `json:"stats"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expectations and assertions hold.
	Pass bool `json:"pass"`

	// Trace contains one event per executed step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}

func traceTasks(tasks []task.Task) []TraceTask {
	out := make([]TraceTask, len(tasks))
	for i, t := range tasks {
		out[i] = TraceTask{ID: t.ID, Text: t.Text, Completed: t.Completed}
	}
	return out
}
