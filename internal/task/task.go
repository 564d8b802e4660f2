package task

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Task is the sole persisted entity.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch is a partial update. A nil field means "no change".
// ID and CreatedAt are immutable and have no place here.
type Patch struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// TextPatch returns a patch that sets only the text.
func TextPatch(text string) Patch {
	return Patch{Text: &text}
}

// CompletedPatch returns a patch that sets only the completion flag.
func CompletedPatch(completed bool) Patch {
	return Patch{Completed: &completed}
}

// NormalizeText trims surrounding whitespace and converts the result to
// Unicode NFC so visually identical input is stored identically.
// An empty return value means the text is not acceptable for a task.
func NormalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// Apply merges the patch into t and stamps UpdatedAt with now.
// The caller is responsible for validating the patch text first.
func (t *Task) Apply(p Patch, now time.Time) {
	if p.Text != nil {
		t.Text = NormalizeText(*p.Text)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	// UpdatedAt never moves backwards, even if the clock does.
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	t.UpdatedAt = now
}

// Validate checks the record-level invariants of a single task.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return NewError(KindInvalidInput, "validate", t.ID, "id is required")
	}
	if NormalizeText(t.Text) == "" {
		return NewError(KindInvalidInput, "validate", t.ID, "text must not be empty")
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return NewError(KindInvalidInput, "validate", t.ID, "updatedAt precedes createdAt")
	}
	return nil
}

// Index returns the position of the task with id, or -1.
func Index(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the task with id and whether it exists.
func Find(tasks []Task, id string) (Task, bool) {
	if i := Index(tasks, id); i >= 0 {
		return tasks[i], true
	}
	return Task{}, false
}

// Clone returns a copy of tasks that shares no backing array with it.
// A nil input yields an empty, non-nil slice.
func Clone(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
