package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/todos/internal/task"
)

//go:embed task.cue
var schemaCUE string

// Version is the document version this package writes.
const Version = 1

// Document is the exchange format for a task collection.
type Document struct {
	Version int         `json:"version"`
	Tasks   []task.Task `json:"tasks"`
}

// ValidationError describes one schema violation.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is returned when a document fails validation.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "invalid document: " + strings.Join(msgs, "; ")
}

var (
	// mu guards cueCtx; a cue.Context is not safe for concurrent use.
	mu          sync.Mutex
	compileOnce sync.Once
	cueCtx      *cue.Context
	docDef      cue.Value
	compileErr  error
)

func definition() (*cue.Context, cue.Value, error) {
	compileOnce.Do(func() {
		cueCtx = cuecontext.New()
		v := cueCtx.CompileString(schemaCUE, cue.Filename("task.cue"))
		if err := v.Err(); err != nil {
			compileErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		docDef = v.LookupPath(cue.ParsePath("#Document"))
		if !docDef.Exists() {
			compileErr = fmt.Errorf("compile schema: #Document not defined")
		}
	})
	return cueCtx, docDef, compileErr
}

// Validate checks data against #Document.
func Validate(data []byte) error {
	mu.Lock()
	defer mu.Unlock()

	ctx, def, err := definition()
	if err != nil {
		return err
	}

	v := ctx.CompileBytes(data, cue.Filename("document.json"))
	if err := v.Err(); err != nil {
		return ValidationErrors{{Message: fmt.Sprintf("parse: %v", err)}}
	}

	// Concrete so that a missing required field is an error, not an open
	// constraint.
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

// Export renders tasks as an indented version 1 document.
func Export(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(Document{Version: Version, Tasks: tasks}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(data, '\n'), nil
}

// Import validates and decodes a document or a bare task array.
// Record-level invariants (createdAt <= updatedAt, unique ids) are checked
// after decoding.
func Import(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		wrapped, err := json.Marshal(struct {
			Version int             `json:"version"`
			Tasks   json.RawMessage `json:"tasks"`
		}{Version, trimmed})
		if err != nil {
			return nil, fmt.Errorf("wrap task array: %w", err)
		}
		data = wrapped
	}

	if err := Validate(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Tasks == nil {
		doc.Tasks = []task.Task{}
	}

	var errs ValidationErrors
	seen := make(map[string]int, len(doc.Tasks))
	for i, t := range doc.Tasks {
		path := fmt.Sprintf("tasks.%d", i)
		if first, dup := seen[t.ID]; dup {
			errs = append(errs, ValidationError{Path: path + ".id", Message: fmt.Sprintf("duplicate id %q (first at tasks.%d)", t.ID, first)})
			continue
		}
		seen[t.ID] = i
		if t.UpdatedAt.Before(t.CreatedAt) {
			errs = append(errs, ValidationError{Path: path + ".updatedAt", Message: "updatedAt precedes createdAt"})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &doc, nil
}

func toValidationErrors(err error) ValidationErrors {
	var out ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		out = append(out, ValidationError{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: err.Error()})
	}
	return out
}
