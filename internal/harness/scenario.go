package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/todos/internal/task"
)

// Scenario defines a conformance test scenario.
// A scenario drives a fresh View Controller through a list of steps and
// checks the visible state after each one.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup lists task texts written to the store before the session starts.
	// They are created in order, so the last entry is listed first.
	Setup []string `yaml:"setup,omitempty"`

	// Steps is the main flow. Each step performs one user action.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	// Supported types: trace_count, trace_order, final_state
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one user action with an optional expectation on the resulting
// state.
type Step struct {
	// Action is one of the Action* constants.
	Action string `yaml:"action"`

	// ID is the target task for edit, toggle and delete.
	ID string `yaml:"id,omitempty"`

	// Text is the input for add and edit.
	Text string `yaml:"text,omitempty"`

	// Filter is the input for set_filter.
	Filter string `yaml:"filter,omitempty"`

	// Expect is checked against the controller after the step.
	// If nil, nothing is checked.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the state a step must leave behind. Nil fields are not
// checked.
type Expect struct {
	// Visible is the ordered list of visible task texts.
	Visible []string `yaml:"visible,omitempty"`

	// Stats are the aggregate counts over the whole collection.
	Stats *task.Stats `yaml:"stats,omitempty"`

	// Error is the recorded error message. An empty string asserts no error.
	Error *string `yaml:"error,omitempty"`

	// Stored is the ordered list of task texts the store holds.
	Stored []string `yaml:"stored,omitempty"`

	// Completed lists the texts of tasks that must be completed.
	Completed []string `yaml:"completed,omitempty"`
}

// Assertion validates the final trace or state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_count": Check action appears exactly Count times
	// - "trace_order": Check actions appear in order
	// - "final_state": Check the final controller state against Expect
	Type string `yaml:"type"`

	// Action is the step action (used by trace_count).
	Action string `yaml:"action,omitempty"`

	// Count is the expected number of occurrences (used by trace_count).
	Count int `yaml:"count,omitempty"`

	// Actions is the expected action order (used by trace_order).
	Actions []string `yaml:"actions,omitempty"`

	// Expect contains the expected final state (used by final_state).
	Expect *Expect `yaml:"expect,omitempty"`
}

// Step actions.
const (
	ActionRefresh        = "refresh"
	ActionAdd            = "add"
	ActionEdit           = "edit"
	ActionToggle         = "toggle"
	ActionDelete         = "delete"
	ActionClearCompleted = "clear_completed"
	ActionSetFilter      = "set_filter"
	ActionRestart        = "restart"
	ActionBreakStorage   = "break_storage"
	ActionHealStorage    = "heal_storage"
)

var validActions = map[string]bool{
	ActionRefresh:        true,
	ActionAdd:            true,
	ActionEdit:           true,
	ActionToggle:         true,
	ActionDelete:         true,
	ActionClearCompleted: true,
	ActionSetFilter:      true,
	ActionRestart:        true,
	ActionBreakStorage:   true,
	ActionHealStorage:    true,
}

// Assertion type constants.
const (
	AssertTraceCount = "trace_count"
	AssertTraceOrder = "trace_order"
	AssertFinalState = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, text := range s.Setup {
		if task.NormalizeText(text) == "" {
			return fmt.Errorf("setup[%d]: text must not be empty", i)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s *Step) error {
	if s.Action == "" {
		return fmt.Errorf("steps[%d]: action is required", index)
	}
	if !validActions[s.Action] {
		return fmt.Errorf("steps[%d]: unknown action %q", index, s.Action)
	}

	switch s.Action {
	case ActionEdit, ActionToggle, ActionDelete:
		if s.ID == "" {
			return fmt.Errorf("steps[%d]: id is required for %s", index, s.Action)
		}
	case ActionSetFilter:
		if _, err := task.ParseFilter(s.Filter); err != nil {
			return fmt.Errorf("steps[%d]: %w", index, err)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertFinalState:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
