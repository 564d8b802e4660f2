package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/todos/internal/task"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Long: `Add a task. The arguments are joined with spaces.

Examples:
  todos add Buy milk
  todos add "Walk the dog"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addTask(rootOpts, strings.Join(args, " "), cmd)
		},
	}
}

func addTask(opts *RootOptions, text string, cmd *cobra.Command) error {
	return withSession(cmd, opts, func(s *session) error {
		if task.NormalizeText(text) == "" {
			return s.out.Fail(ExitCommandError, CodeInvalidInput, "task text must not be empty", nil)
		}

		before := len(s.controller.Tasks())
		s.controller.Add(cmd.Context(), text)
		if err := s.checkErr(); err != nil {
			return err
		}

		tasks := s.controller.Tasks()
		if len(tasks) == before {
			return s.out.Fail(ExitFailure, CodeOperationFailed, "task was not added", nil)
		}
		created := tasks[0]
		return s.out.Render(created, func(w io.Writer) {
			fmt.Fprintf(w, "Added %s: %s\n", created.ID, created.Text)
		})
	})
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace a task's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editTask(rootOpts, args[0], strings.Join(args[1:], " "), cmd)
		},
	}
}

func editTask(opts *RootOptions, id, text string, cmd *cobra.Command) error {
	return withSession(cmd, opts, func(s *session) error {
		if task.NormalizeText(text) == "" {
			return s.out.Fail(ExitCommandError, CodeInvalidInput, "task text must not be empty", nil)
		}
		if _, err := s.requireTask(id); err != nil {
			return err
		}

		s.controller.Edit(cmd.Context(), id, text)
		if err := s.checkErr(); err != nil {
			return err
		}

		updated, _ := task.Find(s.controller.Tasks(), id)
		return s.out.Render(updated, func(w io.Writer) {
			fmt.Fprintf(w, "Updated %s: %s\n", updated.ID, updated.Text)
		})
	})
}

// NewToggleCommand creates the toggle command.
func NewToggleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Mark a task completed, or active again",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggleTask(rootOpts, args[0], cmd)
		},
	}
}

func toggleTask(opts *RootOptions, id string, cmd *cobra.Command) error {
	return withSession(cmd, opts, func(s *session) error {
		if _, err := s.requireTask(id); err != nil {
			return err
		}

		s.controller.Toggle(cmd.Context(), id)
		if err := s.checkErr(); err != nil {
			return err
		}

		updated, _ := task.Find(s.controller.Tasks(), id)
		return s.out.Render(updated, func(w io.Writer) {
			verb := "Reopened"
			if updated.Completed {
				verb = "Completed"
			}
			fmt.Fprintf(w, "%s %s: %s\n", verb, updated.ID, updated.Text)
		})
	})
}

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return removeTask(rootOpts, args[0], cmd)
		},
	}
}

func removeTask(opts *RootOptions, id string, cmd *cobra.Command) error {
	return withSession(cmd, opts, func(s *session) error {
		if _, err := s.requireTask(id); err != nil {
			return err
		}

		s.controller.Delete(cmd.Context(), id)
		if err := s.checkErr(); err != nil {
			return err
		}

		return s.out.Render(map[string]string{"id": id}, func(w io.Writer) {
			fmt.Fprintf(w, "Deleted %s\n", id)
		})
	})
}

// ClearResult is the JSON payload of the clear command.
type ClearResult struct {
	Removed int        `json:"removed"`
	Stats   task.Stats `json:"stats"`
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				before := s.controller.Stats()
				s.controller.ClearCompleted(cmd.Context())
				if err := s.checkErr(); err != nil {
					return err
				}

				after := s.controller.Stats()
				result := ClearResult{Removed: before.Total - after.Total, Stats: after}
				return s.out.Render(result, func(w io.Writer) {
					fmt.Fprintf(w, "Cleared %d completed task(s)\n", result.Removed)
				})
			})
		},
	}
}
