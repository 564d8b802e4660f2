package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/view"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Filter string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, newest first",
		Long: `List tasks, newest first, followed by counts over the whole list.

Examples:
  todos list
  todos list --filter active
  todos list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTasks(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "all", "show all, active or completed tasks")

	return cmd
}

func listTasks(opts *ListOptions, cmd *cobra.Command) error {
	filter, err := task.ParseFilter(opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --filter", err)
	}

	return withSession(cmd, opts.RootOptions, func(s *session) error {
		s.controller.SetFilter(filter)
		state := s.controller.Snapshot()
		return s.out.Render(state, func(w io.Writer) { writeState(w, state) })
	})
}

func writeState(w io.Writer, state view.State) {
	if len(state.Visible) == 0 {
		if state.Filter == task.FilterAll {
			fmt.Fprintln(w, "No tasks.")
		} else {
			fmt.Fprintf(w, "No %s tasks.\n", state.Filter)
		}
	}
	for _, t := range state.Visible {
		fmt.Fprintln(w, formatTask(t))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, state.Stats)
}

func formatTask(t task.Task) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s  %s", mark, t.ID, t.Text)
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, rootOpts, func(s *session) error {
				stats := s.controller.Stats()
				return s.out.Render(stats, func(w io.Writer) { fmt.Fprintln(w, stats) })
			})
		},
	}
}
