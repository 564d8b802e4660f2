package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/todos/internal/schema"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
}

// TransferResult is the JSON payload of export -o and import.
type TransferResult struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list as a JSON document",
		Long: `Write every task as a version 1 document:

  {"version": 1, "tasks": [...]}

Without --output the document is written to stdout as-is, whatever --format
says.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportTasks(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func exportTasks(opts *ExportOptions, cmd *cobra.Command) error {
	return withSession(cmd, opts.RootOptions, func(s *session) error {
		tasks := s.controller.Tasks()
		data, err := schema.Export(tasks)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to export tasks", err)
		}

		if opts.Output == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}

		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write export file", err)
		}
		result := TransferResult{Path: opts.Output, Count: len(tasks)}
		return s.out.Render(result, func(w io.Writer) {
			fmt.Fprintf(w, "Exported %d task(s) to %s\n", result.Count, result.Path)
		})
	})
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the task list with a JSON document",
		Long: `Replace the whole task list with the tasks in a document written by
export. A bare JSON array of tasks is accepted too.

The document is checked against the task schema first; nothing is written
if any task is invalid or two tasks share an id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return importTasks(rootOpts, args[0], cmd)
		},
	}
}

func importTasks(opts *RootOptions, path string, cmd *cobra.Command) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read import file", err)
	}

	return withSession(cmd, opts, func(s *session) error {
		doc, err := schema.Import(data)
		if err != nil {
			var verrs schema.ValidationErrors
			if errors.As(err, &verrs) {
				return s.out.Fail(ExitFailure, CodeImportFailed, verrs.Error(), verrs)
			}
			return s.out.Fail(ExitFailure, CodeImportFailed, err.Error(), nil)
		}

		if err := s.store.Replace(cmd.Context(), doc.Tasks); err != nil {
			return s.out.Fail(ExitFailure, CodeImportFailed, "failed to import tasks", err.Error())
		}
		s.logger.Info("tasks imported", "count", len(doc.Tasks), "path", path)

		result := TransferResult{Path: path, Count: len(doc.Tasks)}
		return s.out.Render(result, func(w io.Writer) {
			fmt.Fprintf(w, "Imported %d task(s) from %s\n", result.Count, result.Path)
		})
	})
}
