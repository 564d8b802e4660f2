package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/todos/internal/config"
	"github.com/roach88/todos/internal/kv"
	"github.com/roach88/todos/internal/store"
	"github.com/roach88/todos/internal/task"
	"github.com/roach88/todos/internal/view"
)

// session is one CLI invocation's view of the task list: a loaded
// controller over the configured backend.
type session struct {
	cfg        config.Config
	logger     *slog.Logger
	backend    kv.Backend
	store      *store.Store
	controller *view.Controller
	out        *OutputFormatter
}

// resolveConfig loads the config file and applies flag overrides.
func resolveConfig(cmd *cobra.Command, opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	if opts.Backend != "" {
		kind, err := kv.ParseKind(opts.Backend)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Backend = kind
	}
	if opts.Path != "" {
		cfg.Path = opts.Path
	}
	if cmd.Flags().Changed("latency") {
		cfg.Latency = opts.Latency
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openSession opens storage and loads the collection, the way the
// application does at startup.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Level())

	path := cfg.ResolvedPath()
	if cfg.Backend == kv.KindSQLite && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create data directory", err)
		}
	}

	backend, err := kv.Open(cfg.Backend, path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open storage", err)
	}
	logger.Debug("storage opened", "backend", cfg.Backend, "path", path)

	st := store.New(backend,
		store.WithLatency(cfg.Latency),
		store.WithLogger(logger),
	)
	c := view.New(st, view.WithLogger(logger))
	c.Refresh(cmd.Context())

	out := newFormatter(cmd, opts)
	out.VerboseLog("using %s storage at %q, key %q", cfg.Backend, path, st.Key())

	return &session{
		cfg:        cfg,
		logger:     logger,
		backend:    backend,
		store:      st,
		controller: c,
		out:        out,
	}, nil
}

// Close releases the backend.
func (s *session) Close() error {
	return s.backend.Close()
}

// checkErr turns an error recorded by the controller into an ExitError.
func (s *session) checkErr() error {
	if msg := s.controller.Err(); msg != "" {
		return s.out.Fail(ExitFailure, CodeOperationFailed, msg, nil)
	}
	return nil
}

// requireTask looks id up in the loaded collection.
func (s *session) requireTask(id string) (task.Task, error) {
	t, ok := task.Find(s.controller.Tasks(), id)
	if !ok {
		return task.Task{}, s.out.Fail(ExitFailure, CodeNotFound, "task not found: "+id, map[string]string{"id": id})
	}
	return t, nil
}

// withSession opens a session, runs fn and closes the session.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(s *session) error) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.checkErr(); err != nil {
		return err
	}
	return fn(s)
}
