package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/todos/internal/kv"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.yaml"

// AppDir names the per-user config and data directories.
const AppDir = "todos"

// Config holds host application settings.
type Config struct {
	// Backend selects the kv backend: memory, file or sqlite.
	Backend kv.Kind `yaml:"backend"`

	// Path is the data directory (file backend) or database file (sqlite).
	// Empty means the default location under the user data directory.
	Path string `yaml:"path,omitempty"`

	// Latency is a simulated delay added to every store operation.
	Latency time.Duration `yaml:"latency,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:  kv.KindFile,
		LogLevel: "warn",
	}
}

// Load reads path on top of the defaults.
//
// If path is empty the default file is tried and may be absent; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// decode parses YAML into cfg with strict field checking. Empty input leaves
// cfg untouched.
func decode(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := kv.ParseKind(string(c.Backend)); err != nil {
		return err
	}
	if c.Latency < 0 {
		return fmt.Errorf("latency must not be negative, got %s", c.Latency)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ResolvedPath returns the storage location for the configured backend,
// filling in the default when Path is empty.
func (c Config) ResolvedPath() string {
	if c.Path != "" {
		return ExpandPath(c.Path)
	}
	switch c.Backend {
	case kv.KindSQLite:
		return filepath.Join(DefaultDataDir(), "todos.db")
	case kv.KindMemory:
		return ""
	}
	return DefaultDataDir()
}

// Level returns the slog level for LogLevel. Invalid values fall back to
// warn; Validate reports them.
func (c Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return lvl
}

// ParseLevel converts a level name to a slog.Level. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelWarn, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
	}
	return lvl, nil
}
