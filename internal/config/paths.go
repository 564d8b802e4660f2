package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultFile returns <user config dir>/todos/config.yaml, or "" if the user
// config directory cannot be determined.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppDir, FileName)
}

// DefaultDataDir returns $XDG_DATA_HOME/todos, falling back to
// ~/.local/share/todos and finally ./.todos.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".todos"
	}
	return filepath.Join(home, ".local", "share", AppDir)
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
