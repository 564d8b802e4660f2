// Package config loads settings for the todos host application.
//
// Sources, lowest priority first:
//
//  1. Defaults
//  2. A YAML file (the --config flag, or <user config dir>/todos/config.yaml)
//  3. Command-line flags, applied by the caller
//
// Example file:
//
//	backend: sqlite
//	path: ~/.local/share/todos/todos.db
//	latency: 300ms
//	log_level: info
//
// Unknown keys are rejected so typos surface instead of being ignored.
package config
