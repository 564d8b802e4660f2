package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend is a key-value persistence capability.
type Backend interface {
	// Get returns the value stored under key. ok is false if the key has
	// never been set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases resources held by the backend.
	Close() error
}

// Kind names a backend implementation.
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
)

// ValidKinds lists the backends Open accepts.
var ValidKinds = []Kind{KindMemory, KindFile, KindSQLite}

// ErrInvalidKey is returned for keys a backend cannot store.
var ErrInvalidKey = errors.New("invalid key")

// Open creates a backend by kind.
//
// path is ignored for memory, is a directory for file, and is a database
// file for sqlite (":memory:" is accepted).
func Open(kind Kind, path string) (Backend, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindFile:
		f, err := NewFile(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case KindSQLite:
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	return nil, fmt.Errorf("unknown backend %q: must be one of %v", kind, ValidKinds)
}

// ParseKind validates a backend name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidKinds {
		if k == valid {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q: must be one of %v", s, ValidKinds)
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	return nil
}
