package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator returns "<prefix>-0001", "<prefix>-0002", ...
//
// Thread-safety: safe for concurrent use.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator. An empty prefix defaults to
// "task".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "task"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id in sequence.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// ScriptedIDGenerator returns the given ids in order, then falls back to a
// SequentialIDGenerator with prefix "fallback". It exists to force id
// collisions in tests.
type ScriptedIDGenerator struct {
	mu       sync.Mutex
	ids      []string
	fallback *SequentialIDGenerator
}

// NewScriptedIDGenerator creates a generator that replays ids.
func NewScriptedIDGenerator(ids ...string) *ScriptedIDGenerator {
	return &ScriptedIDGenerator{
		ids:      ids,
		fallback: NewSequentialIDGenerator("fallback"),
	}
}

// Generate returns the next scripted id, or a fallback id once exhausted.
func (g *ScriptedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.ids) == 0 {
		return g.fallback.Generate()
	}
	id := g.ids[0]
	g.ids = g.ids[1:]
	return id
}
