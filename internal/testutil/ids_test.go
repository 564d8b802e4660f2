package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDGenerator(t *testing.T) {
	g := NewSequentialIDGenerator("")
	assert.Equal(t, "task-0001", g.Generate())
	assert.Equal(t, "task-0002", g.Generate())

	other := NewSequentialIDGenerator("task")
	assert.Equal(t, "task-0001", other.Generate(), "generators do not share a sequence")

	custom := NewSequentialIDGenerator("t")
	assert.Equal(t, "t-0001", custom.Generate())
}

func TestScriptedIDGenerator(t *testing.T) {
	g := NewScriptedIDGenerator("dup", "dup")
	assert.Equal(t, "dup", g.Generate())
	assert.Equal(t, "dup", g.Generate())
	assert.Equal(t, "fallback-0001", g.Generate())
	assert.Equal(t, "fallback-0002", g.Generate())
}
