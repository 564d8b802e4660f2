package task

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsMatchSentinels(t *testing.T) {
	nf := NewError(KindNotFound, "update", "abc", "")
	assert.True(t, errors.Is(nf, ErrNotFound))
	assert.False(t, errors.Is(nf, ErrInvalidInput))
	assert.Equal(t, "update: task not found (id=abc)", nf.Error())

	wrapped := fmt.Errorf("toggle: %w", nf)
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, KindNotFound, KindOf(wrapped))

	cause := errors.New("disk full")
	su := WrapError(KindStorageUnavailable, "create", "", cause)
	assert.True(t, IsStorageUnavailable(su))
	assert.ErrorIs(t, su, cause)
	assert.Equal(t, "create: storage unavailable: disk full", su.Error())

	ii := NewError(KindInvalidInput, "create", "", "text must not be empty")
	assert.True(t, IsInvalidInput(ii))
	assert.Equal(t, "create: text must not be empty", ii.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
