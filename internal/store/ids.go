package store

import (
	"github.com/google/uuid"

	"github.com/roach88/todos/internal/task"
)

// IDGenerator produces task ids.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator produces UUIDv7 ids: a 48-bit millisecond timestamp followed
// by random bits, so ids sort roughly by creation time and do not collide.
type UUIDGenerator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDGenerator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// newID returns an id not used by any task in tasks. The configured
// generator gets maxIDAttempts tries before falling back to random UUIDs.
func (s *Store) newID(tasks []task.Task) string {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.ids.Generate()
		if id != "" && task.Index(tasks, id) < 0 {
			return id
		}
		s.logger.Warn("generated task id collides, retrying", "id", id)
	}
	for {
		id := uuid.NewString()
		if task.Index(tasks, id) < 0 {
			return id
		}
	}
}
