package store

import (
	"errors"
	"fmt"
)

// corruptError marks a stored document that exists but cannot be decoded.
type corruptError struct {
	err error
}

func (e *corruptError) Error() string {
	return fmt.Sprintf("malformed task document: %v", e.err)
}

func (e *corruptError) Unwrap() error {
	return e.err
}

func isCorrupt(err error) bool {
	var ce *corruptError
	return errors.As(err, &ce)
}
