package task

import (
	"errors"
	"fmt"
)

// Kind categorizes task errors.
type Kind string

const (
	// KindInvalidInput indicates rejected input, e.g. empty text.
	KindInvalidInput Kind = "INVALID_INPUT"

	// KindNotFound indicates no task has the requested id.
	KindNotFound Kind = "NOT_FOUND"

	// KindStorageUnavailable indicates the persistence backend failed.
	KindStorageUnavailable Kind = "STORAGE_UNAVAILABLE"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("task not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Error is the structured error returned by the store.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Op names the operation that failed ("create", "update", ...).
	Op string

	// ID is the task id involved, if any.
	ID string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// NewError creates an Error without an underlying cause.
func NewError(kind Kind, op, id, message string) *Error {
	return &Error{Kind: kind, Op: op, ID: id, Message: message}
}

// WrapError creates an Error around an underlying cause.
func WrapError(kind Kind, op, id string, err error) *Error {
	return &Error{Kind: kind, Op: op, ID: id, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		if s := e.sentinel(); s != nil {
			msg = s.Error()
		} else {
			msg = string(e.Kind)
		}
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.ID != "" {
		return fmt.Sprintf("%s: %s (id=%s)", e.Op, msg, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's Kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindNotFound:
		return ErrNotFound
	case KindStorageUnavailable:
		return ErrStorageUnavailable
	}
	return nil
}

// IsInvalidInput returns true if err is an invalid input error.
// Uses errors.Is to handle wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorageUnavailable returns true if err is a storage error.
func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// KindOf extracts the Kind from err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
