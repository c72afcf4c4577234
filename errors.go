package mapper

import (
	"errors"
	"fmt"
)

// Per-record errors: scoped to one read or write attempt. A failing record
// never blocks or undoes other records in a batch.
var (
	ErrRowKeyEmpty         = errors.New("row key cannot be empty")
	ErrRowKeyCompose       = errors.New("row key could not be composed")
	ErrRowKeyParse         = errors.New("row key could not be parsed")
	ErrAllColumnsEmpty     = errors.New("record maps to no column values")
	ErrVersionedFieldEmpty = errors.New("versioned field cannot be empty")
	ErrFieldConversion     = errors.New("field could not be converted")

	// ErrCodec wraps every serialization or deserialization failure
	// before it crosses the mapper boundary.
	ErrCodec = errors.New("codec failure")
)

// Error wraps a sentinel error with additional context
type Error struct {
	Err     error  // The underlying sentinel error
	Context string // Additional error context
}

// Error satisfies the error interface
func (e *Error) Error() string {
	if e.Context == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Context)
}

// Unwrap implements the errors.Unwrap interface for compatibility with errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates a new mapper error with context
func newError(err error, format string, args ...interface{}) *Error {
	return &Error{
		Err:     err,
		Context: fmt.Sprintf(format, args...),
	}
}
