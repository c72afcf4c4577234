package schema

import (
	"errors"
	"fmt"
)

// Structural errors: raised once when a record type is first resolved, never
// per record. They cannot be recovered from without fixing the declaration.
var (
	ErrNoAccessibleConstructor = errors.New("record type is not constructible")
	ErrInvalidTag              = errors.New("invalid litetable tag")
	ErrUnexportedFieldMapped   = errors.New("unexported field mapped to a column")
	ErrEmbeddedFieldMapped     = errors.New("embedded field mapped to a column")
	ErrFamilyNotConfigured     = errors.New("column family not configured")
	ErrPrimitiveFieldMapped    = errors.New("non-nilable scalar field mapped to a column")
	ErrUnsupportedFieldType    = errors.New("unsupported field type")
	ErrDuplicateColumnMapping  = errors.New("fields mapped to the same column")
	ErrMissingColumnFields     = errors.New("no column-mapped fields")
	ErrMissingRowKeyField      = errors.New("no row key field")
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

// newError creates a new schema error with context
func newError(err error, format string, args ...interface{}) *Error {
	return &Error{
		Err:     err,
		Context: fmt.Sprintf(format, args...),
	}
}
