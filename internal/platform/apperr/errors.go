// Package apperr defines the error taxonomy shared by the coaching engine's
// services and repositories. Handlers translate these into HTTP statuses;
// repositories wrap backend failures so the originating cause is never lost.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input to a write operation. It is
// returned before any store access is attempted.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
	}
	return "validation: " + e.Msg
}

// Validation builds a ValidationError for the given field.
func Validation(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// DataAccessError reports that a store read or write failed or timed out.
// The originating cause is always attached.
type DataAccessError struct {
	Op    string
	Cause error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access: %s: %v", e.Op, e.Cause)
}

func (e *DataAccessError) Unwrap() error { return e.Cause }

// DataAccess wraps err as a DataAccessError for the named operation.
// A nil err returns nil so call sites can wrap unconditionally.
func DataAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Cause: err}
}

// ErrNotFound marks lookups for records that do not exist.
var ErrNotFound = errors.New("not found")

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDataAccess reports whether err is (or wraps) a DataAccessError.
func IsDataAccess(err error) bool {
	var de *DataAccessError
	return errors.As(err, &de)
}
