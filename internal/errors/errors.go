package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a passgen error code.
type ErrorCode string

const (
	ErrInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION" // 400
	ErrInvalidRequest       ErrorCode = "INVALID_REQUEST"       // 400
	ErrFileNotFound         ErrorCode = "FILE_NOT_FOUND"        // 404
	ErrEmptyInput           ErrorCode = "EMPTY_INPUT"           // 422
	ErrCancelled            ErrorCode = "CANCELLED"             // 499
	ErrPersistenceFailure   ErrorCode = "PERSISTENCE_FAILURE"   // 500
	ErrInternal             ErrorCode = "INTERNAL"              // 500
	ErrClipboardFailure     ErrorCode = "CLIPBOARD_FAILURE"     // 502
)

// PassgenError represents a structured error with code, status, and details.
type PassgenError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *PassgenError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *PassgenError) Unwrap() error {
	return e.cause
}

// NewInvalidConfiguration creates a 400 error for generation settings that cannot
// produce a password (empty charset, out-of-range length or count).
func NewInvalidConfiguration(msg string) *PassgenError {
	return &PassgenError{
		Code:    ErrInvalidConfiguration,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PassgenError {
	return &PassgenError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewFileNotFound creates a 404 error for a missing file.
func NewFileNotFound(path string) *PassgenError {
	return &PassgenError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewEmptyInput creates a 422 error when an export has nothing to write.
func NewEmptyInput(source string) *PassgenError {
	return &PassgenError{
		Code:    ErrEmptyInput,
		Status:  422,
		Message: fmt.Sprintf("nothing to export: %s is empty", source),
		Details: map[string]any{"source": source},
	}
}

// NewCancelled creates a 499 error when an operation's context is cancelled.
func NewCancelled(op string) *PassgenError {
	return &PassgenError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewPersistenceFailure creates a 500 error for a failed read or write against
// the key-value store.
func NewPersistenceFailure(key string, err error) *PassgenError {
	msg := fmt.Sprintf("persistence failure for %q", key)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &PassgenError{
		Code:    ErrPersistenceFailure,
		Status:  500,
		Message: msg,
		Details: map[string]any{"key": key},
		cause:   err,
	}
}

// NewClipboardFailure creates a 502 error when the system clipboard rejects a write.
func NewClipboardFailure(err error) *PassgenError {
	msg := "failed to copy to clipboard"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &PassgenError{
		Code:    ErrClipboardFailure,
		Status:  502,
		Message: msg,
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PassgenError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PassgenError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is (or wraps) a PassgenError with the given code.
func Is(err error, code ErrorCode) bool {
	var pErr *PassgenError
	if stderrors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}
