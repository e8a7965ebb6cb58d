package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestPassgenError_Error(t *testing.T) {
	err := &PassgenError{
		Code:    ErrEmptyInput,
		Status:  422,
		Message: "nothing to export",
	}

	expected := "EMPTY_INPUT: nothing to export"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidConfiguration(t *testing.T) {
	err := NewInvalidConfiguration("select at least one character class")

	if err.Code != ErrInvalidConfiguration {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidConfiguration)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "select at least one character class" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("password is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
}

func TestNewFileNotFound(t *testing.T) {
	err := NewFileNotFound("/tmp/x.csv")

	if err.Code != ErrFileNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrFileNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["path"] != "/tmp/x.csv" {
		t.Errorf("Details[path] = %v", err.Details["path"])
	}
}

func TestNewEmptyInput(t *testing.T) {
	err := NewEmptyInput("history")

	if err.Code != ErrEmptyInput {
		t.Errorf("Code = %q, want %q", err.Code, ErrEmptyInput)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	if err.Details["source"] != "history" {
		t.Errorf("Details[source] = %v, want %q", err.Details["source"], "history")
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled("export")

	if err.Code != ErrCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCancelled)
	}
	if err.Status != 499 {
		t.Errorf("Status = %d, want 499", err.Status)
	}
	if err.Message != "export cancelled" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewPersistenceFailure(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewPersistenceFailure("password_history", cause)

	if err.Code != ErrPersistenceFailure {
		t.Errorf("Code = %q, want %q", err.Code, ErrPersistenceFailure)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Details["key"] != "password_history" {
		t.Errorf("Details[key] = %v", err.Details["key"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("PersistenceFailure should unwrap to its cause")
	}
}

func TestNewClipboardFailure(t *testing.T) {
	err := NewClipboardFailure(fmt.Errorf("no clipboard tool"))

	if err.Code != ErrClipboardFailure {
		t.Errorf("Code = %q, want %q", err.Code, ErrClipboardFailure)
	}
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
	expected := "failed to copy to clipboard: no clipboard tool"
	if err.Message != expected {
		t.Errorf("Message = %q, want %q", err.Message, expected)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("database error"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "database error" {
		t.Errorf("Message = %q, want %q", err.Message, "database error")
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)

	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	err := NewEmptyInput("batch")

	if !Is(err, ErrEmptyInput) {
		t.Error("Is(err, ErrEmptyInput) = false, want true")
	}
	if Is(err, ErrInternal) {
		t.Error("Is(err, ErrInternal) = true, want false")
	}
}

func TestIs_Wrapped(t *testing.T) {
	err := fmt.Errorf("generate: %w", NewInvalidConfiguration("empty charset"))

	if !Is(err, ErrInvalidConfiguration) {
		t.Error("Is should match a wrapped PassgenError")
	}
}

func TestIs_NonPassgenError(t *testing.T) {
	err := fmt.Errorf("regular error")

	if Is(err, ErrInternal) {
		t.Error("Is(regular error, ErrInternal) = true, want false")
	}
}

func TestIs_Nil(t *testing.T) {
	if Is(nil, ErrInternal) {
		t.Error("Is(nil, ErrInternal) = true, want false")
	}
}
