package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := Validation("label", "is required")
	if !IsValidation(err) {
		t.Fatal("expected IsValidation to be true")
	}
	if IsDataAccess(err) {
		t.Fatal("validation error should not be a data access error")
	}
	if err.Error() != "validation: label: is required" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestDataAccessError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := DataAccess("list items", cause)
	if !IsDataAccess(err) {
		t.Fatal("expected IsDataAccess to be true")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause must stay reachable through errors.Is")
	}
}

func TestDataAccess_NilCause(t *testing.T) {
	if err := DataAccess("list items", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestDataAccess_WrappedValidation(t *testing.T) {
	err := fmt.Errorf("toggle: %w", Validation("date", "must be YYYY-MM-DD"))
	if !IsValidation(err) {
		t.Fatal("expected wrapped validation error to be detected")
	}
}
