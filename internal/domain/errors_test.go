package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrNotFound_Error(t *testing.T) {
	err := &ErrNotFound{
		Entity: "workflow",
		ID:     "12345",
	}

	expected := "workflow not found with ID: 12345"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	err := &ErrNotFound{Entity: "contact", ID: "c1"}

	if !IsNotFound(err) {
		t.Error("IsNotFound() should match an ErrNotFound")
	}
	if !IsNotFound(fmt.Errorf("failed to get contact: %w", err)) {
		t.Error("IsNotFound() should match a wrapped ErrNotFound")
	}
	if IsNotFound(errors.New("contact not found")) {
		t.Error("IsNotFound() should not match a plain error")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("name is required")

	expected := "validation error: name is required"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
	if !IsValidationError(fmt.Errorf("create: %w", err)) {
		t.Error("IsValidationError() should match a wrapped ValidationError")
	}
	if IsValidationError(&ErrNotFound{Entity: "form", ID: "f1"}) {
		t.Error("IsValidationError() should not match ErrNotFound")
	}
}

func TestActionError(t *testing.T) {
	cause := &ErrTemplateNotFound{TemplateID: "tpl-1"}
	err := &ActionError{ExecutionID: "exec-1", Index: 2, Type: ActionTypeSendEmail, Err: cause}

	if err.Error() != "Template introuvable: tpl-1" {
		t.Errorf("ActionError should surface the cause message, got '%s'", err.Error())
	}

	var tnf *ErrTemplateNotFound
	if !errors.As(err, &tnf) || tnf.TemplateID != "tpl-1" {
		t.Error("errors.As() failed to find the wrapped ErrTemplateNotFound")
	}

	var ae *ActionError
	if !errors.As(fmt.Errorf("run: %w", err), &ae) || ae.ExecutionID != "exec-1" {
		t.Error("errors.As() failed to find the ActionError")
	}
}

func TestErrMissingContact_Error(t *testing.T) {
	err := &ErrMissingContact{ActionType: ActionTypeAddTag}

	expected := "Aucun contact disponible pour l'action add_tag"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
}
