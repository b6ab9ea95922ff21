package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an entity does not exist, or for workflows, is not active
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// ErrMissingContact is returned when an action that targets a contact runs without one
type ErrMissingContact struct {
	ActionType ActionType
}

func (e *ErrMissingContact) Error() string {
	return fmt.Sprintf("Aucun contact disponible pour l'action %s", e.ActionType)
}

// ErrMissingEmail is returned when contact resolution cannot find an email in the payload
var ErrMissingEmail = errors.New("Email introuvable dans les données du déclencheur")

// ErrTemplateNotFound is returned by send_email when the template does not exist
type ErrTemplateNotFound struct {
	TemplateID string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("Template introuvable: %s", e.TemplateID)
}

// ActionError wraps the failure of one action of a workflow execution
type ActionError struct {
	ExecutionID string
	Index       int
	Type        ActionType
	Err         error
}

func (e *ActionError) Error() string {
	return e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// IsNotFound reports whether err is, or wraps, an ErrNotFound
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// IsValidationError reports whether err is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
