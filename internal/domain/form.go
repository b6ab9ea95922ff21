package domain

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate mockgen -destination mocks/mock_form_repository.go -package mocks github.com/lumiere-academy/backend/internal/domain FormRepository,FormService

type FormStatus string

const (
	FormStatusActive   FormStatus = "active"
	FormStatusArchived FormStatus = "archived"
)

// Form is a public form whose submissions can trigger workflows
type Form struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    FormStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FormSubmission is one posted form, stored verbatim
type FormSubmission struct {
	ID        string          `json:"id"`
	FormID    string          `json:"form_id"`
	Data      json.RawMessage `json:"data"`
	IPAddress string          `json:"ip_address,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// SubmitFormRequest is the payload of forms.submit
type SubmitFormRequest struct {
	FormID string          `json:"formId"`
	Data   json.RawMessage `json:"data"`
}

func (r *SubmitFormRequest) Validate() error {
	if r.FormID == "" {
		return NewValidationError("formId is required")
	}
	if len(r.Data) == 0 || !json.Valid(r.Data) || r.Data[0] != '{' {
		return NewValidationError("data must be a JSON object")
	}
	return nil
}

// SubmitFormResult is the body returned by forms.submit
type SubmitFormResult struct {
	Success            bool            `json:"success"`
	Submission         *FormSubmission `json:"submission"`
	WorkflowsTriggered int             `json:"workflows_triggered"`
	Message            string          `json:"message"`
}

type FormRepository interface {
	GetByID(ctx context.Context, id string) (*Form, error)
	CreateSubmission(ctx context.Context, submission *FormSubmission) error
}

type FormService interface {
	Submit(ctx context.Context, req *SubmitFormRequest, ipAddress string) (*SubmitFormResult, error)
}
