package domain

import (
	"context"
	"net/url"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_email_template_repository.go -package mocks github.com/lumiere-academy/backend/internal/domain EmailTemplateRepository,EmailTemplateService

// EmailTemplate is a reusable email body with {placeholder} tokens
type EmailTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" valid:"required,stringlength(1|255)"`
	Subject   string    `json:"subject" valid:"required,stringlength(1|255)"`
	HTML      string    `json:"html" valid:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *EmailTemplate) Validate() error {
	if _, err := govalidator.ValidateStruct(t); err != nil {
		return NewValidationError(err.Error())
	}
	return nil
}

// ScanEmailTemplate scans a template from the database
func ScanEmailTemplate(scanner interface {
	Scan(dest ...interface{}) error
}) (*EmailTemplate, error) {
	var t EmailTemplate
	if err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Subject,
		&t.HTML,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

// EmailTemplateColumns lists the columns read by ScanEmailTemplate, in scan order
var EmailTemplateColumns = []string{"id", "name", "subject", "html", "created_at", "updated_at"}

type CreateEmailTemplateRequest struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (r *CreateEmailTemplateRequest) Validate() (*EmailTemplate, error) {
	t := &EmailTemplate{Name: r.Name, Subject: r.Subject, HTML: r.HTML}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

type GetEmailTemplateRequest struct {
	ID string `json:"id"`
}

func (r *GetEmailTemplateRequest) FromURLParams(queryParams url.Values) error {
	r.ID = queryParams.Get("id")
	if r.ID == "" {
		return NewValidationError("id is required")
	}
	return nil
}

// EmailTemplateRepository is the template store. The runner only reads from it.
type EmailTemplateRepository interface {
	Create(ctx context.Context, template *EmailTemplate) error
	GetByID(ctx context.Context, id string) (*EmailTemplate, error)
	List(ctx context.Context) ([]*EmailTemplate, error)
}

type EmailTemplateService interface {
	Create(ctx context.Context, req *CreateEmailTemplateRequest) (*EmailTemplate, error)
	Get(ctx context.Context, id string) (*EmailTemplate, error)
	List(ctx context.Context) ([]*EmailTemplate, error)
}
