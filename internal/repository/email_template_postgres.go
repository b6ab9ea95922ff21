package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/lumiere-academy/backend/internal/domain"
)

// EmailTemplateRepository implements domain.EmailTemplateRepository
type EmailTemplateRepository struct {
	db *sql.DB
}

// NewEmailTemplateRepository creates a new template repository
func NewEmailTemplateRepository(db *sql.DB) domain.EmailTemplateRepository {
	return &EmailTemplateRepository{db: db}
}

func (r *EmailTemplateRepository) Create(ctx context.Context, template *domain.EmailTemplate) error {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	query, args, err := psql.
		Insert("email_templates").
		Columns(domain.EmailTemplateColumns...).
		Values(template.ID, template.Name, template.Subject, template.HTML, template.CreatedAt, template.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create email template: %w", err)
	}

	return nil
}

func (r *EmailTemplateRepository) GetByID(ctx context.Context, id string) (*domain.EmailTemplate, error) {
	query, args, err := psql.
		Select(domain.EmailTemplateColumns...).
		From("email_templates").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	template, err := domain.ScanEmailTemplate(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "email template", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email template: %w", err)
	}

	return template, nil
}

func (r *EmailTemplateRepository) List(ctx context.Context) ([]*domain.EmailTemplate, error) {
	query, args, err := psql.
		Select(domain.EmailTemplateColumns...).
		From("email_templates").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list email templates: %w", err)
	}
	defer rows.Close()

	templates := make([]*domain.EmailTemplate, 0)
	for rows.Next() {
		template, err := domain.ScanEmailTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email template: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating email templates: %w", err)
	}

	return templates, nil
}
