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

// FormRepository implements domain.FormRepository
type FormRepository struct {
	db *sql.DB
}

// NewFormRepository creates a new form repository
func NewFormRepository(db *sql.DB) domain.FormRepository {
	return &FormRepository{db: db}
}

func (r *FormRepository) GetByID(ctx context.Context, id string) (*domain.Form, error) {
	query, args, err := psql.
		Select("id", "name", "status", "created_at", "updated_at").
		From("forms").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var form domain.Form
	var status string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&form.ID, &form.Name, &status, &form.CreatedAt, &form.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "form", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	form.Status = domain.FormStatus(status)

	return &form, nil
}

func (r *FormRepository) CreateSubmission(ctx context.Context, submission *domain.FormSubmission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now().UTC()
	}

	query, args, err := psql.
		Insert("form_submissions").
		Columns("id", "form_id", "data", "ip_address", "created_at").
		Values(submission.ID, submission.FormID, []byte(submission.Data), nullString(submission.IPAddress), submission.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create form submission: %w", err)
	}

	return nil
}
