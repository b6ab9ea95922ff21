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

// WorkflowRepository implements domain.WorkflowRepository
type WorkflowRepository struct {
	db *sql.DB
}

// NewWorkflowRepository creates a new workflow repository
func NewWorkflowRepository(db *sql.DB) domain.WorkflowRepository {
	return &WorkflowRepository{db: db}
}

func (r *WorkflowRepository) Create(ctx context.Context, workflow *domain.Workflow) error {
	if workflow.ID == "" {
		workflow.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	triggerJSON, err := marshalJSON(workflow.TriggerConfig, "trigger config")
	if err != nil {
		return err
	}
	actionsJSON, err := marshalJSON(workflow.Actions, "actions")
	if err != nil {
		return err
	}

	query, args, err := psql.
		Insert("workflows").
		Columns(domain.WorkflowColumns...).
		Values(
			workflow.ID, workflow.Name, workflow.Description, string(workflow.Status),
			string(workflow.TriggerType), triggerJSON, actionsJSON,
			workflow.CreatedAt, workflow.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}

	return nil
}

func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*domain.Workflow, error) {
	query, args, err := psql.
		Select(domain.WorkflowColumns...).
		From("workflows").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	workflow, err := domain.ScanWorkflow(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "workflow", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	return workflow, nil
}

func (r *WorkflowRepository) List(ctx context.Context, filter domain.ListWorkflowsRequest) ([]*domain.Workflow, error) {
	builder := psql.
		Select(domain.WorkflowColumns...).
		From("workflows").
		OrderBy("created_at DESC")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.TriggerType != "" {
		builder = builder.Where(sq.Eq{"trigger_type": string(filter.TriggerType)})
	}

	return r.query(ctx, builder)
}

func (r *WorkflowRepository) ListActiveByTrigger(ctx context.Context, triggerType domain.TriggerType) ([]*domain.Workflow, error) {
	return r.query(ctx, psql.
		Select(domain.WorkflowColumns...).
		From("workflows").
		Where(sq.Eq{
			"status":       string(domain.WorkflowStatusActive),
			"trigger_type": string(triggerType),
		}).
		OrderBy("created_at ASC"))
}

func (r *WorkflowRepository) ListActiveForForm(ctx context.Context, formID string) ([]*domain.Workflow, error) {
	return r.query(ctx, psql.
		Select(domain.WorkflowColumns...).
		From("workflows").
		Where(sq.Eq{
			"status":       string(domain.WorkflowStatusActive),
			"trigger_type": string(domain.TriggerTypeFormSubmission),
		}).
		Where(sq.Expr("trigger_config->>'form_id' = ?", formID)).
		OrderBy("created_at ASC"))
}

func (r *WorkflowRepository) query(ctx context.Context, builder sq.SelectBuilder) ([]*domain.Workflow, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	defer rows.Close()

	workflows := make([]*domain.Workflow, 0)
	for rows.Next() {
		workflow, err := domain.ScanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}
		workflows = append(workflows, workflow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

func (r *WorkflowRepository) Update(ctx context.Context, workflow *domain.Workflow) error {
	workflow.UpdatedAt = time.Now().UTC()

	triggerJSON, err := marshalJSON(workflow.TriggerConfig, "trigger config")
	if err != nil {
		return err
	}
	actionsJSON, err := marshalJSON(workflow.Actions, "actions")
	if err != nil {
		return err
	}

	query, args, err := psql.
		Update("workflows").
		SetMap(map[string]interface{}{
			"name":           workflow.Name,
			"description":    workflow.Description,
			"status":         string(workflow.Status),
			"trigger_type":   string(workflow.TriggerType),
			"trigger_config": triggerJSON,
			"actions":        actionsJSON,
			"updated_at":     workflow.UpdatedAt,
		}).
		Where(sq.Eq{"id": workflow.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	return r.execAffectingOne(ctx, query, args, "update", workflow.ID)
}

func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.
		Delete("workflows").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	return r.execAffectingOne(ctx, query, args, "delete", id)
}

func (r *WorkflowRepository) execAffectingOne(ctx context.Context, query string, args []interface{}, verb, id string) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s workflow: %w", verb, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "workflow", ID: id}
	}

	return nil
}
