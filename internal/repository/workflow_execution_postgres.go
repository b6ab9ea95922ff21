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

// WorkflowExecutionRepository implements domain.WorkflowExecutionRepository
type WorkflowExecutionRepository struct {
	db *sql.DB
}

// NewWorkflowExecutionRepository creates a new execution repository
func NewWorkflowExecutionRepository(db *sql.DB) domain.WorkflowExecutionRepository {
	return &WorkflowExecutionRepository{db: db}
}

func (r *WorkflowExecutionRepository) Create(ctx context.Context, execution *domain.WorkflowExecution) error {
	if execution.ID == "" {
		execution.ID = uuid.NewString()
	}
	if execution.ActionsCompleted == nil {
		execution.ActionsCompleted = []domain.ActionOutcome{}
	}
	if execution.StartedAt.IsZero() {
		execution.StartedAt = time.Now().UTC()
	}
	execution.UpdatedAt = execution.StartedAt

	values, err := executionValues(execution)
	if err != nil {
		return err
	}

	query, args, err := psql.
		Insert("workflow_executions").
		Columns(domain.WorkflowExecutionColumns...).
		Values(values...).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create workflow execution: %w", err)
	}

	return nil
}

// Update persists the mutable state of an execution
func (r *WorkflowExecutionRepository) Update(ctx context.Context, execution *domain.WorkflowExecution) error {
	if execution.UpdatedAt.IsZero() {
		execution.UpdatedAt = time.Now().UTC()
	}

	outcomesJSON, err := marshalJSON(execution.ActionsCompleted, "actions completed")
	if err != nil {
		return err
	}

	query, args, err := psql.
		Update("workflow_executions").
		Set("contact_id", execution.ContactID).
		Set("status", string(execution.Status)).
		Set("actions_completed", outcomesJSON).
		Set("next_action_index", execution.NextActionIndex).
		Set("scheduled_at", execution.ScheduledAt).
		Set("error_message", execution.ErrorMessage).
		Set("failed_action_index", execution.FailedActionIndex).
		Set("completed_at", execution.CompletedAt).
		Set("updated_at", execution.UpdatedAt).
		Where(sq.Eq{"id": execution.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update workflow execution: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "workflow execution", ID: execution.ID}
	}

	return nil
}

func executionValues(e *domain.WorkflowExecution) ([]interface{}, error) {
	outcomesJSON, err := marshalJSON(e.ActionsCompleted, "actions completed")
	if err != nil {
		return nil, err
	}

	var triggerData interface{}
	if len(e.TriggerData) > 0 {
		triggerData = []byte(e.TriggerData)
	}

	return []interface{}{
		e.ID, e.WorkflowID, e.ContactID, triggerData, string(e.Status), outcomesJSON,
		e.NextActionIndex, e.ScheduledAt, e.ErrorMessage, e.FailedActionIndex,
		e.StartedAt, e.CompletedAt, e.UpdatedAt,
	}, nil
}

func (r *WorkflowExecutionRepository) GetByID(ctx context.Context, id string) (*domain.WorkflowExecution, error) {
	query, args, err := psql.
		Select(domain.WorkflowExecutionColumns...).
		From("workflow_executions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	execution, err := domain.ScanWorkflowExecution(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "workflow execution", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow execution: %w", err)
	}

	return execution, nil
}

func (r *WorkflowExecutionRepository) List(ctx context.Context, req domain.ListExecutionsRequest) ([]*domain.WorkflowExecution, int, error) {
	where := sq.Eq{}
	if req.WorkflowID != "" {
		where["workflow_id"] = req.WorkflowID
	}
	if req.ContactID != "" {
		where["contact_id"] = req.ContactID
	}
	if req.Status != "" {
		where["status"] = string(req.Status)
	}

	countQuery, countArgs, err := psql.
		Select("COUNT(*)").
		From("workflow_executions").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count workflow executions: %w", err)
	}

	query, args, err := psql.
		Select(domain.WorkflowExecutionColumns...).
		From("workflow_executions").
		Where(where).
		OrderBy("started_at DESC").
		Limit(uint64(req.Limit)).
		Offset(uint64(req.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	executions, err := r.queryExecutions(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}

	return executions, total, nil
}

func (r *WorkflowExecutionRepository) HasExecutionSince(ctx context.Context, workflowID, contactID string, since time.Time) (bool, error) {
	query, args, err := psql.
		Select("1").
		From("workflow_executions").
		Where(sq.Eq{"workflow_id": workflowID, "contact_id": contactID}).
		Where(sq.Gt{"started_at": since}).
		Limit(1).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check execution history: %w", err)
	}

	return exists, nil
}

// ListDue also returns executions a worker claimed but never finished. A claimed
// execution keeps scheduled_at until it ends, and every persisted action bumps
// updated_at, so a pending row with scheduled_at set and an old updated_at is orphaned.
func (r *WorkflowExecutionRepository) ListDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]*domain.WorkflowExecution, error) {
	query, args, err := psql.
		Select(domain.WorkflowExecutionColumns...).
		From("workflow_executions").
		Where(dueOrStale(now, staleBefore)).
		OrderBy("scheduled_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryExecutions(ctx, query, args)
}

// ClaimScheduled flips a due or stale execution to pending in one statement; only one
// caller wins since the winner moves updated_at past staleBefore
func (r *WorkflowExecutionRepository) ClaimScheduled(ctx context.Context, id string, now, staleBefore time.Time) (bool, error) {
	query, args, err := psql.
		Update("workflow_executions").
		Set("status", string(domain.ExecutionStatusPending)).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		Where(dueOrStale(now, staleBefore)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to claim workflow execution: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows == 1, nil
}

func dueOrStale(now, staleBefore time.Time) sq.Or {
	return sq.Or{
		sq.And{
			sq.Eq{"status": string(domain.ExecutionStatusScheduled)},
			sq.LtOrEq{"scheduled_at": now},
		},
		sq.And{
			sq.Eq{"status": string(domain.ExecutionStatusPending)},
			sq.NotEq{"scheduled_at": nil},
			sq.LtOrEq{"updated_at": staleBefore},
		},
	}
}

func (r *WorkflowExecutionRepository) queryExecutions(ctx context.Context, query string, args []interface{}) ([]*domain.WorkflowExecution, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow executions: %w", err)
	}
	defer rows.Close()

	executions := make([]*domain.WorkflowExecution, 0)
	for rows.Next() {
		execution, err := domain.ScanWorkflowExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow execution: %w", err)
		}
		executions = append(executions, execution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflow executions: %w", err)
	}

	return executions, nil
}

// TriggerClaimRepository implements domain.TriggerClaimRepository on the
// workflow_trigger_claims unique key (workflow_id, contact_id, window_bucket)
type TriggerClaimRepository struct {
	db execer
}

// NewTriggerClaimRepository creates a new trigger claim repository
func NewTriggerClaimRepository(db *sql.DB) domain.TriggerClaimRepository {
	return &TriggerClaimRepository{db: db}
}

func (r *TriggerClaimRepository) Claim(ctx context.Context, workflowID, contactID string, bucket int64) (bool, error) {
	query, args, err := psql.
		Insert("workflow_trigger_claims").
		Columns("workflow_id", "contact_id", "window_bucket", "claimed_at").
		Values(workflowID, contactID, bucket, time.Now().UTC()).
		Suffix("ON CONFLICT (workflow_id, contact_id, window_bucket) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to claim trigger: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows == 1, nil
}
