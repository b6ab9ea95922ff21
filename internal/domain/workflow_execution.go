package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

//go:generate mockgen -destination mocks/mock_workflow_execution_repository.go -package mocks github.com/lumiere-academy/backend/internal/domain WorkflowExecutionRepository,TriggerClaimRepository
//go:generate mockgen -destination mocks/mock_workflow_runner.go -package mocks github.com/lumiere-academy/backend/internal/domain WorkflowRunner

// ExecutionStatus is the state of one workflow run.
// pending -> completed | failed, with scheduled while waiting on an action delay.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusScheduled ExecutionStatus = "scheduled"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// ActionOutcomeStatus is the result of a single action
type ActionOutcomeStatus string

const (
	ActionOutcomeCompleted ActionOutcomeStatus = "completed"
	ActionOutcomeFailed    ActionOutcomeStatus = "failed"
)

// ActionOutcome is one entry of the execution log
type ActionOutcome struct {
	Action    ActionType          `json:"action"`
	Index     int                 `json:"index"`
	Status    ActionOutcomeStatus `json:"status"`
	Error     string              `json:"error,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// WorkflowExecution is the audit record of one workflow run
type WorkflowExecution struct {
	ID                string          `json:"id"`
	WorkflowID        string          `json:"workflow_id"`
	ContactID         *string         `json:"contact_id,omitempty"`
	TriggerData       json.RawMessage `json:"trigger_data,omitempty"`
	Status            ExecutionStatus `json:"status"`
	ActionsCompleted  []ActionOutcome `json:"actions_completed"`
	NextActionIndex   int             `json:"next_action_index"`
	ScheduledAt       *time.Time      `json:"scheduled_at,omitempty"`
	ErrorMessage      *string         `json:"error_message,omitempty"`
	FailedActionIndex *int            `json:"failed_action_index,omitempty"`
	StartedAt         time.Time       `json:"started_at"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// SetContact records the contact the execution acts on
func (e *WorkflowExecution) SetContact(id string) {
	e.ContactID = &id
}

// RecordSuccess appends a completed outcome and moves the cursor past the action
func (e *WorkflowExecution) RecordSuccess(index int, actionType ActionType, now time.Time) {
	e.ActionsCompleted = append(e.ActionsCompleted, ActionOutcome{
		Action:    actionType,
		Index:     index,
		Status:    ActionOutcomeCompleted,
		Timestamp: now,
	})
	e.NextActionIndex = index + 1
	e.UpdatedAt = now
}

// Fail appends a failed outcome and finalizes the execution as failed
func (e *WorkflowExecution) Fail(index int, actionType ActionType, cause error, now time.Time) {
	msg := cause.Error()
	e.ActionsCompleted = append(e.ActionsCompleted, ActionOutcome{
		Action:    actionType,
		Index:     index,
		Status:    ActionOutcomeFailed,
		Error:     msg,
		Timestamp: now,
	})
	e.Status = ExecutionStatusFailed
	e.ErrorMessage = &msg
	e.FailedActionIndex = &index
	e.ScheduledAt = nil
	e.CompletedAt = &now
	e.UpdatedAt = now
}

// Schedule parks the execution until at, resuming with the action at index
func (e *WorkflowExecution) Schedule(index int, at, now time.Time) {
	e.Status = ExecutionStatusScheduled
	e.NextActionIndex = index
	e.ScheduledAt = &at
	e.UpdatedAt = now
}

// Abort finalizes the execution as failed without attributing the failure to an action
func (e *WorkflowExecution) Abort(cause error, now time.Time) {
	msg := cause.Error()
	e.Status = ExecutionStatusFailed
	e.ErrorMessage = &msg
	e.ScheduledAt = nil
	e.CompletedAt = &now
	e.UpdatedAt = now
}

// Complete finalizes a successful execution
func (e *WorkflowExecution) Complete(now time.Time) {
	e.Status = ExecutionStatusCompleted
	e.ScheduledAt = nil
	e.CompletedAt = &now
	e.UpdatedAt = now
}

// CompletedCount is the number of actions that succeeded
func (e *WorkflowExecution) CompletedCount() int {
	n := 0
	for _, o := range e.ActionsCompleted {
		if o.Status == ActionOutcomeCompleted {
			n++
		}
	}
	return n
}

// IsFinal reports whether the execution reached a terminal status
func (e *WorkflowExecution) IsFinal() bool {
	return e.Status == ExecutionStatusCompleted || e.Status == ExecutionStatusFailed
}

// For database scanning
type dbWorkflowExecution struct {
	ID                string
	WorkflowID        string
	ContactID         sql.NullString
	TriggerData       []byte
	Status            string
	ActionsCompleted  []byte
	NextActionIndex   int
	ScheduledAt       sql.NullTime
	ErrorMessage      sql.NullString
	FailedActionIndex sql.NullInt64
	StartedAt         time.Time
	CompletedAt       sql.NullTime
	UpdatedAt         time.Time
}

// WorkflowExecutionColumns lists the columns read by ScanWorkflowExecution, in scan order
var WorkflowExecutionColumns = []string{
	"id", "workflow_id", "contact_id", "trigger_data", "status", "actions_completed",
	"next_action_index", "scheduled_at", "error_message", "failed_action_index",
	"started_at", "completed_at", "updated_at",
}

// ScanWorkflowExecution scans an execution from the database
func ScanWorkflowExecution(scanner interface {
	Scan(dest ...interface{}) error
}) (*WorkflowExecution, error) {
	var dbe dbWorkflowExecution
	if err := scanner.Scan(
		&dbe.ID,
		&dbe.WorkflowID,
		&dbe.ContactID,
		&dbe.TriggerData,
		&dbe.Status,
		&dbe.ActionsCompleted,
		&dbe.NextActionIndex,
		&dbe.ScheduledAt,
		&dbe.ErrorMessage,
		&dbe.FailedActionIndex,
		&dbe.StartedAt,
		&dbe.CompletedAt,
		&dbe.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e := &WorkflowExecution{
		ID:               dbe.ID,
		WorkflowID:       dbe.WorkflowID,
		Status:           ExecutionStatus(dbe.Status),
		ActionsCompleted: []ActionOutcome{},
		NextActionIndex:  dbe.NextActionIndex,
		StartedAt:        dbe.StartedAt,
		UpdatedAt:        dbe.UpdatedAt,
	}
	if dbe.ContactID.Valid {
		e.ContactID = &dbe.ContactID.String
	}
	if len(dbe.TriggerData) > 0 {
		e.TriggerData = json.RawMessage(dbe.TriggerData)
	}
	if len(dbe.ActionsCompleted) > 0 {
		if err := json.Unmarshal(dbe.ActionsCompleted, &e.ActionsCompleted); err != nil {
			return nil, fmt.Errorf("failed to unmarshal actions_completed: %w", err)
		}
	}
	if dbe.ScheduledAt.Valid {
		e.ScheduledAt = &dbe.ScheduledAt.Time
	}
	if dbe.ErrorMessage.Valid {
		e.ErrorMessage = &dbe.ErrorMessage.String
	}
	if dbe.FailedActionIndex.Valid {
		idx := int(dbe.FailedActionIndex.Int64)
		e.FailedActionIndex = &idx
	}
	if dbe.CompletedAt.Valid {
		e.CompletedAt = &dbe.CompletedAt.Time
	}

	return e, nil
}

// ExecuteWorkflowRequest is the payload of workflows.execute
type ExecuteWorkflowRequest struct {
	WorkflowID  string          `json:"workflowId"`
	ContactID   string          `json:"contactId,omitempty"`
	TriggerData json.RawMessage `json:"triggerData,omitempty"`
}

func (r *ExecuteWorkflowRequest) Validate() error {
	if r.WorkflowID == "" {
		return NewValidationError("workflowId is required")
	}
	if len(r.TriggerData) > 0 && !json.Valid(r.TriggerData) {
		return NewValidationError("triggerData must be valid JSON")
	}
	return nil
}

// RunRequest starts one workflow run
type RunRequest struct {
	WorkflowID  string
	ContactID   string
	TriggerData json.RawMessage
}

// RunResult summarizes a run. It is returned alongside an ActionError on failure.
type RunResult struct {
	ExecutionID      string          `json:"execution_id"`
	ActionsCompleted int             `json:"actions_completed"`
	Status           ExecutionStatus `json:"status"`
}

// ListExecutionsRequest pages through executions, newest first
type ListExecutionsRequest struct {
	WorkflowID string          `json:"workflow_id,omitempty"`
	ContactID  string          `json:"contact_id,omitempty"`
	Status     ExecutionStatus `json:"status,omitempty"`
	Limit      int             `json:"limit,omitempty"`
	Offset     int             `json:"offset,omitempty"`
}

func (r *ListExecutionsRequest) FromURLParams(queryParams url.Values) error {
	r.WorkflowID = queryParams.Get("workflow_id")
	r.ContactID = queryParams.Get("contact_id")
	r.Status = ExecutionStatus(queryParams.Get("status"))

	if v := queryParams.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return NewValidationError("invalid limit")
		}
		r.Limit = limit
	}
	if v := queryParams.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return NewValidationError("invalid offset")
		}
		r.Offset = offset
	}

	r.applyDefaults()
	return nil
}

func (r *ListExecutionsRequest) applyDefaults() {
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

// WorkflowExecutionRepository is the execution log store
type WorkflowExecutionRepository interface {
	Create(ctx context.Context, execution *WorkflowExecution) error
	Update(ctx context.Context, execution *WorkflowExecution) error
	GetByID(ctx context.Context, id string) (*WorkflowExecution, error)
	List(ctx context.Context, req ListExecutionsRequest) ([]*WorkflowExecution, int, error)
	// HasExecutionSince reports whether the pair already ran since the given time
	HasExecutionSince(ctx context.Context, workflowID, contactID string, since time.Time) (bool, error)
	// ListDue returns scheduled executions whose scheduled_at is not after now, plus
	// claimed executions still pending whose updated_at is not after staleBefore
	ListDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]*WorkflowExecution, error)
	// ClaimScheduled moves a due or stale execution to pending and stamps updated_at.
	// It returns false when another worker already claimed it.
	ClaimScheduled(ctx context.Context, id string, now, staleBefore time.Time) (bool, error)
}

// TriggerClaimRepository deduplicates inactivity triggers per time bucket
type TriggerClaimRepository interface {
	// Claim records (workflow, contact, bucket). It returns false when the
	// triple already exists.
	Claim(ctx context.Context, workflowID, contactID string, bucket int64) (bool, error)
}

// WorkflowRunner executes workflow definitions
type WorkflowRunner interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
	Resume(ctx context.Context, executionID string) (*RunResult, error)
}
