package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
	"github.com/lumiere-academy/backend/pkg/mailer"
	"github.com/lumiere-academy/backend/pkg/templating"
	"github.com/lumiere-academy/backend/pkg/tracing"
)

// WorkflowRunner executes the action list of a workflow for one contact,
// recording every outcome in a WorkflowExecution
type WorkflowRunner struct {
	workflowRepo  domain.WorkflowRepository
	executionRepo domain.WorkflowExecutionRepository
	contactRepo   domain.ContactRepository
	resolver      *ContactResolver
	executors     map[domain.ActionType]ActionExecutor
	logger        logger.Logger
	now           func() time.Time
}

// NewWorkflowRunner creates a runner with one executor per action type
func NewWorkflowRunner(
	workflowRepo domain.WorkflowRepository,
	executionRepo domain.WorkflowExecutionRepository,
	contactRepo domain.ContactRepository,
	contactListRepo domain.ContactListRepository,
	templateRepo domain.EmailTemplateRepository,
	m mailer.Mailer,
	renderer *templating.Renderer,
	adminEmail string,
	log logger.Logger,
) *WorkflowRunner {
	resolver := NewContactResolver(contactRepo, log)

	executors := []ActionExecutor{
		NewCreateContactActionExecutor(resolver),
		NewSendEmailActionExecutor(templateRepo, renderer, m, log),
		NewAddToListActionExecutor(contactListRepo),
		NewRemoveFromListActionExecutor(contactListRepo),
		NewAddTagActionExecutor(contactRepo),
		NewRemoveTagActionExecutor(contactRepo),
		NewSendNotificationActionExecutor(m, adminEmail),
		NewWaitActionExecutor(),
	}

	registry := make(map[domain.ActionType]ActionExecutor, len(executors))
	for _, executor := range executors {
		registry[executor.ActionType()] = executor
	}

	return &WorkflowRunner{
		workflowRepo:  workflowRepo,
		executionRepo: executionRepo,
		contactRepo:   contactRepo,
		resolver:      resolver,
		executors:     registry,
		logger:        log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Run starts a new execution of an active workflow
func (r *WorkflowRunner) Run(ctx context.Context, req domain.RunRequest) (result *domain.RunResult, err error) {
	// codecov:ignore:start
	ctx, span := tracing.StartServiceSpan(ctx, "WorkflowRunner", "Run")
	defer func() { tracing.EndSpan(span, err) }()
	tracing.AddAttribute(ctx, "workflow_id", req.WorkflowID)
	// codecov:ignore:end

	workflow, err := r.loadActiveWorkflow(ctx, req.WorkflowID)
	if err != nil {
		return nil, err
	}

	log := r.logger.WithField("workflow_id", workflow.ID)

	contact := r.loadContact(ctx, req.ContactID, log)

	execution := &domain.WorkflowExecution{
		WorkflowID:  workflow.ID,
		TriggerData: req.TriggerData,
		Status:      domain.ExecutionStatusPending,
		StartedAt:   r.now(),
	}
	if contact != nil {
		execution.SetContact(contact.ID)
	}
	if err := r.executionRepo.Create(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to create workflow execution: %w", err)
	}

	log = log.WithField("execution_id", execution.ID)

	if contact == nil && hasSubmissionData(req.TriggerData) {
		created, _, err := r.resolver.Resolve(ctx, req.TriggerData, nil)
		if err != nil {
			log.WithField("error", err.Error()).Warn("Failed to create contact from submission data, continuing without contact")
		} else {
			contact = created
			execution.SetContact(contact.ID)
		}
	}

	return r.runActions(ctx, workflow, execution, contact, 0, false, log)
}

// Resume continues a claimed execution at its next_action_index. The delay of
// that action was already waited out and is not applied again.
func (r *WorkflowRunner) Resume(ctx context.Context, executionID string) (result *domain.RunResult, err error) {
	// codecov:ignore:start
	ctx, span := tracing.StartServiceSpan(ctx, "WorkflowRunner", "Resume")
	defer func() { tracing.EndSpan(span, err) }()
	tracing.AddAttribute(ctx, "execution_id", executionID)
	// codecov:ignore:end

	execution, err := r.executionRepo.GetByID(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if execution.Status != domain.ExecutionStatusPending {
		return nil, domain.NewValidationError(fmt.Sprintf("execution %s cannot be resumed from status %s", execution.ID, execution.Status))
	}

	log := r.logger.WithFields(map[string]interface{}{
		"workflow_id":  execution.WorkflowID,
		"execution_id": execution.ID,
	})

	workflow, err := r.loadActiveWorkflow(ctx, execution.WorkflowID)
	if err != nil {
		if !domain.IsNotFound(err) {
			return nil, err
		}
		// A workflow paused or deleted while the execution waited ends it
		execution.Abort(err, r.now())
		if uerr := r.executionRepo.Update(ctx, execution); uerr != nil {
			log.WithField("error", uerr.Error()).Error("Failed to persist aborted execution")
		}
		tracing.RecordWorkflowRun(ctx, string(domain.ExecutionStatusFailed))
		return r.result(execution), err
	}

	var contactID string
	if execution.ContactID != nil {
		contactID = *execution.ContactID
	}
	contact := r.loadContact(ctx, contactID, log)

	return r.runActions(ctx, workflow, execution, contact, execution.NextActionIndex, true, log)
}

func (r *WorkflowRunner) runActions(
	ctx context.Context,
	workflow *domain.Workflow,
	execution *domain.WorkflowExecution,
	contact *domain.Contact,
	start int,
	resuming bool,
	log logger.Logger,
) (*domain.RunResult, error) {
	for i := start; i < len(workflow.Actions); i++ {
		action := workflow.Actions[i]

		if delay := action.Delay(); delay > 0 && !(resuming && i == start) {
			now := r.now()
			execution.Schedule(i, now.Add(delay), now)
			if err := r.executionRepo.Update(ctx, execution); err != nil {
				return nil, fmt.Errorf("failed to schedule workflow execution: %w", err)
			}
			tracing.RecordWorkflowRun(ctx, string(domain.ExecutionStatusScheduled))
			log.WithFields(map[string]interface{}{
				"action_index": i,
				"scheduled_at": execution.ScheduledAt.Format(time.RFC3339),
			}).Info("Workflow execution scheduled")
			return r.result(execution), nil
		}

		result, err := r.executeAction(ctx, ActionParams{
			Workflow:    workflow,
			Execution:   execution,
			Action:      action,
			Index:       i,
			Contact:     contact,
			TriggerData: execution.TriggerData,
		})
		if err != nil {
			execution.Fail(i, action.Type(), err, r.now())
			if uerr := r.executionRepo.Update(ctx, execution); uerr != nil {
				log.WithField("error", uerr.Error()).Error("Failed to persist failed execution")
			}
			tracing.RecordWorkflowAction(ctx, string(domain.ActionOutcomeFailed))
			tracing.RecordWorkflowRun(ctx, string(domain.ExecutionStatusFailed))
			log.WithFields(map[string]interface{}{
				"action_index": i,
				"action_type":  string(action.Type()),
				"error":        err.Error(),
			}).Error("Workflow action failed")

			return r.result(execution), &domain.ActionError{
				ExecutionID: execution.ID,
				Index:       i,
				Type:        action.Type(),
				Err:         err,
			}
		}

		if result != nil && result.Contact != nil {
			contact = result.Contact
			if execution.ContactID == nil || *execution.ContactID != contact.ID {
				execution.SetContact(contact.ID)
			}
		}

		execution.RecordSuccess(i, action.Type(), r.now())
		if err := r.executionRepo.Update(ctx, execution); err != nil {
			return nil, fmt.Errorf("failed to persist workflow execution: %w", err)
		}
		tracing.RecordWorkflowAction(ctx, string(domain.ActionOutcomeCompleted))
	}

	execution.Complete(r.now())
	if err := r.executionRepo.Update(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to complete workflow execution: %w", err)
	}
	tracing.RecordWorkflowRun(ctx, string(domain.ExecutionStatusCompleted))

	log.WithField("actions_completed", execution.CompletedCount()).Info("Workflow execution completed")

	return r.result(execution), nil
}

func (r *WorkflowRunner) executeAction(ctx context.Context, params ActionParams) (*ActionResult, error) {
	executor, ok := r.executors[params.Action.Type()]
	if !ok {
		return nil, fmt.Errorf("unsupported action type: %s", params.Action.Type())
	}
	return executor.Execute(ctx, params)
}

// loadActiveWorkflow returns the workflow, or ErrNotFound when it is missing or not active
func (r *WorkflowRunner) loadActiveWorkflow(ctx context.Context, id string) (*domain.Workflow, error) {
	workflow, err := r.workflowRepo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	if !workflow.IsActive() {
		return nil, &domain.ErrNotFound{Entity: "workflow", ID: id}
	}
	return workflow, nil
}

// loadContact fetches the contact when an id is given. Failures are logged and yield nil.
func (r *WorkflowRunner) loadContact(ctx context.Context, id string, log logger.Logger) *domain.Contact {
	if id == "" {
		return nil
	}
	contact, err := r.contactRepo.GetByID(ctx, id)
	if err != nil {
		log.WithFields(map[string]interface{}{
			"contact_id": id,
			"error":      err.Error(),
		}).Warn("Failed to load contact for workflow execution")
		return nil
	}
	return contact
}

func (r *WorkflowRunner) result(execution *domain.WorkflowExecution) *domain.RunResult {
	return &domain.RunResult{
		ExecutionID:      execution.ID,
		ActionsCompleted: execution.CompletedCount(),
		Status:           execution.Status,
	}
}

// hasSubmissionData reports whether the trigger payload carries a form submission
func hasSubmissionData(triggerData json.RawMessage) bool {
	if len(triggerData) == 0 {
		return false
	}
	return gjson.GetBytes(triggerData, "submission_data").IsObject()
}
