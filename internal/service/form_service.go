package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
	"github.com/lumiere-academy/backend/pkg/tracing"
)

// FormService stores public form submissions and fires the workflows watching the form
type FormService struct {
	formRepo     domain.FormRepository
	workflowRepo domain.WorkflowRepository
	runner       domain.WorkflowRunner
	logger       logger.Logger
}

func NewFormService(
	formRepo domain.FormRepository,
	workflowRepo domain.WorkflowRepository,
	runner domain.WorkflowRunner,
	log logger.Logger,
) *FormService {
	return &FormService{
		formRepo:     formRepo,
		workflowRepo: workflowRepo,
		runner:       runner,
		logger:       log,
	}
}

// Submit records the submission then runs each active form_submission workflow
// for the form. Workflow failures are logged and do not fail the submission.
func (s *FormService) Submit(ctx context.Context, req *domain.SubmitFormRequest, ipAddress string) (result *domain.SubmitFormResult, err error) {
	// codecov:ignore:start
	ctx, span := tracing.StartServiceSpan(ctx, "FormService", "Submit")
	defer func() { tracing.EndSpan(span, err) }()
	tracing.AddAttribute(ctx, "form_id", req.FormID)
	// codecov:ignore:end

	if err := req.Validate(); err != nil {
		return nil, err
	}

	form, err := s.formRepo.GetByID(ctx, req.FormID)
	if err != nil {
		return nil, err
	}
	if form.Status != domain.FormStatusActive {
		return nil, &domain.ErrNotFound{Entity: "form", ID: req.FormID}
	}

	submission := &domain.FormSubmission{
		FormID:    form.ID,
		Data:      req.Data,
		IPAddress: ipAddress,
	}
	if err := s.formRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, err
	}
	tracing.RecordFormSubmission(ctx)

	triggered := s.triggerWorkflows(ctx, form, submission)

	return &domain.SubmitFormResult{
		Success:            true,
		Submission:         submission,
		WorkflowsTriggered: triggered,
		Message:            "Formulaire envoyé avec succès",
	}, nil
}

func (s *FormService) triggerWorkflows(ctx context.Context, form *domain.Form, submission *domain.FormSubmission) int {
	log := s.logger.WithFields(map[string]interface{}{
		"form_id":       form.ID,
		"submission_id": submission.ID,
	})

	workflows, err := s.workflowRepo.ListActiveForForm(ctx, form.ID)
	if err != nil {
		log.WithField("error", err.Error()).Error("Failed to list workflows for form")
		return 0
	}
	if len(workflows) == 0 {
		return 0
	}

	triggerData, err := formTriggerData(form.ID, submission)
	if err != nil {
		log.WithField("error", err.Error()).Error("Failed to build form trigger data")
		return 0
	}

	triggered := 0
	for _, workflow := range workflows {
		result, err := s.runner.Run(ctx, domain.RunRequest{
			WorkflowID:  workflow.ID,
			TriggerData: triggerData,
		})
		triggered++

		if err != nil {
			fields := map[string]interface{}{
				"workflow_id": workflow.ID,
				"error":       err.Error(),
			}
			if result != nil {
				fields["execution_id"] = result.ExecutionID
			}
			log.WithFields(fields).Warn("Form workflow execution failed")
			continue
		}

		log.WithFields(map[string]interface{}{
			"workflow_id":  workflow.ID,
			"execution_id": result.ExecutionID,
			"status":       string(result.Status),
		}).Info("Form workflow executed")
	}

	return triggered
}

// formTriggerData builds {type, form_id, submission_id, submission_data, data}
func formTriggerData(formID string, submission *domain.FormSubmission) (json.RawMessage, error) {
	data, err := json.Marshal(map[string]interface{}{
		"type":            string(domain.TriggerTypeFormSubmission),
		"form_id":         formID,
		"submission_id":   submission.ID,
		"submission_data": submission.Data,
		"data":            submission.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trigger data: %w", err)
	}
	return data, nil
}
