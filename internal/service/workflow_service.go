package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
)

// WorkflowService manages workflow definitions and exposes their execution log
type WorkflowService struct {
	repo          domain.WorkflowRepository
	executionRepo domain.WorkflowExecutionRepository
	logger        logger.Logger
}

func NewWorkflowService(
	repo domain.WorkflowRepository,
	executionRepo domain.WorkflowExecutionRepository,
	logger logger.Logger,
) *WorkflowService {
	return &WorkflowService{
		repo:          repo,
		executionRepo: executionRepo,
		logger:        logger,
	}
}

func (s *WorkflowService) Create(ctx context.Context, req *domain.CreateWorkflowRequest) (*domain.Workflow, error) {
	workflow, err := req.Validate()
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, workflow); err != nil {
		s.logger.WithField("name", workflow.Name).Error(fmt.Sprintf("Failed to create workflow: %v", err))
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"workflow_id":  workflow.ID,
		"trigger_type": string(workflow.TriggerType),
	}).Info("Workflow created")

	return workflow, nil
}

func (s *WorkflowService) Get(ctx context.Context, id string) (*domain.Workflow, error) {
	workflow, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("workflow_id", id).Error(fmt.Sprintf("Failed to get workflow: %v", err))
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	return workflow, nil
}

func (s *WorkflowService) List(ctx context.Context, req domain.ListWorkflowsRequest) ([]*domain.Workflow, error) {
	workflows, err := s.repo.List(ctx, req)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to list workflows: %v", err))
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	return workflows, nil
}

// Update replaces the definition of a workflow and keeps its status
func (s *WorkflowService) Update(ctx context.Context, req *domain.UpdateWorkflowRequest) (*domain.Workflow, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	workflow, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	workflow.Name = strings.TrimSpace(req.Name)
	workflow.Description = req.Description
	workflow.TriggerType = req.TriggerType
	workflow.TriggerConfig = req.TriggerConfig
	workflow.Actions = req.Actions

	if err := s.repo.Update(ctx, workflow); err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("workflow_id", workflow.ID).Error(fmt.Sprintf("Failed to update workflow: %v", err))
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	return workflow, nil
}

func (s *WorkflowService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		s.logger.WithField("workflow_id", id).Error(fmt.Sprintf("Failed to delete workflow: %v", err))
		return fmt.Errorf("failed to delete workflow: %w", err)
	}
	return nil
}

func (s *WorkflowService) Activate(ctx context.Context, id string) (*domain.Workflow, error) {
	return s.setStatus(ctx, id, domain.WorkflowStatusActive)
}

// Pause deactivates a workflow. Scheduled executions of a paused workflow fail when they come due.
func (s *WorkflowService) Pause(ctx context.Context, id string) (*domain.Workflow, error) {
	return s.setStatus(ctx, id, domain.WorkflowStatusInactive)
}

func (s *WorkflowService) setStatus(ctx context.Context, id string, status domain.WorkflowStatus) (*domain.Workflow, error) {
	workflow, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if workflow.Status == status {
		return workflow, nil
	}

	workflow.Status = status
	if err := workflow.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, workflow); err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("workflow_id", id).Error(fmt.Sprintf("Failed to update workflow status: %v", err))
		return nil, fmt.Errorf("failed to update workflow status: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"workflow_id": id,
		"status":      string(status),
	}).Info("Workflow status changed")

	return workflow, nil
}

func (s *WorkflowService) ListExecutions(ctx context.Context, req domain.ListExecutionsRequest) ([]*domain.WorkflowExecution, int, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	executions, total, err := s.executionRepo.List(ctx, req)
	if err != nil {
		s.logger.WithField("workflow_id", req.WorkflowID).Error(fmt.Sprintf("Failed to list executions: %v", err))
		return nil, 0, fmt.Errorf("failed to list executions: %w", err)
	}
	return executions, total, nil
}

func (s *WorkflowService) GetExecution(ctx context.Context, id string) (*domain.WorkflowExecution, error) {
	execution, err := s.executionRepo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("execution_id", id).Error(fmt.Sprintf("Failed to get execution: %v", err))
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return execution, nil
}
