package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/internal/domain/mocks"
)

func setupWorkflowService(ctrl *gomock.Controller) (*WorkflowService, *mocks.MockWorkflowRepository, *mocks.MockWorkflowExecutionRepository) {
	repo := mocks.NewMockWorkflowRepository(ctrl)
	executionRepo := mocks.NewMockWorkflowExecutionRepository(ctrl)
	return NewWorkflowService(repo, executionRepo, setupMockLogger(ctrl)), repo, executionRepo
}

func TestWorkflowService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _ := setupWorkflowService(ctrl)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, w *domain.Workflow) error {
			assert.Equal(t, "Relance", w.Name)
			assert.Equal(t, domain.WorkflowStatusInactive, w.Status)
			w.ID = "wf-1"
			return nil
		})

	workflow, err := svc.Create(context.Background(), &domain.CreateWorkflowRequest{
		Name:          "  Relance ",
		TriggerType:   domain.TriggerTypeInactivity,
		TriggerConfig: domain.TriggerConfig{Days: 7},
		Actions:       []domain.Action{{Config: domain.AddTagConfig{Tag: "dormant"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "wf-1", workflow.ID)
}

func TestWorkflowService_Create_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, _ := setupWorkflowService(ctrl)

	_, err := svc.Create(context.Background(), &domain.CreateWorkflowRequest{
		Name:        "Relance",
		TriggerType: domain.TriggerTypeInactivity,
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Contains(t, err.Error(), "trigger_config.days")
}

func TestWorkflowService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _ := setupWorkflowService(ctrl)

	repo.EXPECT().GetByID(gomock.Any(), "wf-x").Return(nil, &domain.ErrNotFound{Entity: "workflow", ID: "wf-x"})
	_, err := svc.Get(context.Background(), "wf-x")
	assert.True(t, domain.IsNotFound(err))

	repo.EXPECT().GetByID(gomock.Any(), "wf-1").Return(nil, errors.New("db down"))
	_, err = svc.Get(context.Background(), "wf-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get workflow")
}

func TestWorkflowService_Update_KeepsStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _ := setupWorkflowService(ctrl)

	repo.EXPECT().GetByID(gomock.Any(), "wf-1").Return(&domain.Workflow{
		ID:          "wf-1",
		Name:        "Old",
		Status:      domain.WorkflowStatusActive,
		TriggerType: domain.TriggerTypeManual,
	}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, w *domain.Workflow) error {
			assert.Equal(t, "New", w.Name)
			assert.Equal(t, domain.WorkflowStatusActive, w.Status)
			assert.Equal(t, domain.TriggerTypeFormSubmission, w.TriggerType)
			assert.Equal(t, "form-1", w.TriggerConfig.FormID)
			return nil
		})

	workflow, err := svc.Update(context.Background(), &domain.UpdateWorkflowRequest{
		ID:            "wf-1",
		Name:          "New",
		TriggerType:   domain.TriggerTypeFormSubmission,
		TriggerConfig: domain.TriggerConfig{FormID: "form-1"},
	})
	require.NoError(t, err)
	assert.Empty(t, workflow.Actions)
}

func TestWorkflowService_ActivateAndPause(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _ := setupWorkflowService(ctrl)
	stored := &domain.Workflow{
		ID:          "wf-1",
		Name:        "Bienvenue",
		Status:      domain.WorkflowStatusInactive,
		TriggerType: domain.TriggerTypeContactCreated,
		Actions:     []domain.Action{},
	}

	repo.EXPECT().GetByID(gomock.Any(), "wf-1").Return(stored, nil).Times(3)
	repo.EXPECT().Update(gomock.Any(), stored).Return(nil).Times(2)

	workflow, err := svc.Activate(context.Background(), "wf-1")
	require.NoError(t, err)
	assert.True(t, workflow.IsActive())

	// Activating an active workflow does not write
	_, err = svc.Activate(context.Background(), "wf-1")
	require.NoError(t, err)

	workflow, err = svc.Pause(context.Background(), "wf-1")
	require.NoError(t, err)
	assert.False(t, workflow.IsActive())
}

func TestWorkflowService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _ := setupWorkflowService(ctrl)

	repo.EXPECT().Delete(gomock.Any(), "wf-1").Return(nil)
	require.NoError(t, svc.Delete(context.Background(), "wf-1"))

	repo.EXPECT().Delete(gomock.Any(), "wf-x").Return(&domain.ErrNotFound{Entity: "workflow", ID: "wf-x"})
	assert.True(t, domain.IsNotFound(svc.Delete(context.Background(), "wf-x")))
}

func TestWorkflowService_ListExecutions_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, executionRepo := setupWorkflowService(ctrl)

	executionRepo.EXPECT().
		List(gomock.Any(), domain.ListExecutionsRequest{WorkflowID: "wf-1", Limit: 100}).
		Return([]*domain.WorkflowExecution{{ID: "exec-1"}}, 250, nil)

	executions, total, err := svc.ListExecutions(context.Background(), domain.ListExecutionsRequest{WorkflowID: "wf-1", Limit: 500, Offset: -3})
	require.NoError(t, err)
	assert.Len(t, executions, 1)
	assert.Equal(t, 250, total)
}

func TestWorkflowService_GetExecution(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, executionRepo := setupWorkflowService(ctrl)

	executionRepo.EXPECT().GetByID(gomock.Any(), "exec-1").
		Return(&domain.WorkflowExecution{ID: "exec-1", Status: domain.ExecutionStatusCompleted}, nil)

	execution, err := svc.GetExecution(context.Background(), "exec-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusCompleted, execution.Status)
}
