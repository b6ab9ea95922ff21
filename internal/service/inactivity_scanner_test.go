package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/internal/domain/mocks"
)

type scannerMocks struct {
	workflowRepo  *mocks.MockWorkflowRepository
	contactRepo   *mocks.MockContactRepository
	executionRepo *mocks.MockWorkflowExecutionRepository
	claimRepo     *mocks.MockTriggerClaimRepository
	runner        *mocks.MockWorkflowRunner
}

func setupScanner(ctrl *gomock.Controller, window time.Duration) (*InactivityScanService, *scannerMocks) {
	m := &scannerMocks{
		workflowRepo:  mocks.NewMockWorkflowRepository(ctrl),
		contactRepo:   mocks.NewMockContactRepository(ctrl),
		executionRepo: mocks.NewMockWorkflowExecutionRepository(ctrl),
		claimRepo:     mocks.NewMockTriggerClaimRepository(ctrl),
		runner:        mocks.NewMockWorkflowRunner(ctrl),
	}
	scanner := NewInactivityScanService(m.workflowRepo, m.contactRepo, m.executionRepo, m.claimRepo, m.runner, window, setupMockLogger(ctrl))
	scanner.now = func() time.Time { return runnerNow }
	return scanner, m
}

func inactivityWorkflow(id string, days int) *domain.Workflow {
	return &domain.Workflow{
		ID:            id,
		Name:          "Relance",
		Status:        domain.WorkflowStatusActive,
		TriggerType:   domain.TriggerTypeInactivity,
		TriggerConfig: domain.TriggerConfig{Days: days},
	}
}

func TestInactivityScanService_Scan_TriggersOncePerWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scanner, m := setupScanner(ctrl, 24*time.Hour)
	workflow := inactivityWorkflow("wf-1", 7)
	cutoff := runnerNow.AddDate(0, 0, -7)
	bucket := runnerNow.Unix() / int64((24 * time.Hour).Seconds())
	contact := &domain.Contact{ID: "c1", Email: "c1@example.com", UpdatedAt: runnerNow.AddDate(0, 0, -10)}

	m.workflowRepo.EXPECT().ListActiveByTrigger(gomock.Any(), domain.TriggerTypeInactivity).
		Return([]*domain.Workflow{workflow}, nil).Times(2)
	m.contactRepo.EXPECT().ListInactive(gomock.Any(), cutoff, "", inactivityPageSize).
		Return([]*domain.Contact{contact}, nil).Times(2)

	// First scan: no prior execution, claim succeeds, runner invoked once
	// Second scan: the execution started by the first scan is after the cutoff
	gomock.InOrder(
		m.executionRepo.EXPECT().HasExecutionSince(gomock.Any(), "wf-1", "c1", cutoff).Return(false, nil),
		m.executionRepo.EXPECT().HasExecutionSince(gomock.Any(), "wf-1", "c1", cutoff).Return(true, nil),
	)
	m.claimRepo.EXPECT().Claim(gomock.Any(), "wf-1", "c1", bucket).Return(true, nil)
	m.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.RunRequest) (*domain.RunResult, error) {
			assert.Equal(t, "wf-1", req.WorkflowID)
			assert.Equal(t, "c1", req.ContactID)

			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(req.TriggerData, &payload))
			assert.Equal(t, "inactivity", payload["type"])
			assert.Equal(t, float64(7), payload["days"])
			return &domain.RunResult{ExecutionID: "exec-1", Status: domain.ExecutionStatusCompleted}, nil
		}).Times(1)

	first, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.ScanResult{WorkflowsScanned: 1, ContactsTriggered: 1}, first)

	second, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.ScanResult{WorkflowsScanned: 1, ContactsSkipped: 1}, second)
}

func TestInactivityScanService_Scan_ConcurrentClaimSkips(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scanner, m := setupScanner(ctrl, time.Hour)
	workflow := inactivityWorkflow("wf-1", 3)

	m.workflowRepo.EXPECT().ListActiveByTrigger(gomock.Any(), domain.TriggerTypeInactivity).
		Return([]*domain.Workflow{workflow}, nil)
	m.contactRepo.EXPECT().ListInactive(gomock.Any(), gomock.Any(), "", inactivityPageSize).
		Return([]*domain.Contact{{ID: "c1"}}, nil)
	m.executionRepo.EXPECT().HasExecutionSince(gomock.Any(), "wf-1", "c1", gomock.Any()).Return(false, nil)
	// Another scanner won the claim between the precheck and the insert
	m.claimRepo.EXPECT().Claim(gomock.Any(), "wf-1", "c1", gomock.Any()).Return(false, nil)

	result, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.ContactsTriggered)
	assert.Equal(t, 1, result.ContactsSkipped)
}

func TestInactivityScanService_Scan_Pagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scanner, m := setupScanner(ctrl, time.Hour)
	workflow := inactivityWorkflow("wf-1", 30)

	firstPage := make([]*domain.Contact, inactivityPageSize)
	for i := range firstPage {
		firstPage[i] = &domain.Contact{ID: fmt.Sprintf("c%03d", i)}
	}
	secondPage := []*domain.Contact{{ID: "c999"}}

	m.workflowRepo.EXPECT().ListActiveByTrigger(gomock.Any(), domain.TriggerTypeInactivity).
		Return([]*domain.Workflow{workflow}, nil)
	gomock.InOrder(
		m.contactRepo.EXPECT().ListInactive(gomock.Any(), gomock.Any(), "", inactivityPageSize).Return(firstPage, nil),
		m.contactRepo.EXPECT().ListInactive(gomock.Any(), gomock.Any(), firstPage[len(firstPage)-1].ID, inactivityPageSize).Return(secondPage, nil),
	)
	m.executionRepo.EXPECT().HasExecutionSince(gomock.Any(), "wf-1", gomock.Any(), gomock.Any()).
		Return(true, nil).Times(inactivityPageSize + 1)

	result, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, inactivityPageSize+1, result.ContactsSkipped)
}

func TestInactivityScanService_Scan_FailuresAreCounted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scanner, m := setupScanner(ctrl, time.Hour)

	m.workflowRepo.EXPECT().ListActiveByTrigger(gomock.Any(), domain.TriggerTypeInactivity).
		Return([]*domain.Workflow{inactivityWorkflow("wf-1", 7), inactivityWorkflow("wf-2", 14)}, nil)

	// wf-1: contact listing fails
	m.contactRepo.EXPECT().ListInactive(gomock.Any(), runnerNow.AddDate(0, 0, -7), "", inactivityPageSize).
		Return(nil, errors.New("timeout"))

	// wf-2: one contact whose run fails, one whose precheck fails
	m.contactRepo.EXPECT().ListInactive(gomock.Any(), runnerNow.AddDate(0, 0, -14), "", inactivityPageSize).
		Return([]*domain.Contact{{ID: "c1"}, {ID: "c2"}}, nil)
	m.executionRepo.EXPECT().HasExecutionSince(gomock.Any(), "wf-2", "c1", gomock.Any()).Return(false, nil)
	m.executionRepo.EXPECT().HasExecutionSince(gomock.Any(), "wf-2", "c2", gomock.Any()).Return(false, errors.New("timeout"))
	m.claimRepo.EXPECT().Claim(gomock.Any(), "wf-2", "c1", gomock.Any()).Return(true, nil)
	m.runner.EXPECT().Run(gomock.Any(), gomock.Any()).
		Return(&domain.RunResult{ExecutionID: "exec-1", Status: domain.ExecutionStatusFailed}, errors.New("smtp down"))

	result, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.ScanResult{WorkflowsScanned: 2, ContactsTriggered: 1, Failures: 3}, result)
}

func TestInactivityScanService_Scan_ListWorkflowsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scanner, m := setupScanner(ctrl, time.Hour)
	m.workflowRepo.EXPECT().ListActiveByTrigger(gomock.Any(), domain.TriggerTypeInactivity).
		Return(nil, errors.New("db down"))

	result, err := scanner.Scan(context.Background())
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestInactivityScanService_ClaimBucket(t *testing.T) {
	scanner := &InactivityScanService{window: time.Hour}

	start := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, scanner.claimBucket(start), scanner.claimBucket(start.Add(59*time.Minute)))
	assert.NotEqual(t, scanner.claimBucket(start), scanner.claimBucket(start.Add(time.Hour)))

	zero := &InactivityScanService{}
	assert.Equal(t, start.Unix(), zero.claimBucket(start))
}
