package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
	"github.com/lumiere-academy/backend/pkg/tracing"
)

const inactivityPageSize = 100

// InactivityScanService fires inactivity workflows for idle contacts.
// Each (workflow, contact) pair fires at most once per claim window.
type InactivityScanService struct {
	workflowRepo  domain.WorkflowRepository
	contactRepo   domain.ContactRepository
	executionRepo domain.WorkflowExecutionRepository
	claimRepo     domain.TriggerClaimRepository
	runner        domain.WorkflowRunner
	window        time.Duration
	logger        logger.Logger
	now           func() time.Time
}

func NewInactivityScanService(
	workflowRepo domain.WorkflowRepository,
	contactRepo domain.ContactRepository,
	executionRepo domain.WorkflowExecutionRepository,
	claimRepo domain.TriggerClaimRepository,
	runner domain.WorkflowRunner,
	window time.Duration,
	log logger.Logger,
) *InactivityScanService {
	return &InactivityScanService{
		workflowRepo:  workflowRepo,
		contactRepo:   contactRepo,
		executionRepo: executionRepo,
		claimRepo:     claimRepo,
		runner:        runner,
		window:        window,
		logger:        log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Scan runs every active inactivity workflow against the contacts idle past its threshold
func (s *InactivityScanService) Scan(ctx context.Context) (result *domain.ScanResult, err error) {
	// codecov:ignore:start
	ctx, span := tracing.StartServiceSpan(ctx, "InactivityScanService", "Scan")
	defer func() { tracing.EndSpan(span, err) }()
	// codecov:ignore:end

	workflows, err := s.workflowRepo.ListActiveByTrigger(ctx, domain.TriggerTypeInactivity)
	if err != nil {
		return nil, fmt.Errorf("failed to list inactivity workflows: %w", err)
	}

	now := s.now()
	bucket := s.claimBucket(now)
	result = &domain.ScanResult{}

	for _, workflow := range workflows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.WorkflowsScanned++

		if err := s.scanWorkflow(ctx, workflow, now, bucket, result); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"workflow_id": workflow.ID,
				"error":       err.Error(),
			}).Error("Failed to scan inactivity workflow")
			result.Failures++
		}
	}

	if result.Failures > 0 {
		// codecov:ignore:start
		tracing.MarkSpanError(ctx, fmt.Errorf("inactivity scan finished with %d failures", result.Failures))
		// codecov:ignore:end
	}

	s.logger.WithFields(map[string]interface{}{
		"workflows_scanned":  result.WorkflowsScanned,
		"contacts_triggered": result.ContactsTriggered,
		"contacts_skipped":   result.ContactsSkipped,
		"failures":           result.Failures,
	}).Info("Inactivity scan finished")

	return result, nil
}

func (s *InactivityScanService) scanWorkflow(ctx context.Context, workflow *domain.Workflow, now time.Time, bucket int64, result *domain.ScanResult) error {
	cutoff := workflow.InactivityCutoff(now)
	afterID := ""

	for {
		contacts, err := s.contactRepo.ListInactive(ctx, cutoff, afterID, inactivityPageSize)
		if err != nil {
			return err
		}

		for _, contact := range contacts {
			if err := s.trigger(ctx, workflow, contact, cutoff, bucket, result); err != nil {
				s.logger.WithFields(map[string]interface{}{
					"workflow_id": workflow.ID,
					"contact_id":  contact.ID,
					"error":       err.Error(),
				}).Warn("Inactivity trigger failed")
				result.Failures++
			}
		}

		if len(contacts) < inactivityPageSize {
			return nil
		}
		afterID = contacts[len(contacts)-1].ID
	}
}

func (s *InactivityScanService) trigger(ctx context.Context, workflow *domain.Workflow, contact *domain.Contact, cutoff time.Time, bucket int64, result *domain.ScanResult) error {
	recent, err := s.executionRepo.HasExecutionSince(ctx, workflow.ID, contact.ID, cutoff)
	if err != nil {
		return err
	}
	if recent {
		tracing.RecordInactivityClaim(ctx, "recent")
		result.ContactsSkipped++
		return nil
	}

	claimed, err := s.claimRepo.Claim(ctx, workflow.ID, contact.ID, bucket)
	if err != nil {
		return err
	}
	if !claimed {
		tracing.RecordInactivityClaim(ctx, "duplicate")
		result.ContactsSkipped++
		return nil
	}
	tracing.RecordInactivityClaim(ctx, "claimed")

	triggerData, err := json.Marshal(map[string]interface{}{
		"type":          string(domain.TriggerTypeInactivity),
		"days":          workflow.TriggerConfig.Days,
		"last_activity": contact.UpdatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	result.ContactsTriggered++
	_, err = s.runner.Run(ctx, domain.RunRequest{
		WorkflowID:  workflow.ID,
		ContactID:   contact.ID,
		TriggerData: triggerData,
	})
	return err
}

// claimBucket numbers the claim window containing now
func (s *InactivityScanService) claimBucket(now time.Time) int64 {
	seconds := int64(s.window / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	return now.Unix() / seconds
}
