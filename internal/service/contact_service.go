package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
	"github.com/lumiere-academy/backend/pkg/tracing"
)

type ContactService struct {
	repo         domain.ContactRepository
	workflowRepo domain.WorkflowRepository
	runner       domain.WorkflowRunner
	logger       logger.Logger
}

func NewContactService(
	repo domain.ContactRepository,
	workflowRepo domain.WorkflowRepository,
	runner domain.WorkflowRunner,
	logger logger.Logger,
) *ContactService {
	return &ContactService{
		repo:         repo,
		workflowRepo: workflowRepo,
		runner:       runner,
		logger:       logger,
	}
}

func (s *ContactService) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("contact_id", id).Error(fmt.Sprintf("Failed to get contact: %v", err))
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// Upsert creates or updates the contact by email. Inserting a new contact
// fires the active contact_created workflows.
func (s *ContactService) Upsert(ctx context.Context, contact *domain.Contact) (created bool, err error) {
	// codecov:ignore:start
	ctx, span := tracing.StartServiceSpan(ctx, "ContactService", "Upsert")
	defer func() { tracing.EndSpan(span, err) }()
	// codecov:ignore:end

	contact.Email = domain.NormalizeEmail(contact.Email)
	if err := contact.Validate(); err != nil {
		return false, domain.NewValidationError(err.Error())
	}

	created, err = s.repo.Upsert(ctx, contact)
	if err != nil {
		s.logger.WithField("email", contact.Email).Error(fmt.Sprintf("Failed to upsert contact: %v", err))
		return false, fmt.Errorf("failed to upsert contact: %w", err)
	}

	if created {
		s.fireContactCreated(ctx, contact)
	}

	return created, nil
}

func (s *ContactService) fireContactCreated(ctx context.Context, contact *domain.Contact) {
	log := s.logger.WithField("contact_id", contact.ID)

	workflows, err := s.workflowRepo.ListActiveByTrigger(ctx, domain.TriggerTypeContactCreated)
	if err != nil {
		log.WithField("error", err.Error()).Error("Failed to list contact_created workflows")
		return
	}

	triggerData, err := json.Marshal(map[string]interface{}{
		"type":       string(domain.TriggerTypeContactCreated),
		"contact_id": contact.ID,
		"email":      contact.Email,
	})
	if err != nil {
		log.WithField("error", err.Error()).Error("Failed to build contact_created trigger data")
		return
	}

	for _, workflow := range workflows {
		if _, err := s.runner.Run(ctx, domain.RunRequest{
			WorkflowID:  workflow.ID,
			ContactID:   contact.ID,
			TriggerData: triggerData,
		}); err != nil {
			log.WithFields(map[string]interface{}{
				"workflow_id": workflow.ID,
				"error":       err.Error(),
			}).Warn("contact_created workflow execution failed")
		}
	}
}
