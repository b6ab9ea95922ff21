package service

import (
	"context"
	"fmt"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
)

type TemplateService struct {
	repo   domain.EmailTemplateRepository
	logger logger.Logger
}

func NewTemplateService(repo domain.EmailTemplateRepository, logger logger.Logger) *TemplateService {
	return &TemplateService{
		repo:   repo,
		logger: logger,
	}
}

func (s *TemplateService) Create(ctx context.Context, req *domain.CreateEmailTemplateRequest) (*domain.EmailTemplate, error) {
	template, err := req.Validate()
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, template); err != nil {
		s.logger.WithField("name", template.Name).Error(fmt.Sprintf("Failed to create template: %v", err))
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	return template, nil
}

func (s *TemplateService) Get(ctx context.Context, id string) (*domain.EmailTemplate, error) {
	template, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WithField("template_id", id).Error(fmt.Sprintf("Failed to get template: %v", err))
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

func (s *TemplateService) List(ctx context.Context) ([]*domain.EmailTemplate, error) {
	templates, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to get templates: %v", err))
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	return templates, nil
}
