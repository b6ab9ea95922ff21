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

func TestTemplateService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockEmailTemplateRepository(ctrl)
	svc := NewTemplateService(repo, setupMockLogger(ctrl))

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tpl *domain.EmailTemplate) error {
			tpl.ID = "tpl-1"
			return nil
		})

	template, err := svc.Create(context.Background(), &domain.CreateEmailTemplateRequest{
		Name:    "Bienvenue",
		Subject: "Bienvenue {first_name}",
		HTML:    "<p>Bonjour {contact_name}</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "tpl-1", template.ID)
}

func TestTemplateService_Create_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewTemplateService(mocks.NewMockEmailTemplateRepository(ctrl), setupMockLogger(ctrl))

	_, err := svc.Create(context.Background(), &domain.CreateEmailTemplateRequest{Name: "No body"})
	assert.True(t, domain.IsValidationError(err))
}

func TestTemplateService_GetAndList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockEmailTemplateRepository(ctrl)
	svc := NewTemplateService(repo, setupMockLogger(ctrl))

	repo.EXPECT().GetByID(gomock.Any(), "tpl-x").Return(nil, &domain.ErrNotFound{Entity: "email template", ID: "tpl-x"})
	_, err := svc.Get(context.Background(), "tpl-x")
	assert.True(t, domain.IsNotFound(err))

	repo.EXPECT().List(gomock.Any()).Return([]*domain.EmailTemplate{{ID: "tpl-1"}, {ID: "tpl-2"}}, nil)
	templates, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, templates, 2)

	repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))
	_, err = svc.List(context.Background())
	assert.Error(t, err)
}
