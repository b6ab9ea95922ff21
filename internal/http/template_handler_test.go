package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/internal/domain/mocks"
)

func setupTemplateHandler(t *testing.T) (*http.ServeMux, *mocks.MockEmailTemplateService) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	service := mocks.NewMockEmailTemplateService(ctrl)
	mux := http.NewServeMux()
	NewTemplateHandler(service, getTestJWTSecret, setupHandlerLogger(ctrl)).RegisterRoutes(mux)
	return mux, service
}

func TestTemplateHandler_Create(t *testing.T) {
	mux, service := setupTemplateHandler(t)

	service.EXPECT().Create(gomock.Any(), &domain.CreateEmailTemplateRequest{
		Name:    "Bienvenue",
		Subject: "Bienvenue {first_name}",
		HTML:    "<p>Bonjour {contact_name}</p>",
	}).Return(&domain.EmailTemplate{ID: "tpl-1", Name: "Bienvenue"}, nil)
	service.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.NewValidationError("html: non zero value required"))

	w := sendRequest(t, mux, http.MethodPost, "/api/templates.create", map[string]string{
		"name":    "Bienvenue",
		"subject": "Bienvenue {first_name}",
		"html":    "<p>Bonjour {contact_name}</p>",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "tpl-1", gjson.Get(w.Body.String(), "template.id").String())

	w = sendRequest(t, mux, http.MethodPost, "/api/templates.create", map[string]string{"name": "x"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateHandler_GetAndList(t *testing.T) {
	mux, service := setupTemplateHandler(t)

	service.EXPECT().Get(gomock.Any(), "tpl-x").Return(nil, &domain.ErrNotFound{Entity: "email template", ID: "tpl-x"})
	service.EXPECT().List(gomock.Any()).Return([]*domain.EmailTemplate{{ID: "tpl-1"}}, nil)
	service.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

	assert.Equal(t, http.StatusNotFound, sendRequest(t, mux, http.MethodGet, "/api/templates.get?id=tpl-x", nil, true).Code)
	assert.Equal(t, http.StatusBadRequest, sendRequest(t, mux, http.MethodGet, "/api/templates.get", nil, true).Code)

	w := sendRequest(t, mux, http.MethodGet, "/api/templates.list", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, gjson.Get(w.Body.String(), "templates").Array(), 1)

	assert.Equal(t, http.StatusInternalServerError, sendRequest(t, mux, http.MethodGet, "/api/templates.list", nil, true).Code)
}
