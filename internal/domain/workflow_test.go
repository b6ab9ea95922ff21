package domain_test

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiere-academy/backend/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestAction_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.Action
		wantErr string
	}{
		{
			name:  "send email",
			input: `{"type":"send_email","config":{"template_id":"tpl-1"}}`,
			want:  domain.Action{Config: domain.SendEmailConfig{TemplateID: "tpl-1"}},
		},
		{
			name:  "add tag with delay",
			input: `{"type":"add_tag","delay_minutes":30,"config":{"tag":"vip"}}`,
			want:  domain.Action{DelayMinutes: intPtr(30), Config: domain.AddTagConfig{Tag: "vip"}},
		},
		{
			name:  "create contact without config",
			input: `{"type":"create_contact"}`,
			want:  domain.Action{Config: domain.CreateContactConfig{}},
		},
		{
			name:  "create contact with mapping",
			input: `{"type":"create_contact","config":{"mapping_config":{"field_1":"email"}}}`,
			want:  domain.Action{Config: domain.CreateContactConfig{MappingConfig: map[string]string{"field_1": "email"}}},
		},
		{
			name:  "wait with null config",
			input: `{"type":"wait","delay_minutes":1440,"config":null}`,
			want:  domain.Action{DelayMinutes: intPtr(1440), Config: domain.WaitConfig{}},
		},
		{
			name:  "notification",
			input: `{"type":"send_notification","config":{"message":"Nouveau lead {contact_name}"}}`,
			want:  domain.Action{Config: domain.SendNotificationConfig{Message: "Nouveau lead {contact_name}"}},
		},
		{
			name:    "unknown type",
			input:   `{"type":"send_sms","config":{}}`,
			wantErr: "unknown action type",
		},
		{
			name:    "missing type",
			input:   `{"config":{"tag":"vip"}}`,
			wantErr: "unknown action type",
		},
		{
			name:    "missing template id",
			input:   `{"type":"send_email","config":{}}`,
			wantErr: "template_id is required",
		},
		{
			name:    "missing list id",
			input:   `{"type":"remove_from_list"}`,
			wantErr: "list_id is required",
		},
		{
			name:    "blank tag",
			input:   `{"type":"remove_tag","config":{"tag":"  "}}`,
			wantErr: "tag is required",
		},
		{
			name:    "negative delay",
			input:   `{"type":"wait","delay_minutes":-5}`,
			wantErr: "delay_minutes cannot be negative",
		},
		{
			name:    "invalid admin email",
			input:   `{"type":"send_notification","config":{"admin_email":"boss"}}`,
			wantErr: "admin_email is not a valid email",
		},
		{
			name:    "config type mismatch",
			input:   `{"type":"add_to_list","config":{"list_id":42}}`,
			wantErr: "invalid action config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var action domain.Action
			err := json.Unmarshal([]byte(tt.input), &action)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, action)
		})
	}
}

func TestAction_MarshalJSON(t *testing.T) {
	action := domain.Action{DelayMinutes: intPtr(10), Config: domain.AddToListConfig{ListID: "list-1"}}

	data, err := json.Marshal(action)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"add_to_list","delay_minutes":10,"config":{"list_id":"list-1"}}`, string(data))

	var decoded domain.Action
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, action, decoded)
}

func TestAction_Delay(t *testing.T) {
	assert.Equal(t, time.Duration(0), domain.Action{}.Delay())
	assert.Equal(t, time.Duration(0), domain.Action{DelayMinutes: intPtr(0)}.Delay())
	assert.Equal(t, 90*time.Minute, domain.Action{DelayMinutes: intPtr(90)}.Delay())
}

func TestWorkflow_Validate(t *testing.T) {
	valid := func() *domain.Workflow {
		return &domain.Workflow{
			Name:        "Bienvenue",
			Status:      domain.WorkflowStatusActive,
			TriggerType: domain.TriggerTypeContactCreated,
			Actions:     []domain.Action{{Config: domain.SendEmailConfig{TemplateID: "tpl-1"}}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(w *domain.Workflow)
		wantErr string
	}{
		{name: "valid", mutate: func(w *domain.Workflow) {}},
		{name: "missing name", mutate: func(w *domain.Workflow) { w.Name = "" }, wantErr: "required"},
		{name: "invalid status", mutate: func(w *domain.Workflow) { w.Status = "draft" }, wantErr: "invalid status"},
		{name: "invalid trigger", mutate: func(w *domain.Workflow) { w.TriggerType = "webhook" }, wantErr: "invalid trigger_type"},
		{
			name: "inactivity without days",
			mutate: func(w *domain.Workflow) {
				w.TriggerType = domain.TriggerTypeInactivity
			},
			wantErr: "trigger_config.days",
		},
		{
			name: "inactivity with days",
			mutate: func(w *domain.Workflow) {
				w.TriggerType = domain.TriggerTypeInactivity
				w.TriggerConfig.Days = 7
			},
		},
		{
			name: "form submission without form",
			mutate: func(w *domain.Workflow) {
				w.TriggerType = domain.TriggerTypeFormSubmission
			},
			wantErr: "trigger_config.form_id",
		},
		{
			name: "invalid action",
			mutate: func(w *domain.Workflow) {
				w.Actions = append(w.Actions, domain.Action{})
			},
			wantErr: "actions[1]: config is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := valid()
			tt.mutate(w)
			err := w.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkflow_InactivityCutoff(t *testing.T) {
	w := &domain.Workflow{TriggerConfig: domain.TriggerConfig{Days: 30}}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 1, 30, 9, 0, 0, 0, time.UTC), w.InactivityCutoff(now))
}

func TestCreateWorkflowRequest_Validate(t *testing.T) {
	req := &domain.CreateWorkflowRequest{
		Name:        "  Relance  ",
		TriggerType: domain.TriggerTypeManual,
	}

	w, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, "Relance", w.Name)
	assert.Equal(t, domain.WorkflowStatusInactive, w.Status)
	assert.NotNil(t, w.Actions)

	req.Active = true
	w, err = req.Validate()
	require.NoError(t, err)
	assert.True(t, w.IsActive())
}

func TestUpdateWorkflowRequest_Validate(t *testing.T) {
	req := &domain.UpdateWorkflowRequest{ID: "wf-1", Name: "Relance", TriggerType: domain.TriggerTypeManual}
	require.NoError(t, req.Validate())
	assert.NotNil(t, req.Actions)

	missingID := &domain.UpdateWorkflowRequest{Name: "Relance", TriggerType: domain.TriggerTypeManual}
	assert.True(t, domain.IsValidationError(missingID.Validate()))
}

func TestListWorkflowsRequest_FromURLParams(t *testing.T) {
	var req domain.ListWorkflowsRequest
	require.NoError(t, req.FromURLParams(url.Values{"status": {"active"}, "trigger_type": {"inactivity"}}))
	assert.Equal(t, domain.WorkflowStatusActive, req.Status)
	assert.Equal(t, domain.TriggerTypeInactivity, req.TriggerType)

	assert.Error(t, req.FromURLParams(url.Values{"status": {"draft"}}))
	assert.Error(t, req.FromURLParams(url.Values{"trigger_type": {"cron"}}))
	require.NoError(t, req.FromURLParams(url.Values{}))
	assert.Empty(t, req.Status)
}

func TestWorkflowIDRequest_FromURLParams(t *testing.T) {
	var req domain.WorkflowIDRequest
	require.NoError(t, req.FromURLParams(url.Values{"id": {"wf-1"}}))
	assert.Equal(t, "wf-1", req.ID)
	assert.True(t, domain.IsValidationError(req.FromURLParams(url.Values{})))
}

func TestScanWorkflow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows(domain.WorkflowColumns).AddRow(
			"wf-1", "Relance", "", "active", "inactivity",
			[]byte(`{"days":7}`),
			[]byte(`[{"type":"wait","delay_minutes":60},{"type":"send_email","config":{"template_id":"tpl-1"}}]`),
			now, now,
		),
	)

	rows, err := db.Query("SELECT")
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())

	w, err := domain.ScanWorkflow(rows)
	require.NoError(t, err)
	assert.Equal(t, domain.TriggerTypeInactivity, w.TriggerType)
	assert.Equal(t, 7, w.TriggerConfig.Days)
	require.Len(t, w.Actions, 2)
	assert.Equal(t, domain.ActionTypeWait, w.Actions[0].Type())
	assert.Equal(t, time.Hour, w.Actions[0].Delay())
	assert.Equal(t, domain.SendEmailConfig{TemplateID: "tpl-1"}, w.Actions[1].Config)
}
