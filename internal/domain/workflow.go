package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

//go:generate mockgen -destination mocks/mock_workflow_repository.go -package mocks github.com/lumiere-academy/backend/internal/domain WorkflowRepository
//go:generate mockgen -destination mocks/mock_workflow_service.go -package mocks github.com/lumiere-academy/backend/internal/domain WorkflowService

// WorkflowStatus controls whether a workflow runs; only active workflows do
type WorkflowStatus string

const (
	WorkflowStatusActive   WorkflowStatus = "active"
	WorkflowStatusInactive WorkflowStatus = "inactive"
)

// TriggerType is the event class that starts a workflow
type TriggerType string

const (
	TriggerTypeFormSubmission TriggerType = "form_submission"
	TriggerTypeContactCreated TriggerType = "contact_created"
	TriggerTypeInactivity     TriggerType = "inactivity"
	TriggerTypeManual         TriggerType = "manual"
)

func (t TriggerType) IsValid() bool {
	switch t {
	case TriggerTypeFormSubmission, TriggerTypeContactCreated, TriggerTypeInactivity, TriggerTypeManual:
		return true
	}
	return false
}

// TriggerConfig holds the trigger specific settings
type TriggerConfig struct {
	// Days of inactivity, for inactivity triggers
	Days int `json:"days,omitempty"`
	// FormID of the watched form, for form_submission triggers
	FormID string `json:"form_id,omitempty"`
}

// Workflow is an automation definition: a trigger and an ordered action list
type Workflow struct {
	ID            string         `json:"id"`
	Name          string         `json:"name" valid:"required,stringlength(1|255)"`
	Description   string         `json:"description,omitempty"`
	Status        WorkflowStatus `json:"status"`
	TriggerType   TriggerType    `json:"trigger_type"`
	TriggerConfig TriggerConfig  `json:"trigger_config"`
	Actions       []Action       `json:"actions"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// IsActive reports whether the workflow may run
func (w *Workflow) IsActive() bool {
	return w.Status == WorkflowStatusActive
}

func (w *Workflow) Validate() error {
	if _, err := govalidator.ValidateStruct(w); err != nil {
		return NewValidationError(err.Error())
	}
	if w.Status != WorkflowStatusActive && w.Status != WorkflowStatusInactive {
		return NewValidationError(fmt.Sprintf("invalid status: %s", w.Status))
	}
	if !w.TriggerType.IsValid() {
		return NewValidationError(fmt.Sprintf("invalid trigger_type: %s", w.TriggerType))
	}
	switch w.TriggerType {
	case TriggerTypeInactivity:
		if w.TriggerConfig.Days <= 0 {
			return NewValidationError("trigger_config.days must be positive for inactivity triggers")
		}
	case TriggerTypeFormSubmission:
		if w.TriggerConfig.FormID == "" {
			return NewValidationError("trigger_config.form_id is required for form_submission triggers")
		}
	}
	for i, a := range w.Actions {
		if err := a.Validate(); err != nil {
			return NewValidationError(fmt.Sprintf("actions[%d]: %s", i, err.Error()))
		}
	}
	return nil
}

// InactivityCutoff returns the updated_at threshold below which a contact is inactive
func (w *Workflow) InactivityCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -w.TriggerConfig.Days)
}

// ActionType is the tag of the Action sum type
type ActionType string

const (
	ActionTypeCreateContact    ActionType = "create_contact"
	ActionTypeSendEmail        ActionType = "send_email"
	ActionTypeAddToList        ActionType = "add_to_list"
	ActionTypeRemoveFromList   ActionType = "remove_from_list"
	ActionTypeAddTag           ActionType = "add_tag"
	ActionTypeRemoveTag        ActionType = "remove_tag"
	ActionTypeSendNotification ActionType = "send_notification"
	ActionTypeWait             ActionType = "wait"
)

// ActionConfig is implemented by exactly one config struct per action type
type ActionConfig interface {
	ActionType() ActionType
	Validate() error
}

// CreateContactConfig resolves or creates the contact from the trigger payload.
// MappingConfig maps submitted field ids to canonical keys (email, first_name, ...).
type CreateContactConfig struct {
	MappingConfig map[string]string `json:"mapping_config,omitempty"`
}

func (CreateContactConfig) ActionType() ActionType { return ActionTypeCreateContact }
func (CreateContactConfig) Validate() error        { return nil }

type SendEmailConfig struct {
	TemplateID string `json:"template_id"`
}

func (SendEmailConfig) ActionType() ActionType { return ActionTypeSendEmail }
func (c SendEmailConfig) Validate() error {
	if c.TemplateID == "" {
		return fmt.Errorf("template_id is required")
	}
	return nil
}

type AddToListConfig struct {
	ListID string `json:"list_id"`
}

func (AddToListConfig) ActionType() ActionType { return ActionTypeAddToList }
func (c AddToListConfig) Validate() error      { return requireListID(c.ListID) }

type RemoveFromListConfig struct {
	ListID string `json:"list_id"`
}

func (RemoveFromListConfig) ActionType() ActionType { return ActionTypeRemoveFromList }
func (c RemoveFromListConfig) Validate() error      { return requireListID(c.ListID) }

func requireListID(id string) error {
	if id == "" {
		return fmt.Errorf("list_id is required")
	}
	return nil
}

type AddTagConfig struct {
	Tag string `json:"tag"`
}

func (AddTagConfig) ActionType() ActionType { return ActionTypeAddTag }
func (c AddTagConfig) Validate() error      { return requireTag(c.Tag) }

type RemoveTagConfig struct {
	Tag string `json:"tag"`
}

func (RemoveTagConfig) ActionType() ActionType { return ActionTypeRemoveTag }
func (c RemoveTagConfig) Validate() error      { return requireTag(c.Tag) }

func requireTag(tag string) error {
	if strings.TrimSpace(tag) == "" {
		return fmt.Errorf("tag is required")
	}
	return nil
}

// SendNotificationConfig emails the admin about the current contact.
// AdminEmail overrides the configured default recipient.
type SendNotificationConfig struct {
	Message    string `json:"message"`
	Subject    string `json:"subject,omitempty"`
	AdminEmail string `json:"admin_email,omitempty"`
}

func (SendNotificationConfig) ActionType() ActionType { return ActionTypeSendNotification }
func (c SendNotificationConfig) Validate() error {
	if c.AdminEmail != "" && !govalidator.IsEmail(c.AdminEmail) {
		return fmt.Errorf("admin_email is not a valid email")
	}
	return nil
}

// WaitConfig does nothing by itself; pair it with delay_minutes to pause a workflow
type WaitConfig struct{}

func (WaitConfig) ActionType() ActionType { return ActionTypeWait }
func (WaitConfig) Validate() error        { return nil }

// Action is one step of a workflow
type Action struct {
	DelayMinutes *int         `json:"delay_minutes,omitempty"`
	Config       ActionConfig `json:"config"`
}

// Type returns the action tag, derived from its config variant
func (a Action) Type() ActionType {
	if a.Config == nil {
		return ""
	}
	return a.Config.ActionType()
}

// Delay returns the postponement requested by delay_minutes, zero when unset
func (a Action) Delay() time.Duration {
	if a.DelayMinutes == nil || *a.DelayMinutes <= 0 {
		return 0
	}
	return time.Duration(*a.DelayMinutes) * time.Minute
}

func (a Action) Validate() error {
	if a.Config == nil {
		return fmt.Errorf("config is required")
	}
	if a.DelayMinutes != nil && *a.DelayMinutes < 0 {
		return fmt.Errorf("delay_minutes cannot be negative")
	}
	return a.Config.Validate()
}

type actionJSON struct {
	Type         ActionType      `json:"type"`
	DelayMinutes *int            `json:"delay_minutes,omitempty"`
	Config       json.RawMessage `json:"config,omitempty"`
}

func (a Action) MarshalJSON() ([]byte, error) {
	var config json.RawMessage
	if a.Config != nil {
		b, err := json.Marshal(a.Config)
		if err != nil {
			return nil, err
		}
		config = b
	}
	return json.Marshal(actionJSON{
		Type:         a.Type(),
		DelayMinutes: a.DelayMinutes,
		Config:       config,
	})
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var raw actionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	config, err := decodeActionConfig(raw.Type, raw.Config)
	if err != nil {
		return err
	}

	a.DelayMinutes = raw.DelayMinutes
	a.Config = config
	return a.Validate()
}

func decodeActionConfig(actionType ActionType, data json.RawMessage) (ActionConfig, error) {
	if len(data) == 0 || string(data) == "null" {
		data = json.RawMessage("{}")
	}

	switch actionType {
	case ActionTypeCreateContact:
		var c CreateContactConfig
		err := decodeConfig(data, &c)
		return c, err
	case ActionTypeSendEmail:
		var c SendEmailConfig
		err := decodeConfig(data, &c)
		return c, err
	case ActionTypeAddToList:
		var c AddToListConfig
		err := decodeConfig(data, &c)
		return c, err
	case ActionTypeRemoveFromList:
		var c RemoveFromListConfig
		err := decodeConfig(data, &c)
		return c, err
	case ActionTypeAddTag:
		var c AddTagConfig
		err := decodeConfig(data, &c)
		return c, err
	case ActionTypeRemoveTag:
		var c RemoveTagConfig
		err := decodeConfig(data, &c)
		return c, err
	case ActionTypeSendNotification:
		var c SendNotificationConfig
		err := decodeConfig(data, &c)
		return c, err
	case ActionTypeWait:
		return WaitConfig{}, nil
	default:
		return nil, fmt.Errorf("unknown action type: %q", actionType)
	}
}

func decodeConfig(data json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid action config: %w", err)
	}
	return nil
}

// For database scanning
type dbWorkflow struct {
	ID            string
	Name          string
	Description   string
	Status        string
	TriggerType   string
	TriggerConfig []byte
	Actions       []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WorkflowColumns lists the columns read by ScanWorkflow, in scan order
var WorkflowColumns = []string{
	"id", "name", "description", "status", "trigger_type",
	"trigger_config", "actions", "created_at", "updated_at",
}

// ScanWorkflow scans a workflow from the database
func ScanWorkflow(scanner interface {
	Scan(dest ...interface{}) error
}) (*Workflow, error) {
	var dbw dbWorkflow
	if err := scanner.Scan(
		&dbw.ID,
		&dbw.Name,
		&dbw.Description,
		&dbw.Status,
		&dbw.TriggerType,
		&dbw.TriggerConfig,
		&dbw.Actions,
		&dbw.CreatedAt,
		&dbw.UpdatedAt,
	); err != nil {
		return nil, err
	}

	w := &Workflow{
		ID:          dbw.ID,
		Name:        dbw.Name,
		Description: dbw.Description,
		Status:      WorkflowStatus(dbw.Status),
		TriggerType: TriggerType(dbw.TriggerType),
		Actions:     []Action{},
		CreatedAt:   dbw.CreatedAt,
		UpdatedAt:   dbw.UpdatedAt,
	}
	if len(dbw.TriggerConfig) > 0 {
		if err := json.Unmarshal(dbw.TriggerConfig, &w.TriggerConfig); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trigger config: %w", err)
		}
	}
	if len(dbw.Actions) > 0 {
		if err := json.Unmarshal(dbw.Actions, &w.Actions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal actions: %w", err)
		}
	}

	return w, nil
}

// CreateWorkflowRequest is the payload of workflows.create
type CreateWorkflowRequest struct {
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	TriggerType   TriggerType   `json:"trigger_type"`
	TriggerConfig TriggerConfig `json:"trigger_config"`
	Actions       []Action      `json:"actions"`
	// Active creates the workflow already active; it defaults to inactive
	Active bool `json:"active,omitempty"`
}

func (r *CreateWorkflowRequest) Validate() (*Workflow, error) {
	status := WorkflowStatusInactive
	if r.Active {
		status = WorkflowStatusActive
	}
	actions := r.Actions
	if actions == nil {
		actions = []Action{}
	}
	w := &Workflow{
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		Status:        status,
		TriggerType:   r.TriggerType,
		TriggerConfig: r.TriggerConfig,
		Actions:       actions,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWorkflowRequest replaces the definition of an existing workflow
type UpdateWorkflowRequest struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	TriggerType   TriggerType   `json:"trigger_type"`
	TriggerConfig TriggerConfig `json:"trigger_config"`
	Actions       []Action      `json:"actions"`
}

func (r *UpdateWorkflowRequest) Validate() error {
	if r.ID == "" {
		return NewValidationError("id is required")
	}
	if r.Actions == nil {
		r.Actions = []Action{}
	}
	candidate := Workflow{
		Name:          strings.TrimSpace(r.Name),
		Status:        WorkflowStatusInactive,
		TriggerType:   r.TriggerType,
		TriggerConfig: r.TriggerConfig,
		Actions:       r.Actions,
	}
	return candidate.Validate()
}

// WorkflowIDRequest addresses one workflow (get, delete, activate, pause)
type WorkflowIDRequest struct {
	ID string `json:"id"`
}

func (r *WorkflowIDRequest) Validate() error {
	if r.ID == "" {
		return NewValidationError("id is required")
	}
	return nil
}

func (r *WorkflowIDRequest) FromURLParams(queryParams url.Values) error {
	r.ID = queryParams.Get("id")
	return r.Validate()
}

// ListWorkflowsRequest filters workflows.list
type ListWorkflowsRequest struct {
	Status      WorkflowStatus `json:"status,omitempty"`
	TriggerType TriggerType    `json:"trigger_type,omitempty"`
}

func (r *ListWorkflowsRequest) FromURLParams(queryParams url.Values) error {
	r.Status = WorkflowStatus(queryParams.Get("status"))
	r.TriggerType = TriggerType(queryParams.Get("trigger_type"))

	if r.Status != "" && r.Status != WorkflowStatusActive && r.Status != WorkflowStatusInactive {
		return NewValidationError(fmt.Sprintf("invalid status: %s", r.Status))
	}
	if r.TriggerType != "" && !r.TriggerType.IsValid() {
		return NewValidationError(fmt.Sprintf("invalid trigger_type: %s", r.TriggerType))
	}
	return nil
}

// WorkflowRepository is the workflow definition store
type WorkflowRepository interface {
	Create(ctx context.Context, workflow *Workflow) error
	GetByID(ctx context.Context, id string) (*Workflow, error)
	List(ctx context.Context, filter ListWorkflowsRequest) ([]*Workflow, error)
	Update(ctx context.Context, workflow *Workflow) error
	Delete(ctx context.Context, id string) error
	// ListActiveByTrigger returns active workflows with the given trigger type
	ListActiveByTrigger(ctx context.Context, triggerType TriggerType) ([]*Workflow, error)
	// ListActiveForForm returns active form_submission workflows watching formID
	ListActiveForForm(ctx context.Context, formID string) ([]*Workflow, error)
}

// WorkflowService is the admin surface over workflow definitions
type WorkflowService interface {
	Create(ctx context.Context, req *CreateWorkflowRequest) (*Workflow, error)
	Get(ctx context.Context, id string) (*Workflow, error)
	List(ctx context.Context, req ListWorkflowsRequest) ([]*Workflow, error)
	Update(ctx context.Context, req *UpdateWorkflowRequest) (*Workflow, error)
	Delete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) (*Workflow, error)
	Pause(ctx context.Context, id string) (*Workflow, error)
	ListExecutions(ctx context.Context, req ListExecutionsRequest) ([]*WorkflowExecution, int, error)
	GetExecution(ctx context.Context, id string) (*WorkflowExecution, error)
}
