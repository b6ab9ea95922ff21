package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
	"github.com/lumiere-academy/backend/pkg/mailer"
	"github.com/lumiere-academy/backend/pkg/templating"
)

// ActionParams contains all data needed to execute one action
type ActionParams struct {
	Workflow    *domain.Workflow
	Execution   *domain.WorkflowExecution
	Action      domain.Action
	Index       int
	Contact     *domain.Contact // Current contact, nil until one is known
	TriggerData json.RawMessage
}

// ActionResult contains the outcome of executing an action
type ActionResult struct {
	// Contact replaces the current contact for the following actions
	Contact *domain.Contact
}

// ActionExecutor executes a specific action type
type ActionExecutor interface {
	Execute(ctx context.Context, params ActionParams) (*ActionResult, error)
	ActionType() domain.ActionType
}

// requireContact returns the current contact or the missing-contact error for the action
func requireContact(params ActionParams) (*domain.Contact, error) {
	if params.Contact == nil || params.Contact.ID == "" {
		return nil, &domain.ErrMissingContact{ActionType: params.Action.Type()}
	}
	return params.Contact, nil
}

func keepContact(params ActionParams) *ActionResult {
	return &ActionResult{Contact: params.Contact}
}

// contactPlaceholderValues builds the allow-listed template values for contact
func contactPlaceholderValues(contact *domain.Contact) map[string]string {
	return map[string]string{
		templating.PlaceholderContactName: contact.FullName(),
		templating.PlaceholderEmail:       contact.Email,
		templating.PlaceholderFirstName:   contact.FirstName,
		templating.PlaceholderLastName:    contact.LastName,
		templating.PlaceholderPhone:       contact.Phone,
	}
}

// CreateContactActionExecutor resolves the contact from the trigger payload
type CreateContactActionExecutor struct {
	resolver *ContactResolver
}

func NewCreateContactActionExecutor(resolver *ContactResolver) *CreateContactActionExecutor {
	return &CreateContactActionExecutor{resolver: resolver}
}

func (e *CreateContactActionExecutor) ActionType() domain.ActionType {
	return domain.ActionTypeCreateContact
}

func (e *CreateContactActionExecutor) Execute(ctx context.Context, params ActionParams) (*ActionResult, error) {
	config, ok := params.Action.Config.(domain.CreateContactConfig)
	if !ok {
		return nil, fmt.Errorf("invalid create_contact config")
	}

	contact, _, err := e.resolver.Resolve(ctx, params.TriggerData, config.MappingConfig)
	if err != nil {
		return nil, err
	}
	return &ActionResult{Contact: contact}, nil
}

// SendEmailActionExecutor renders a stored template for the contact and sends it
type SendEmailActionExecutor struct {
	templateRepo domain.EmailTemplateRepository
	renderer     *templating.Renderer
	mailer       mailer.Mailer
	logger       logger.Logger
}

func NewSendEmailActionExecutor(
	templateRepo domain.EmailTemplateRepository,
	renderer *templating.Renderer,
	m mailer.Mailer,
	log logger.Logger,
) *SendEmailActionExecutor {
	return &SendEmailActionExecutor{
		templateRepo: templateRepo,
		renderer:     renderer,
		mailer:       m,
		logger:       log,
	}
}

func (e *SendEmailActionExecutor) ActionType() domain.ActionType {
	return domain.ActionTypeSendEmail
}

func (e *SendEmailActionExecutor) Execute(ctx context.Context, params ActionParams) (*ActionResult, error) {
	contact, err := requireContact(params)
	if err != nil {
		return nil, err
	}
	config, ok := params.Action.Config.(domain.SendEmailConfig)
	if !ok {
		return nil, fmt.Errorf("invalid send_email config")
	}

	template, err := e.templateRepo.GetByID(ctx, config.TemplateID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.ErrTemplateNotFound{TemplateID: config.TemplateID}
		}
		return nil, fmt.Errorf("failed to get email template: %w", err)
	}

	subject, body, err := e.renderer.Render(ctx, template.Subject, template.HTML, contactPlaceholderValues(contact))
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	if err := e.mailer.Send(ctx, &mailer.Message{
		To:      contact.Email,
		Subject: subject,
		HTML:    body,
	}); err != nil {
		return nil, err
	}

	e.logger.WithFields(map[string]interface{}{
		"contact_id":  contact.ID,
		"template_id": template.ID,
	}).Info("Workflow email sent")

	return keepContact(params), nil
}

// AddToListActionExecutor adds the contact to a list once
type AddToListActionExecutor struct {
	contactListRepo domain.ContactListRepository
}

func NewAddToListActionExecutor(contactListRepo domain.ContactListRepository) *AddToListActionExecutor {
	return &AddToListActionExecutor{contactListRepo: contactListRepo}
}

func (e *AddToListActionExecutor) ActionType() domain.ActionType {
	return domain.ActionTypeAddToList
}

func (e *AddToListActionExecutor) Execute(ctx context.Context, params ActionParams) (*ActionResult, error) {
	contact, err := requireContact(params)
	if err != nil {
		return nil, err
	}
	config, ok := params.Action.Config.(domain.AddToListConfig)
	if !ok {
		return nil, fmt.Errorf("invalid add_to_list config")
	}

	member, err := e.contactListRepo.IsMember(ctx, contact.ID, config.ListID)
	if err != nil {
		return nil, fmt.Errorf("failed to check list membership: %w", err)
	}
	if !member {
		if err := e.contactListRepo.AddMember(ctx, contact.ID, config.ListID); err != nil {
			return nil, fmt.Errorf("failed to add contact to list: %w", err)
		}
	}
	return keepContact(params), nil
}

// RemoveFromListActionExecutor removes the contact from a list
type RemoveFromListActionExecutor struct {
	contactListRepo domain.ContactListRepository
}

func NewRemoveFromListActionExecutor(contactListRepo domain.ContactListRepository) *RemoveFromListActionExecutor {
	return &RemoveFromListActionExecutor{contactListRepo: contactListRepo}
}

func (e *RemoveFromListActionExecutor) ActionType() domain.ActionType {
	return domain.ActionTypeRemoveFromList
}

func (e *RemoveFromListActionExecutor) Execute(ctx context.Context, params ActionParams) (*ActionResult, error) {
	contact, err := requireContact(params)
	if err != nil {
		return nil, err
	}
	config, ok := params.Action.Config.(domain.RemoveFromListConfig)
	if !ok {
		return nil, fmt.Errorf("invalid remove_from_list config")
	}

	if err := e.contactListRepo.RemoveMember(ctx, contact.ID, config.ListID); err != nil {
		return nil, fmt.Errorf("failed to remove contact from list: %w", err)
	}
	return keepContact(params), nil
}

// TagActionExecutor adds or removes one tag. The tag set is written only when it changes.
type TagActionExecutor struct {
	contactRepo domain.ContactRepository
	actionType  domain.ActionType
}

func NewAddTagActionExecutor(contactRepo domain.ContactRepository) *TagActionExecutor {
	return &TagActionExecutor{contactRepo: contactRepo, actionType: domain.ActionTypeAddTag}
}

func NewRemoveTagActionExecutor(contactRepo domain.ContactRepository) *TagActionExecutor {
	return &TagActionExecutor{contactRepo: contactRepo, actionType: domain.ActionTypeRemoveTag}
}

func (e *TagActionExecutor) ActionType() domain.ActionType {
	return e.actionType
}

func (e *TagActionExecutor) Execute(ctx context.Context, params ActionParams) (*ActionResult, error) {
	contact, err := requireContact(params)
	if err != nil {
		return nil, err
	}

	updated := *contact
	updated.Tags = append([]string(nil), contact.Tags...)

	var changed bool
	switch config := params.Action.Config.(type) {
	case domain.AddTagConfig:
		changed = updated.AddTag(config.Tag)
	case domain.RemoveTagConfig:
		changed = updated.RemoveTag(config.Tag)
	default:
		return nil, fmt.Errorf("invalid %s config", e.actionType)
	}

	if !changed {
		return keepContact(params), nil
	}
	if updated.Tags == nil {
		updated.Tags = []string{}
	}
	if err := e.contactRepo.UpdateTags(ctx, updated.ID, updated.Tags); err != nil {
		return nil, fmt.Errorf("failed to update contact tags: %w", err)
	}
	return &ActionResult{Contact: &updated}, nil
}

// SendNotificationActionExecutor emails the admin about the current contact
type SendNotificationActionExecutor struct {
	mailer     mailer.Mailer
	adminEmail string
}

func NewSendNotificationActionExecutor(m mailer.Mailer, adminEmail string) *SendNotificationActionExecutor {
	return &SendNotificationActionExecutor{mailer: m, adminEmail: adminEmail}
}

func (e *SendNotificationActionExecutor) ActionType() domain.ActionType {
	return domain.ActionTypeSendNotification
}

func (e *SendNotificationActionExecutor) Execute(ctx context.Context, params ActionParams) (*ActionResult, error) {
	contact, err := requireContact(params)
	if err != nil {
		return nil, err
	}
	config, ok := params.Action.Config.(domain.SendNotificationConfig)
	if !ok {
		return nil, fmt.Errorf("invalid send_notification config")
	}

	recipient := config.AdminEmail
	if recipient == "" {
		recipient = e.adminEmail
	}
	if recipient == "" {
		return nil, fmt.Errorf("no admin notification email configured")
	}

	values := contactPlaceholderValues(contact)
	subject := config.Subject
	if subject == "" {
		subject = "Notification: {contact_name}"
	}

	if err := e.mailer.Send(ctx, &mailer.Message{
		To:      recipient,
		Subject: templating.Substitute(subject, values, nil),
		HTML:    notificationBody(templating.Substitute(config.Message, values, templating.EscapeHTML), contact),
		ReplyTo: contact.Email,
	}); err != nil {
		return nil, err
	}
	return keepContact(params), nil
}

// notificationBody lays out the admin notification. message is already escaped.
func notificationBody(message string, contact *domain.Contact) string {
	var b strings.Builder
	b.WriteString("<div>")
	if message != "" {
		b.WriteString("<p>" + message + "</p>")
	}
	b.WriteString("<ul>")
	b.WriteString("<li><strong>Contact :</strong> " + templating.EscapeHTML(contact.FullName()) + "</li>")
	b.WriteString("<li><strong>Email :</strong> " + templating.EscapeHTML(contact.Email) + "</li>")
	if contact.Phone != "" {
		b.WriteString("<li><strong>Téléphone :</strong> " + templating.EscapeHTML(contact.Phone) + "</li>")
	}
	if contact.Notes != "" {
		b.WriteString("<li><strong>Message :</strong> " + templating.EscapeHTML(contact.Notes) + "</li>")
	}
	b.WriteString("</ul></div>")
	return b.String()
}

// WaitActionExecutor does nothing; its delay is handled by the runner
type WaitActionExecutor struct{}

func NewWaitActionExecutor() *WaitActionExecutor {
	return &WaitActionExecutor{}
}

func (e *WaitActionExecutor) ActionType() domain.ActionType {
	return domain.ActionTypeWait
}

func (e *WaitActionExecutor) Execute(ctx context.Context, params ActionParams) (*ActionResult, error) {
	return keepContact(params), nil
}
