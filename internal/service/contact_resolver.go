package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/tidwall/gjson"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
)

// ContactSourceWorkflow marks contacts created from a trigger payload
const ContactSourceWorkflow = "workflow"

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Field synonyms accepted in trigger payloads, in priority order
var (
	emailKeys     = []string{"email", "email_address", "mail"}
	firstNameKeys = []string{"first_name", "firstName", "firstname", "prenom", "prénom"}
	lastNameKeys  = []string{"last_name", "lastName", "lastname", "nom"}
	fullNameKeys  = []string{"name", "full_name", "fullName", "nom_complet"}
	phoneKeys     = []string{"phone", "phone_number", "phoneNumber", "telephone", "téléphone", "tel", "mobile"}
	notesKeys     = []string{"notes", "message", "comment", "commentaire"}
)

// payloadFields is a flat view of the trigger payload that keeps key order
type payloadFields struct {
	keys   []string
	values map[string]gjson.Result
}

func newPayloadFields() *payloadFields {
	return &payloadFields{values: make(map[string]gjson.Result)}
}

func (p *payloadFields) set(key string, value gjson.Result) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// first returns the first non-empty string value among keys
func (p *payloadFields) first(keys ...string) string {
	for _, key := range keys {
		if v, ok := p.values[key]; ok && !isEmptyValue(v) {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

func isEmptyValue(v gjson.Result) bool {
	return !v.Exists() || v.Type == gjson.Null || (v.Type == gjson.String && strings.TrimSpace(v.Str) == "")
}

// ContactResolver finds or creates the contact described by a trigger payload
type ContactResolver struct {
	contactRepo domain.ContactRepository
	logger      logger.Logger
}

func NewContactResolver(contactRepo domain.ContactRepository, log logger.Logger) *ContactResolver {
	return &ContactResolver{
		contactRepo: contactRepo,
		logger:      log,
	}
}

// Resolve extracts contact fields from triggerData and upserts the contact by email.
// mapping renames submitted field ids to canonical keys before extraction.
func (r *ContactResolver) Resolve(ctx context.Context, triggerData json.RawMessage, mapping map[string]string) (*domain.Contact, bool, error) {
	fields := extractPayloadFields(triggerData, mapping)

	email := resolveEmail(fields)
	if email == "" {
		return nil, false, domain.ErrMissingEmail
	}

	contact := &domain.Contact{
		Email:     email,
		FirstName: fields.first(firstNameKeys...),
		LastName:  fields.first(lastNameKeys...),
		Phone:     fields.first(phoneKeys...),
		Notes:     fields.first(notesKeys...),
		Source:    ContactSourceWorkflow,
	}
	if contact.FirstName == "" && contact.LastName == "" {
		contact.FirstName, contact.LastName = splitFullName(fields.first(fullNameKeys...))
	}

	created, err := r.contactRepo.Upsert(ctx, contact)
	if err != nil {
		return nil, false, err
	}

	r.logger.WithFields(map[string]interface{}{
		"contact_id": contact.ID,
		"created":    created,
	}).Debug("Resolved contact from trigger data")

	return contact, created, nil
}

// extractPayloadFields picks the submission object out of the payload
// (submission_data, then data, then the root) and applies mapping on top of it.
// A mapped value overrides a submitted key of the same name; the first mapped
// field in payload order wins.
func extractPayloadFields(triggerData json.RawMessage, mapping map[string]string) *payloadFields {
	fields := newPayloadFields()
	if len(triggerData) == 0 || !gjson.ValidBytes(triggerData) {
		return fields
	}

	root := gjson.ParseBytes(triggerData)
	source := root
	for _, path := range []string{"submission_data", "data"} {
		if candidate := root.Get(path); candidate.IsObject() {
			source = candidate
			break
		}
	}
	if !source.IsObject() {
		return fields
	}

	source.ForEach(func(key, value gjson.Result) bool {
		fields.set(key.String(), value)
		return true
	})

	if len(mapping) == 0 {
		return fields
	}

	// Payload order decides between submitted fields mapped to the same key
	submitted := append([]string(nil), fields.keys...)
	mapped := make(map[string]bool, len(mapping))
	for _, fieldID := range submitted {
		canonical := mapping[fieldID]
		if canonical == "" || mapped[canonical] {
			continue
		}
		if v := fields.values[fieldID]; !isEmptyValue(v) {
			fields.set(canonical, v)
			mapped[canonical] = true
		}
	}

	return fields
}

// resolveEmail returns the explicit email field, else the first email-looking value
func resolveEmail(fields *payloadFields) string {
	for _, key := range emailKeys {
		if v, ok := fields.values[key]; ok && v.Type == gjson.String {
			candidate := domain.NormalizeEmail(v.Str)
			if govalidator.IsEmail(candidate) {
				return candidate
			}
		}
	}

	for _, key := range fields.keys {
		v := fields.values[key]
		if v.Type != gjson.String {
			continue
		}
		if match := emailPattern.FindString(v.Str); match != "" {
			candidate := domain.NormalizeEmail(match)
			if govalidator.IsEmail(candidate) {
				return candidate
			}
		}
	}

	return ""
}

// splitFullName puts the first word in first name and the rest in last name
func splitFullName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
