package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/lib/pq"
)

//go:generate mockgen -destination mocks/mock_contact_repository.go -package mocks github.com/lumiere-academy/backend/internal/domain ContactRepository
//go:generate mockgen -destination mocks/mock_contact_service.go -package mocks github.com/lumiere-academy/backend/internal/domain ContactService

// ContactStatus is the lifecycle status of a lead or customer
type ContactStatus string

const (
	ContactStatusActive       ContactStatus = "active"
	ContactStatusInactive     ContactStatus = "inactive"
	ContactStatusUnsubscribed ContactStatus = "unsubscribed"
)

// Contact is a lead or customer record, uniquely addressed by email
type Contact struct {
	ID        string                 `json:"id"`
	Email     string                 `json:"email" valid:"required,email"`
	FirstName string                 `json:"first_name,omitempty"`
	LastName  string                 `json:"last_name,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Notes     string                 `json:"notes,omitempty"`
	Tags      []string               `json:"tags"`
	Status    ContactStatus          `json:"status" valid:"in(active|inactive|unsubscribed)"`
	Source    string                 `json:"source,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Validate ensures that the contact has all required fields
func (c *Contact) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := govalidator.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid contact: %w", err)
	}
	return nil
}

// FullName joins first and last name, falling back to the email
func (c *Contact) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return c.Email
	}
	return name
}

// HasTag reports whether the contact carries tag
func (c *Contact) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends tag if absent and reports whether the set changed
func (c *Contact) AddTag(tag string) bool {
	if c.HasTag(tag) {
		return false
	}
	c.Tags = append(c.Tags, tag)
	return true
}

// RemoveTag filters tag out and reports whether the set changed
func (c *Contact) RemoveTag(tag string) bool {
	if !c.HasTag(tag) {
		return false
	}
	kept := make([]string, 0, len(c.Tags)-1)
	for _, t := range c.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	c.Tags = kept
	return true
}

// For database scanning
type dbContact struct {
	ID        string
	Email     string
	FirstName sql.NullString
	LastName  sql.NullString
	Phone     sql.NullString
	Notes     sql.NullString
	Tags      pq.StringArray
	Status    string
	Source    sql.NullString
	Metadata  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactColumns lists the columns read by ScanContact, in scan order
var ContactColumns = []string{
	"id", "email", "first_name", "last_name", "phone", "notes",
	"tags", "status", "source", "metadata", "created_at", "updated_at",
}

// ScanContact scans a contact from the database
func ScanContact(scanner interface {
	Scan(dest ...interface{}) error
}) (*Contact, error) {
	var dbc dbContact
	if err := scanner.Scan(
		&dbc.ID,
		&dbc.Email,
		&dbc.FirstName,
		&dbc.LastName,
		&dbc.Phone,
		&dbc.Notes,
		&dbc.Tags,
		&dbc.Status,
		&dbc.Source,
		&dbc.Metadata,
		&dbc.CreatedAt,
		&dbc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c := &Contact{
		ID:        dbc.ID,
		Email:     dbc.Email,
		FirstName: dbc.FirstName.String,
		LastName:  dbc.LastName.String,
		Phone:     dbc.Phone.String,
		Notes:     dbc.Notes.String,
		Tags:      []string(dbc.Tags),
		Status:    ContactStatus(dbc.Status),
		Source:    dbc.Source.String,
		CreatedAt: dbc.CreatedAt,
		UpdatedAt: dbc.UpdatedAt,
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if len(dbc.Metadata) > 0 {
		if err := json.Unmarshal(dbc.Metadata, &c.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contact metadata: %w", err)
		}
	}

	return c, nil
}

// UpsertContactRequest creates a contact or updates the one sharing its email
type UpsertContactRequest struct {
	Email     string                 `json:"email" valid:"required,email"`
	FirstName string                 `json:"first_name,omitempty"`
	LastName  string                 `json:"last_name,omitempty"`
	Phone     string                 `json:"phone,omitempty"`
	Notes     string                 `json:"notes,omitempty"`
	Tags      []string               `json:"tags,omitempty"`
	Status    string                 `json:"status,omitempty" valid:"optional,in(active|inactive|unsubscribed)"`
	Source    string                 `json:"source,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func (r *UpsertContactRequest) Validate() (*Contact, error) {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" {
		return nil, NewValidationError("email is required")
	}
	if _, err := govalidator.ValidateStruct(r); err != nil {
		return nil, NewValidationError(err.Error())
	}

	source := r.Source
	if source == "" {
		source = "api"
	}

	return &Contact{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Notes:     r.Notes,
		Tags:      r.Tags,
		Status:    ContactStatus(r.Status),
		Source:    source,
		Metadata:  r.Metadata,
	}, nil
}

type GetContactRequest struct {
	ID string `json:"id" valid:"required"`
}

func (r *GetContactRequest) FromURLParams(queryParams url.Values) error {
	r.ID = queryParams.Get("id")
	if r.ID == "" {
		return NewValidationError("id is required")
	}
	return nil
}

// NormalizeEmail trims and lowercases an address so lookups by email are exact
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ContactRepository is the contact store
type ContactRepository interface {
	GetByID(ctx context.Context, id string) (*Contact, error)
	GetByEmail(ctx context.Context, email string) (*Contact, error)
	// Upsert inserts the contact or, when the email already exists, updates the
	// non-empty mutable fields of the existing row. An empty status inserts
	// active and keeps the existing status on update. The stored row is copied
	// back into contact. created is true when a new row was inserted.
	Upsert(ctx context.Context, contact *Contact) (created bool, err error)
	UpdateTags(ctx context.Context, id string, tags []string) error
	// ListInactive returns active contacts whose updated_at is before cutoff,
	// ordered by id and starting after afterID (keyset pagination)
	ListInactive(ctx context.Context, cutoff time.Time, afterID string, limit int) ([]*Contact, error)
}

// ContactService exposes contact operations to the API
type ContactService interface {
	Upsert(ctx context.Context, contact *Contact) (created bool, err error)
	GetByID(ctx context.Context, id string) (*Contact, error)
}
