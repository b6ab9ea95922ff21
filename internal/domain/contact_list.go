package domain

import (
	"context"
)

//go:generate mockgen -destination mocks/mock_contact_list_repository.go -package mocks github.com/lumiere-academy/backend/internal/domain ContactListRepository

// ContactListRepository manages list membership keyed by (contact_id, list_id)
type ContactListRepository interface {
	IsMember(ctx context.Context, contactID, listID string) (bool, error)
	// AddMember inserts the membership. Adding an existing membership is not an error.
	AddMember(ctx context.Context, contactID, listID string) error
	// RemoveMember deletes the membership. Removing a missing membership is not an error.
	RemoveMember(ctx context.Context, contactID, listID string) error
}
