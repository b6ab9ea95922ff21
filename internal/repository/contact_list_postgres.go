package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/lumiere-academy/backend/internal/domain"
)

// ContactListRepository implements domain.ContactListRepository
type ContactListRepository struct {
	db *sql.DB
}

// NewContactListRepository creates a new list membership repository
func NewContactListRepository(db *sql.DB) domain.ContactListRepository {
	return &ContactListRepository{db: db}
}

func (r *ContactListRepository) IsMember(ctx context.Context, contactID, listID string) (bool, error) {
	query, args, err := psql.
		Select("1").
		From("contact_list_members").
		Where(sq.Eq{"contact_id": contactID, "list_id": listID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check list membership: %w", err)
	}

	return exists, nil
}

func (r *ContactListRepository) AddMember(ctx context.Context, contactID, listID string) error {
	query, args, err := psql.
		Insert("contact_list_members").
		Columns("contact_id", "list_id", "added_at").
		Values(contactID, listID, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		// a concurrent add won the race
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to add contact to list: %w", err)
	}

	return nil
}

func (r *ContactListRepository) RemoveMember(ctx context.Context, contactID, listID string) error {
	query, args, err := psql.
		Delete("contact_list_members").
		Where(sq.Eq{"contact_id": contactID, "list_id": listID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove contact from list: %w", err)
	}

	return nil
}
