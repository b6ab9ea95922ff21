package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lumiere-academy/backend/internal/domain"
)

// ContactRepository implements domain.ContactRepository
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *sql.DB) domain.ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, id)
}

func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	email = domain.NormalizeEmail(email)
	return r.getOne(ctx, sq.Eq{"email": email}, email)
}

func (r *ContactRepository) getOne(ctx context.Context, where sq.Eq, key string) (*domain.Contact, error) {
	query, args, err := psql.
		Select(domain.ContactColumns...).
		From("contacts").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	contact, err := domain.ScanContact(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "contact", ID: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

// Upsert relies on the unique index on contacts.email, so concurrent upserts
// of the same address converge on one row.
func (r *ContactRepository) Upsert(ctx context.Context, contact *domain.Contact) (bool, error) {
	contact.Email = domain.NormalizeEmail(contact.Email)
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}

	tags := contact.Tags
	if tags == nil {
		tags = []string{}
	}
	metadata := contact.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadataJSON, err := marshalJSON(metadata, "contact metadata")
	if err != nil {
		return false, err
	}

	status := contact.Status
	statusOnConflict := "EXCLUDED.status"
	if status == "" {
		status = domain.ContactStatusActive
		statusOnConflict = "contacts.status"
	}

	now := time.Now().UTC()

	query, args, err := psql.
		Insert("contacts").
		Columns(domain.ContactColumns...).
		Values(
			contact.ID, contact.Email,
			nullString(contact.FirstName), nullString(contact.LastName),
			nullString(contact.Phone), nullString(contact.Notes),
			pq.Array(tags), string(status), nullString(contact.Source),
			metadataJSON, now, now,
		).
		Suffix(`ON CONFLICT (email) DO UPDATE SET
			first_name = COALESCE(EXCLUDED.first_name, contacts.first_name),
			last_name = COALESCE(EXCLUDED.last_name, contacts.last_name),
			phone = COALESCE(EXCLUDED.phone, contacts.phone),
			notes = COALESCE(EXCLUDED.notes, contacts.notes),
			tags = CASE WHEN cardinality(EXCLUDED.tags) > 0 THEN EXCLUDED.tags ELSE contacts.tags END,
			status = `+statusOnConflict+`,
			source = COALESCE(contacts.source, EXCLUDED.source),
			metadata = contacts.metadata || EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
		RETURNING `+columnList(domain.ContactColumns)+`, (xmax = 0) AS inserted`).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var inserted bool
	stored, err := domain.ScanContact(rowScanner{
		row:   r.db.QueryRowContext(ctx, query, args...),
		extra: []interface{}{&inserted},
	})
	if err != nil {
		return false, fmt.Errorf("failed to upsert contact: %w", err)
	}

	*contact = *stored
	return inserted, nil
}

func (r *ContactRepository) UpdateTags(ctx context.Context, id string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}

	query, args, err := psql.
		Update("contacts").
		Set("tags", pq.Array(tags)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update contact tags: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "contact", ID: id}
	}

	return nil
}

func (r *ContactRepository) ListInactive(ctx context.Context, cutoff time.Time, afterID string, limit int) ([]*domain.Contact, error) {
	builder := psql.
		Select(domain.ContactColumns...).
		From("contacts").
		Where(sq.Eq{"status": string(domain.ContactStatusActive)}).
		Where(sq.Lt{"updated_at": cutoff}).
		OrderBy("id ASC").
		Limit(uint64(limit))
	if afterID != "" {
		builder = builder.Where(sq.Gt{"id": afterID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inactive contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*domain.Contact, 0)
	for rows.Next() {
		contact, err := domain.ScanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}
