package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ozanyurt/voice-campaign-service/internal/domain"
)

// ContactRepository reads the contact registry. The campaign engine only
// depends on ListByRegion; the write path exists for the registry glue
// endpoints and the seeder.
type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// ListByRegion returns the region's contacts in stable enumeration order.
// The executor relies on this order staying the same across invocations.
func (r *ContactRepository) ListByRegion(ctx context.Context, region string) ([]domain.Contact, error) {
	query := `
		SELECT id, name, phone_number, tag, region
		FROM contacts
		WHERE region = ?
		ORDER BY id ASC
	`

	var contacts []domain.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, region); err != nil {
		return nil, fmt.Errorf("failed to list contacts for region %q: %w", region, err)
	}

	return contacts, nil
}

func (r *ContactRepository) Create(ctx context.Context, name, phoneNumber, tag, region string) (*domain.Contact, error) {
	query := `
		INSERT INTO contacts (name, phone_number, tag, region)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, name, phoneNumber, tag, region)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	var contact domain.Contact
	if err := r.db.GetContext(ctx, &contact,
		"SELECT id, name, phone_number, tag, region FROM contacts WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &contact, nil
}

func (r *ContactRepository) GetAll(ctx context.Context, page, pageSize int) ([]domain.Contact, int64, error) {
	offset := (page - 1) * pageSize

	var totalCount int64
	if err := r.db.GetContext(ctx, &totalCount, "SELECT COUNT(*) FROM contacts"); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := `
		SELECT id, name, phone_number, tag, region
		FROM contacts
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`

	var contacts []domain.Contact
	if err := r.db.SelectContext(ctx, &contacts, query, pageSize, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to get contacts: %w", err)
	}

	return contacts, totalCount, nil
}
