package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ozanyurt/voice-campaign-service/internal/apperrors"
	"github.com/ozanyurt/voice-campaign-service/internal/domain"
)

// CampaignRepository handles database operations for campaigns. It is the
// single source of truth for campaign status: every transition goes through
// the conditional UpdateStatus write, so concurrent control requests
// serialize at the database.
type CampaignRepository struct {
	db *sqlx.DB
}

func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(ctx context.Context, name, message, region string) (*domain.Campaign, error) {
	query := `
		INSERT INTO campaigns (name, message, region, status, created_at, updated_at)
		VALUES (?, ?, ?, 'scheduled', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	result, err := r.db.ExecContext(ctx, query, name, message, region)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *CampaignRepository) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	query := `
		SELECT id, name, message, region, status, scheduled_at, created_at, updated_at
		FROM campaigns
		WHERE id = ?
	`

	var campaign domain.Campaign
	if err := r.db.GetContext(ctx, &campaign, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewCampaignNotFound(id)
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return &campaign, nil
}

func (r *CampaignRepository) GetAll(ctx context.Context, page, pageSize int) ([]domain.Campaign, int64, error) {
	offset := (page - 1) * pageSize

	var totalCount int64
	if err := r.db.GetContext(ctx, &totalCount, "SELECT COUNT(*) FROM campaigns"); err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	query := `
		SELECT id, name, message, region, status, scheduled_at, created_at, updated_at
		FROM campaigns
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	var campaigns []domain.Campaign
	if err := r.db.SelectContext(ctx, &campaigns, query, pageSize, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to get campaigns: %w", err)
	}

	return campaigns, totalCount, nil
}

// UpdateStatus transitions a campaign to next only if its current status is
// one of expected. The conditional UPDATE is the claim: when two callers
// race, exactly one write matches and the loser gets back an
// InvalidTransitionError describing the status it actually observed.
func (r *CampaignRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	expected []domain.CampaignStatus,
	next domain.CampaignStatus,
) (*domain.Campaign, error) {
	if len(expected) == 0 {
		return nil, fmt.Errorf("no source statuses given for transition to %s", next)
	}

	query, args, err := sqlx.In(`
		UPDATE campaigns
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status IN (?)
	`, next, id, expected)
	if err != nil {
		return nil, fmt.Errorf("failed to build status update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		// Either the campaign is missing or it sits in a status the
		// transition does not accept; re-read to tell the two apart.
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &apperrors.InvalidTransitionError{
			CampaignID: id,
			From:       current.Status,
			To:         next,
		}
	}

	return r.GetByID(ctx, id)
}

// SetSchedule records the wall-clock time a scheduled campaign should run.
func (r *CampaignRepository) SetSchedule(ctx context.Context, id int64, runAt time.Time) error {
	query := `
		UPDATE campaigns
		SET scheduled_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, runAt, id)
	if err != nil {
		return fmt.Errorf("failed to set campaign schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return apperrors.NewCampaignNotFound(id)
	}

	return nil
}

// ListScheduled returns campaigns still waiting on their scheduled time,
// used by the scheduler to re-arm timers after a restart.
func (r *CampaignRepository) ListScheduled(ctx context.Context) ([]domain.Campaign, error) {
	query := `
		SELECT id, name, message, region, status, scheduled_at, created_at, updated_at
		FROM campaigns
		WHERE status = 'scheduled' AND scheduled_at IS NOT NULL
		ORDER BY scheduled_at ASC
	`

	var campaigns []domain.Campaign
	if err := r.db.SelectContext(ctx, &campaigns, query); err != nil {
		return nil, fmt.Errorf("failed to list scheduled campaigns: %w", err)
	}

	return campaigns, nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM campaigns WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return apperrors.NewCampaignNotFound(id)
	}

	return nil
}
