package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ozanyurt/voice-campaign-service/internal/domain"
)

// CallLogRepository persists delivery attempt results. Rows are append-only;
// nothing here updates or deletes.
type CallLogRepository struct {
	db *sqlx.DB
}

func NewCallLogRepository(db *sqlx.DB) *CallLogRepository {
	return &CallLogRepository{db: db}
}

func (r *CallLogRepository) Insert(ctx context.Context, log *domain.CallLog) error {
	query := `
		INSERT INTO call_logs
			(campaign_id, contact_id, contact_name, contact_number, region, provider, status, recording_url, error_detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`

	result, err := r.db.ExecContext(ctx, query,
		log.CampaignID, log.ContactID, log.ContactName, log.ContactNumber,
		log.Region, log.Provider, log.Status, log.RecordingURL, log.ErrorDetail)
	if err != nil {
		return fmt.Errorf("failed to insert call log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	log.ID = id
	return nil
}

// ProcessedContactIDs returns the ids of contacts that already hold a call
// log for the campaign. This is the durable cursor a resumed run uses to
// skip contacts it has already dialed.
func (r *CallLogRepository) ProcessedContactIDs(ctx context.Context, campaignID int64) (map[int64]struct{}, error) {
	query := "SELECT contact_id FROM call_logs WHERE campaign_id = ?"

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, campaignID); err != nil {
		return nil, fmt.Errorf("failed to get processed contacts: %w", err)
	}

	processed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		processed[id] = struct{}{}
	}

	return processed, nil
}

func (r *CallLogRepository) List(ctx context.Context, filter domain.CallLogFilter) ([]domain.CallLog, error) {
	query := `
		SELECT id, campaign_id, contact_id, contact_name, contact_number,
		       region, provider, status, recording_url, error_detail, created_at
		FROM call_logs
		WHERE 1 = 1
	`
	args := []any{}

	if filter.CampaignID != nil {
		query += " AND campaign_id = ?"
		args = append(args, *filter.CampaignID)
	}
	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, *filter.Status)
	}
	if filter.Region != nil {
		query += " AND region = ?"
		args = append(args, *filter.Region)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	var logs []domain.CallLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list call logs: %w", err)
	}

	return logs, nil
}

// Summary returns the platform-wide call outcome counts.
func (r *CallLogRepository) Summary(ctx context.Context) (*domain.CallSummary, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status != 'completed' THEN 1 ELSE 0 END), 0) AS failed
		FROM call_logs
	`

	var summary domain.CallSummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("failed to get call summary: %w", err)
	}

	return &summary, nil
}

// CampaignStats rolls call outcomes up per campaign.
func (r *CallLogRepository) CampaignStats(ctx context.Context) ([]domain.CampaignCallStats, error) {
	query := `
		SELECT
			campaign_id,
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status != 'completed' THEN 1 ELSE 0 END), 0) AS failed
		FROM call_logs
		GROUP BY campaign_id
		ORDER BY campaign_id ASC
	`

	var stats []domain.CampaignCallStats
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get campaign stats: %w", err)
	}

	return stats, nil
}
