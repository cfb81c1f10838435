package domain

import "time"

type CallStatus string

const (
	CallInitiated CallStatus = "initiated"
	CallCompleted CallStatus = "completed"
	CallFailed    CallStatus = "failed"
)

// CallLog is the durable record of one contact's delivery attempt within a
// campaign run. Rows are append-only: exactly one per contact per run,
// written after the attempt succeeds or all retries are exhausted.
type CallLog struct {
	ID            int64      `db:"id" json:"id"`
	CampaignID    int64      `db:"campaign_id" json:"campaignId"`
	ContactID     int64      `db:"contact_id" json:"contactId"`
	ContactName   string     `db:"contact_name" json:"contactName"`
	ContactNumber string     `db:"contact_number" json:"contactNumber"`
	Region        string     `db:"region" json:"region"`
	Provider      string     `db:"provider" json:"provider"`
	Status        CallStatus `db:"status" json:"status"`
	RecordingURL  *string    `db:"recording_url" json:"recordingUrl,omitempty"`
	ErrorDetail   *string    `db:"error_detail" json:"errorDetail,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

// CallLogFilter narrows call history queries.
type CallLogFilter struct {
	CampaignID *int64
	Status     *CallStatus
	Region     *string
	Limit      int
}

// CampaignCallStats aggregates call outcomes for one campaign.
type CampaignCallStats struct {
	CampaignID int64 `db:"campaign_id" json:"campaignId"`
	Total      int64 `db:"total" json:"total"`
	Completed  int64 `db:"completed" json:"completed"`
	Failed     int64 `db:"failed" json:"failed"`
}

// CallSummary is the platform-wide call outcome rollup.
type CallSummary struct {
	TotalCalls      int64 `db:"total" json:"totalCalls"`
	SuccessfulCalls int64 `db:"completed" json:"successfulCalls"`
	FailedCalls     int64 `db:"failed" json:"failedCalls"`
}
