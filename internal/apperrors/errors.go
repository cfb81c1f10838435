package apperrors

import (
	"fmt"

	"github.com/ozanyurt/voice-campaign-service/internal/domain"
)

// NotFoundError signals a lookup against an unknown campaign.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

func NewCampaignNotFound(id int64) error {
	return &NotFoundError{Resource: "campaign", ID: id}
}

// InvalidTransitionError signals a control action or status write that is
// not permitted from the campaign's current status.
type InvalidTransitionError struct {
	CampaignID int64
	From       domain.CampaignStatus
	To         domain.CampaignStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("campaign %d: invalid transition to %s from %s", e.CampaignID, e.To, e.From)
}
