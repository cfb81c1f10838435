package domain

import "time"

type CampaignStatus string

const (
	StatusScheduled CampaignStatus = "scheduled"
	StatusRunning   CampaignStatus = "running"
	StatusPaused    CampaignStatus = "paused"
	StatusStopped   CampaignStatus = "stopped"
	StatusCompleted CampaignStatus = "completed"
)

// IsTerminal reports whether no further transitions are permitted.
func (s CampaignStatus) IsTerminal() bool {
	return s == StatusStopped || s == StatusCompleted
}

func (s CampaignStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusRunning, StatusPaused, StatusStopped, StatusCompleted:
		return true
	}
	return false
}

type Campaign struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Message     string         `db:"message" json:"message"`
	Region      string         `db:"region" json:"region"`
	Status      CampaignStatus `db:"status" json:"status"`
	ScheduledAt *time.Time     `db:"scheduled_at" json:"scheduledAt,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// ControlAction is an operator request against a campaign.
type ControlAction string

const (
	ActionPause  ControlAction = "pause"
	ActionResume ControlAction = "resume"
	ActionStop   ControlAction = "stop"
)

func (a ControlAction) IsValid() bool {
	switch a {
	case ActionPause, ActionResume, ActionStop:
		return true
	}
	return false
}

// SourceStatuses returns the statuses a campaign must currently hold for
// the action to be accepted. Pause requires a running campaign, resume a
// paused one; stop is accepted from any non-terminal state.
func (a ControlAction) SourceStatuses() []CampaignStatus {
	switch a {
	case ActionPause:
		return []CampaignStatus{StatusRunning}
	case ActionResume:
		return []CampaignStatus{StatusPaused}
	case ActionStop:
		return []CampaignStatus{StatusScheduled, StatusRunning, StatusPaused}
	}
	return nil
}

// TargetStatus returns the status the action transitions to.
func (a ControlAction) TargetStatus() CampaignStatus {
	switch a {
	case ActionPause:
		return StatusPaused
	case ActionResume:
		return StatusRunning
	case ActionStop:
		return StatusStopped
	}
	return ""
}
