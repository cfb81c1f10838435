package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ozanyurt/voice-campaign-service/internal/domain"
	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
)

// campaignRepository is the store-side contract the control surface needs.
type campaignRepository interface {
	Create(ctx context.Context, name, message, region string) (*domain.Campaign, error)
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)
	GetAll(ctx context.Context, page, pageSize int) ([]domain.Campaign, int64, error)
	UpdateStatus(ctx context.Context, id int64, expected []domain.CampaignStatus, next domain.CampaignStatus) (*domain.Campaign, error)
	SetSchedule(ctx context.Context, id int64, runAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

// trigger defers executor invocations; implemented by the scheduler.
type trigger interface {
	RunNow(campaignID int64)
	RunAt(campaignID int64, runAt time.Time)
}

// CampaignService is the operator-facing control surface: create, schedule,
// start, pause/resume/stop. Every transition is a conditional store write,
// so two operators issuing conflicting actions serialize — one wins, the
// other gets back the post-transition state in the rejection.
type CampaignService struct {
	repo    campaignRepository
	trigger trigger
}

func NewCampaignService(repo campaignRepository, trigger trigger) *CampaignService {
	return &CampaignService{repo: repo, trigger: trigger}
}

func (s *CampaignService) CreateCampaign(ctx context.Context, name, message, region string) (*domain.Campaign, error) {
	if region == "" {
		region = "global"
	}
	return s.repo.Create(ctx, name, message, region)
}

func (s *CampaignService) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CampaignService) ListCampaigns(ctx context.Context, page, pageSize int) ([]domain.Campaign, int64, error) {
	return s.repo.GetAll(ctx, page, pageSize)
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ScheduleCampaign records the run time and arms the trigger. Redelivery is
// harmless: the executor's entry claim rejects a second invocation.
func (s *CampaignService) ScheduleCampaign(ctx context.Context, id int64, runAt time.Time) (*domain.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetSchedule(ctx, campaign.ID, runAt); err != nil {
		return nil, err
	}

	s.trigger.RunAt(campaign.ID, runAt)

	logger.Infof("Campaign %d scheduled for %s", campaign.ID, runAt.Format(time.RFC3339))

	return s.repo.GetByID(ctx, id)
}

// StartCampaign fires the executor immediately.
func (s *CampaignService) StartCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.trigger.RunNow(campaign.ID)

	return campaign, nil
}

// Control applies an operator action. Invalid transitions are rejected with
// an InvalidTransitionError, never silently ignored; resume re-invokes the
// executor, which picks up after the last persisted attempt.
func (s *CampaignService) Control(ctx context.Context, id int64, action domain.ControlAction) (*domain.Campaign, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("unknown control action %q", action)
	}

	campaign, err := s.repo.UpdateStatus(ctx, id, action.SourceStatuses(), action.TargetStatus())
	if err != nil {
		return nil, err
	}

	logger.Infof("Campaign %d: %s -> %s", id, action, campaign.Status)

	if action == domain.ActionResume {
		s.trigger.RunNow(campaign.ID)
	}

	return campaign, nil
}
