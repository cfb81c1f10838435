package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ozanyurt/voice-campaign-service/internal/apperrors"
	"github.com/ozanyurt/voice-campaign-service/internal/dialer"
	"github.com/ozanyurt/voice-campaign-service/internal/domain"
	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
)

// Small internal interfaces so the executor can be tested without touching
// a real DB, Redis, or provider.
type campaignStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)
	UpdateStatus(ctx context.Context, id int64, expected []domain.CampaignStatus, next domain.CampaignStatus) (*domain.Campaign, error)
}

type contactLister interface {
	ListByRegion(ctx context.Context, region string) ([]domain.Contact, error)
}

type callLogStore interface {
	Insert(ctx context.Context, log *domain.CallLog) error
	ProcessedContactIDs(ctx context.Context, campaignID int64) (map[int64]struct{}, error)
}

type processedCache interface {
	MarkContactProcessed(ctx context.Context, campaignID, contactID int64) error
	GetProcessedContacts(ctx context.Context, campaignID int64) (map[int64]struct{}, error)
	ClearProcessed(ctx context.Context, campaignID int64) error
}

type dialerRegistry interface {
	Get(provider dialer.Provider) (dialer.Dialer, error)
}

type progressPublisher interface {
	Publish(event string)
}

// Executor walks a campaign's contact set, one contact at a time, in
// enumeration order. The campaign row is the only shared mutable state
// between the executor and the operator: the executor re-reads it before
// every contact, so pause/stop take effect at contact boundaries and never
// interrupt an attempt already in flight.
type Executor struct {
	campaigns campaignStore
	contacts  contactLister
	callLogs  callLogStore
	cache     processedCache
	registry  dialerRegistry
	hub       progressPublisher
	policy    dialer.RetryPolicy
}

func NewExecutor(
	campaigns campaignStore,
	contacts contactLister,
	callLogs callLogStore,
	cache processedCache,
	registry dialerRegistry,
	hub progressPublisher,
	policy dialer.RetryPolicy,
) *Executor {
	return &Executor{
		campaigns: campaigns,
		contacts:  contacts,
		callLogs:  callLogs,
		cache:     cache,
		registry:  registry,
		hub:       hub,
		policy:    policy,
	}
}

// Run executes one campaign invocation. The scheduled/paused -> running
// claim is a single conditional write, so a redelivered trigger or a
// concurrent invocation loses the claim and returns without dialing anyone.
func (e *Executor) Run(ctx context.Context, campaignID int64) error {
	campaign, err := e.campaigns.UpdateStatus(ctx, campaignID,
		[]domain.CampaignStatus{domain.StatusScheduled, domain.StatusPaused},
		domain.StatusRunning)
	if err != nil {
		var invalid *apperrors.InvalidTransitionError
		if errors.As(err, &invalid) {
			logger.Infof("Campaign %d not eligible to run (status %s), skipping", campaignID, invalid.From)
			return nil
		}
		return fmt.Errorf("failed to claim campaign %d: %w", campaignID, err)
	}

	logger.Infof("Running campaign %d (%s), region %q", campaign.ID, campaign.Name, campaign.Region)

	contacts, err := e.contacts.ListByRegion(ctx, campaign.Region)
	if err != nil {
		return fmt.Errorf("failed to list contacts for campaign %d: %w", campaign.ID, err)
	}

	processed, err := e.processedContacts(ctx, campaign.ID)
	if err != nil {
		return err
	}

	for _, contact := range contacts {
		// Re-read between contacts: the operator may have paused or
		// stopped the campaign while the previous attempt was running.
		current, err := e.campaigns.GetByID(ctx, campaign.ID)
		if err != nil {
			return fmt.Errorf("failed to re-read campaign %d: %w", campaign.ID, err)
		}

		switch current.Status {
		case domain.StatusPaused:
			logger.Infof("Campaign %d paused, exiting early", campaign.ID)
			e.hub.Publish(fmt.Sprintf("Campaign '%s' paused.", campaign.Name))
			return nil
		case domain.StatusStopped:
			logger.Infof("Campaign %d stopped, exiting early", campaign.ID)
			e.hub.Publish(fmt.Sprintf("Campaign '%s' stopped.", campaign.Name))
			return nil
		}

		if _, done := processed[contact.ID]; done {
			logger.Debugf("Campaign %d: contact %d already dialed this run, skipping", campaign.ID, contact.ID)
			continue
		}

		if err := e.dialContact(ctx, campaign, contact); err != nil {
			return err
		}
	}

	if _, err := e.campaigns.UpdateStatus(ctx, campaign.ID,
		[]domain.CampaignStatus{domain.StatusRunning}, domain.StatusCompleted); err != nil {
		return fmt.Errorf("failed to complete campaign %d: %w", campaign.ID, err)
	}

	if e.cache != nil {
		if err := e.cache.ClearProcessed(ctx, campaign.ID); err != nil {
			logger.Warnf("Failed to clear processed cache for campaign %d: %v", campaign.ID, err)
		}
	}

	logger.Infof("Campaign %d completed", campaign.ID)
	e.hub.Publish(fmt.Sprintf("Campaign '%s' completed.", campaign.Name))

	return nil
}

// dialContact performs all retries for one contact and persists exactly one
// call log for it. Delivery failure stays local to the contact; only store
// failures propagate.
func (e *Executor) dialContact(ctx context.Context, campaign *domain.Campaign, contact domain.Contact) error {
	provider := dialer.Route(campaign.Region)

	d, err := e.registry.Get(provider)
	if err != nil {
		return fmt.Errorf("campaign %d: %w", campaign.ID, err)
	}

	result := dialer.DialWithRetry(ctx, d, contact.Name, contact.PhoneNumber, campaign.Message, e.policy)

	log := &domain.CallLog{
		CampaignID:    campaign.ID,
		ContactID:     contact.ID,
		ContactName:   contact.Name,
		ContactNumber: contact.PhoneNumber,
		Region:        campaign.Region,
		Provider:      string(provider),
	}

	if result.Success {
		log.Status = domain.CallCompleted
		if result.RecordingURL != "" {
			log.RecordingURL = &result.RecordingURL
		}
	} else {
		log.Status = domain.CallFailed
		if result.ErrorDetail != "" {
			log.ErrorDetail = &result.ErrorDetail
		}
	}

	if err := e.callLogs.Insert(ctx, log); err != nil {
		return fmt.Errorf("failed to persist call log for contact %d: %w", contact.ID, err)
	}

	if e.cache != nil {
		if err := e.cache.MarkContactProcessed(ctx, campaign.ID, contact.ID); err != nil {
			logger.Warnf("Failed to cache processed contact %d: %v", contact.ID, err)
		}
	}

	if result.Success {
		e.hub.Publish(fmt.Sprintf("Called %s (%s) in campaign '%s'",
			contact.Name, contact.PhoneNumber, campaign.Name))
	} else {
		e.hub.Publish(fmt.Sprintf("Failed to call %s (%s) after %d retries",
			contact.Name, contact.PhoneNumber, e.policy.MaxAttempts))
	}

	return nil
}

// processedContacts returns the contacts already covered by a persisted
// attempt this run. The Valkey set is a fast path; the call_logs table is
// authoritative, so a cold cache still dedupes correctly on resume.
func (e *Executor) processedContacts(ctx context.Context, campaignID int64) (map[int64]struct{}, error) {
	if e.cache != nil {
		cached, err := e.cache.GetProcessedContacts(ctx, campaignID)
		if err != nil {
			logger.Warnf("Processed cache unavailable for campaign %d: %v", campaignID, err)
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	processed, err := e.callLogs.ProcessedContactIDs(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load processed contacts for campaign %d: %w", campaignID, err)
	}

	return processed, nil
}
