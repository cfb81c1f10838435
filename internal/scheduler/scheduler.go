package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ozanyurt/voice-campaign-service/internal/domain"
	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
)

// campaignRunner is the minimal executor contract the scheduler needs; it
// lets unit tests substitute a recording fake.
type campaignRunner interface {
	Run(ctx context.Context, campaignID int64) error
}

type scheduleStore interface {
	ListScheduled(ctx context.Context) ([]domain.Campaign, error)
}

// Scheduler defers executor invocations. Timers are in-process; the
// persisted scheduled_at column plus Rearm at boot give at-least-once
// delivery across restarts, and the executor's entry claim absorbs any
// duplicate firing.
type Scheduler struct {
	runner campaignRunner
	store  scheduleStore

	mu      sync.Mutex
	timers  map[int64]*time.Timer
	stopped bool

	ctx context.Context
	wg  sync.WaitGroup
}

func NewScheduler(ctx context.Context, runner campaignRunner, store scheduleStore) *Scheduler {
	return &Scheduler{
		runner: runner,
		store:  store,
		timers: make(map[int64]*time.Timer),
		ctx:    ctx,
	}
}

// RunNow fires the executor for the campaign on its own goroutine. Each
// campaign run is one sequential task; separate campaigns run concurrently.
func (s *Scheduler) RunNow(campaignID int64) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		logger.Warnf("Scheduler stopped, dropping trigger for campaign %d", campaignID)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		if err := s.runner.Run(s.ctx, campaignID); err != nil {
			logger.Errorf("Campaign %d run failed: %v", campaignID, err)
		}
	}()
}

// RunAt arms a timer for the campaign. A past-due time fires immediately.
// Re-arming an already armed campaign replaces its timer.
func (s *Scheduler) RunAt(campaignID int64, runAt time.Time) {
	delay := time.Until(runAt)
	if delay <= 0 {
		logger.Infof("Campaign %d schedule is due, running now", campaignID)
		s.RunNow(campaignID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		logger.Warnf("Scheduler stopped, dropping schedule for campaign %d", campaignID)
		return
	}

	if existing, ok := s.timers[campaignID]; ok {
		existing.Stop()
	}

	s.timers[campaignID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, campaignID)
		s.mu.Unlock()

		s.RunNow(campaignID)
	})

	logger.Infof("Campaign %d armed to run at %s (in %v)", campaignID, runAt.Format(time.RFC3339), delay)
}

// Rearm loads every stored schedule and arms a timer for it. Called once at
// boot so schedules survive process restarts.
func (s *Scheduler) Rearm(ctx context.Context) error {
	campaigns, err := s.store.ListScheduled(ctx)
	if err != nil {
		return err
	}

	for _, campaign := range campaigns {
		if campaign.ScheduledAt == nil {
			continue
		}
		s.RunAt(campaign.ID, *campaign.ScheduledAt)
	}

	if len(campaigns) > 0 {
		logger.Infof("Re-armed %d scheduled campaigns", len(campaigns))
	}

	return nil
}

// Stop cancels pending timers and waits for in-flight runs to finish their
// current contact loop (runs observe ctx cancellation at suspension points).
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()

	logger.Infof("Scheduler stopped")
}

// PendingCount reports the number of armed timers, used by the health
// endpoint.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
