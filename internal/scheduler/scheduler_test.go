package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ozanyurt/voice-campaign-service/internal/domain"
)

type recordingRunner struct {
	mu   sync.Mutex
	runs []int64

	fired chan int64
}

func newRecordingRunner() *recordingRunner {
	return &recordingRunner{fired: make(chan int64, 16)}
}

func (r *recordingRunner) Run(ctx context.Context, campaignID int64) error {
	r.mu.Lock()
	r.runs = append(r.runs, campaignID)
	r.mu.Unlock()

	r.fired <- campaignID
	return nil
}

func (r *recordingRunner) runCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

func (r *recordingRunner) waitForRun(t *testing.T) int64 {
	t.Helper()
	select {
	case id := <-r.fired:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a run")
		return 0
	}
}

type fakeScheduleStore struct {
	campaigns []domain.Campaign
}

func (s *fakeScheduleStore) ListScheduled(ctx context.Context) ([]domain.Campaign, error) {
	return s.campaigns, nil
}

func TestRunNow_FiresRunner(t *testing.T) {
	runner := newRecordingRunner()
	sched := NewScheduler(context.Background(), runner, &fakeScheduleStore{})

	sched.RunNow(7)

	if id := runner.waitForRun(t); id != 7 {
		t.Fatalf("ran campaign %d, want 7", id)
	}

	sched.Stop()
}

func TestRunAt_PastDueFiresImmediately(t *testing.T) {
	runner := newRecordingRunner()
	sched := NewScheduler(context.Background(), runner, &fakeScheduleStore{})

	sched.RunAt(3, time.Now().Add(-time.Minute))

	if id := runner.waitForRun(t); id != 3 {
		t.Fatalf("ran campaign %d, want 3", id)
	}
	if sched.PendingCount() != 0 {
		t.Errorf("past-due schedule must not leave a timer armed")
	}

	sched.Stop()
}

func TestRunAt_FutureScheduleArmsTimer(t *testing.T) {
	runner := newRecordingRunner()
	sched := NewScheduler(context.Background(), runner, &fakeScheduleStore{})

	sched.RunAt(5, time.Now().Add(50*time.Millisecond))

	if sched.PendingCount() != 1 {
		t.Fatalf("pending timers = %d, want 1", sched.PendingCount())
	}

	if id := runner.waitForRun(t); id != 5 {
		t.Fatalf("ran campaign %d, want 5", id)
	}

	sched.Stop()

	if sched.PendingCount() != 0 {
		t.Errorf("fired timer still counted as pending")
	}
}

func TestRunAt_RearmingReplacesTimer(t *testing.T) {
	runner := newRecordingRunner()
	sched := NewScheduler(context.Background(), runner, &fakeScheduleStore{})

	sched.RunAt(5, time.Now().Add(time.Hour))
	sched.RunAt(5, time.Now().Add(2*time.Hour))

	if sched.PendingCount() != 1 {
		t.Fatalf("pending timers = %d, want 1 after re-arm", sched.PendingCount())
	}

	sched.Stop()

	if runner.runCount() != 0 {
		t.Errorf("replaced timer fired anyway, %d runs", runner.runCount())
	}
}

func TestRearm_ArmsStoredSchedules(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Minute)

	store := &fakeScheduleStore{campaigns: []domain.Campaign{
		{ID: 1, Status: domain.StatusScheduled, ScheduledAt: &future},
		{ID: 2, Status: domain.StatusScheduled, ScheduledAt: &past},
		{ID: 3, Status: domain.StatusScheduled}, // no scheduled_at, skipped
	}}

	runner := newRecordingRunner()
	sched := NewScheduler(context.Background(), runner, store)

	if err := sched.Rearm(context.Background()); err != nil {
		t.Fatalf("Rearm returned error: %v", err)
	}

	// The past-due campaign runs right away; the future one stays armed.
	if id := runner.waitForRun(t); id != 2 {
		t.Fatalf("ran campaign %d, want the past-due campaign 2", id)
	}
	if sched.PendingCount() != 1 {
		t.Errorf("pending timers = %d, want 1", sched.PendingCount())
	}

	sched.Stop()
}

func TestStop_CancelsTimersAndDropsNewTriggers(t *testing.T) {
	runner := newRecordingRunner()
	sched := NewScheduler(context.Background(), runner, &fakeScheduleStore{})

	sched.RunAt(1, time.Now().Add(time.Hour))
	sched.Stop()

	if sched.PendingCount() != 0 {
		t.Fatalf("Stop left %d timers armed", sched.PendingCount())
	}

	sched.RunNow(2)
	sched.RunAt(3, time.Now().Add(time.Hour))

	// Give any stray goroutine a beat to fire before asserting.
	time.Sleep(20 * time.Millisecond)

	if runner.runCount() != 0 {
		t.Fatalf("stopped scheduler still ran campaigns: %d runs", runner.runCount())
	}
	if sched.PendingCount() != 0 {
		t.Errorf("stopped scheduler armed a timer")
	}
}
