package dialer

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// scriptedDialer fails a fixed number of times before succeeding, or always
// fails when failuresBeforeSuccess is negative.
type scriptedDialer struct {
	failuresBeforeSuccess int
	raiseError            bool

	calls int
}

func (d *scriptedDialer) Dial(ctx context.Context, name, number, message string) (*DialResult, error) {
	d.calls++

	if d.failuresBeforeSuccess >= 0 && d.calls > d.failuresBeforeSuccess {
		return &DialResult{Success: true, RecordingURL: "https://recordings.example.com/1.mp3"}, nil
	}

	if d.raiseError {
		return nil, fmt.Errorf("provider exploded on attempt %d", d.calls)
	}

	return &DialResult{Success: false, ErrorDetail: fmt.Sprintf("busy on attempt %d", d.calls)}, nil
}

func testPolicy(maxAttempts int, delays *[]time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Delay:       3 * time.Second,
		sleep: func(ctx context.Context, d time.Duration) {
			*delays = append(*delays, d)
		},
	}
}

func TestDialWithRetry_SucceedsOnThirdAttempt(t *testing.T) {
	ctx := context.Background()

	d := &scriptedDialer{failuresBeforeSuccess: 2}
	var delays []time.Duration

	result := DialWithRetry(ctx, d, "Alice", "+14155550101", "hello", testPolicy(3, &delays))

	if !result.Success {
		t.Fatalf("expected success, got failure: %s", result.ErrorDetail)
	}
	if d.calls != 3 {
		t.Fatalf("expected 3 dial attempts, got %d", d.calls)
	}
	if len(delays) != 2 {
		t.Fatalf("expected 2 inter-attempt delays, got %d", len(delays))
	}
	if result.RecordingURL == "" {
		t.Errorf("expected recording URL on success")
	}
}

func TestDialWithRetry_ExhaustionReturnsLastErrorDetail(t *testing.T) {
	ctx := context.Background()

	d := &scriptedDialer{failuresBeforeSuccess: -1}
	var delays []time.Duration

	result := DialWithRetry(ctx, d, "Bob", "+14155550102", "hello", testPolicy(3, &delays))

	if result.Success {
		t.Fatalf("expected failure after exhaustion")
	}
	if d.calls != 3 {
		t.Fatalf("expected 3 dial attempts, got %d", d.calls)
	}
	// No delay after the final attempt.
	if len(delays) != 2 {
		t.Fatalf("expected exactly 2 inter-attempt delays, got %d", len(delays))
	}
	if result.ErrorDetail != "busy on attempt 3" {
		t.Errorf("expected last error detail to win, got %q", result.ErrorDetail)
	}
	for _, d := range delays {
		if d != 3*time.Second {
			t.Errorf("expected fixed 3s delay, got %v", d)
		}
	}
}

func TestDialWithRetry_ProviderErrorIsAttemptFailure(t *testing.T) {
	ctx := context.Background()

	d := &scriptedDialer{failuresBeforeSuccess: -1, raiseError: true}
	var delays []time.Duration

	result := DialWithRetry(ctx, d, "Carol", "+14155550103", "hello", testPolicy(3, &delays))

	if result.Success {
		t.Fatalf("expected failure for erroring provider")
	}
	if d.calls != 3 {
		t.Fatalf("expected raised errors to be retried, got %d attempts", d.calls)
	}
	if result.ErrorDetail != "provider exploded on attempt 3" {
		t.Errorf("expected error converted to detail, got %q", result.ErrorDetail)
	}
}

func TestDialWithRetry_StopsEarlyOnFirstSuccess(t *testing.T) {
	ctx := context.Background()

	d := &scriptedDialer{failuresBeforeSuccess: 0}
	var delays []time.Duration

	result := DialWithRetry(ctx, d, "Dana", "+14155550104", "hello", testPolicy(3, &delays))

	if !result.Success {
		t.Fatalf("expected success, got failure: %s", result.ErrorDetail)
	}
	if d.calls != 1 {
		t.Fatalf("expected 1 dial attempt, got %d", d.calls)
	}
	if len(delays) != 0 {
		t.Fatalf("expected no delays on first-attempt success, got %d", len(delays))
	}
}

func TestDialWithRetry_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	d := &scriptedDialer{failuresBeforeSuccess: -1}
	policy := RetryPolicy{
		MaxAttempts: 3,
		Delay:       3 * time.Second,
		sleep: func(ctx context.Context, _ time.Duration) {
			cancel()
		},
	}

	result := DialWithRetry(ctx, d, "Eve", "+14155550105", "hello", policy)

	if result.Success {
		t.Fatalf("expected failure")
	}
	if d.calls != 1 {
		t.Fatalf("expected retrying to stop after cancellation, got %d attempts", d.calls)
	}
}
