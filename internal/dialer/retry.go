package dialer

import (
	"context"
	"time"

	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
)

const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 3 * time.Second
)

// RetryPolicy bounds the attempts made for a single contact. The delay is
// fixed between attempts; there is no backoff multiplier and no jitter.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration

	// sleep is swapped out in tests so retries don't wait in real time.
	sleep func(ctx context.Context, d time.Duration)
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultRetryDelay,
	}
}

func (p RetryPolicy) wait(ctx context.Context, d time.Duration) {
	if p.sleep != nil {
		p.sleep(ctx, d)
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// DialWithRetry attempts the delivery sequentially up to MaxAttempts times,
// waiting Delay between failed attempts (never after the last one), and
// stops on the first success. Exhaustion is a normal result: the returned
// DialResult carries the last error detail and Success=false, it is never
// surfaced as an error.
func DialWithRetry(ctx context.Context, d Dialer, name, number, message string, policy RetryPolicy) *DialResult {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}

	var last *DialResult

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := d.Dial(ctx, name, number, message)
		if err != nil {
			// A raised provider error is the same failure as an
			// unsuccessful result.
			result = &DialResult{Success: false, ErrorDetail: err.Error()}
		}

		if result.Success {
			return result
		}

		last = result
		logger.Warnf("Call attempt %d/%d failed for %s: %s",
			attempt, policy.MaxAttempts, number, result.ErrorDetail)

		if attempt < policy.MaxAttempts {
			policy.wait(ctx, policy.Delay)
			if ctx.Err() != nil {
				break
			}
		}
	}

	return last
}
