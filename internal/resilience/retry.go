package resilience

import (
	"context"
	"time"
)

// RetryPolicy retries a call a bounded number of times with a fixed
// delay between attempts. The delay honors context cancellation; the
// call itself is not interrupted once started.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do runs fn until it succeeds or MaxAttempts is exhausted, sleeping
// Delay between attempts. It returns the error of the last attempt.
// attempt is 1-based, so callers can log which try is running.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(attempt); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
