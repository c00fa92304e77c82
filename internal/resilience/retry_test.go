package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agentmesh/agentmesh/internal/resilience"
)

func TestRetrySucceedsOnLaterAttempt(t *testing.T) {
	policy := resilience.RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}

	var attempts []int
	err := policy.Do(context.Background(), func(attempt int) error {
		attempts = append(attempts, attempt)
		if attempt < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(attempts) != 3 || attempts[0] != 1 || attempts[2] != 3 {
		t.Fatalf("attempts = %v", attempts)
	}
}

func TestRetryReturnsLastError(t *testing.T) {
	policy := resilience.RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond}
	last := errors.New("final failure")

	calls := 0
	err := policy.Do(context.Background(), func(attempt int) error {
		calls++
		if attempt == 1 {
			return errors.New("first failure")
		}
		return last
	})
	if calls != 2 {
		t.Fatalf("calls = %d", calls)
	}
	if !errors.Is(err, last) {
		t.Fatalf("err = %v, want last error", err)
	}
}

func TestRetryZeroAttemptsRunsOnce(t *testing.T) {
	policy := resilience.RetryPolicy{MaxAttempts: 0, Delay: time.Millisecond}

	calls := 0
	_ = policy.Do(context.Background(), func(int) error {
		calls++
		return errors.New("nope")
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryHonorsContextDuringDelay(t *testing.T) {
	policy := resilience.RetryPolicy{MaxAttempts: 5, Delay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := policy.Do(ctx, func(int) error {
		calls++
		return errors.New("always")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
