package resilience_test

import (
	"errors"
	"testing"
	"time"

	"github.com/agentmesh/agentmesh/internal/resilience"
)

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := resilience.NewBreaker(3, time.Minute)
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}
	if b.State() != resilience.StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	err := b.Execute(func() error {
		t.Fatal("open breaker must not run the call")
		return nil
	})
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := resilience.NewBreaker(2, time.Minute)
	boom := errors.New("boom")

	_ = b.Execute(func() error { return boom })
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("success call: %v", err)
	}
	_ = b.Execute(func() error { return boom })

	if b.State() != resilience.StateClosed {
		t.Fatalf("state = %v, want closed", b.State())
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := resilience.NewBreaker(1, 10*time.Millisecond)
	boom := errors.New("boom")

	_ = b.Execute(func() error { return boom })
	if b.State() != resilience.StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	time.Sleep(20 * time.Millisecond)

	// First probe after cooldown runs; a failure reopens immediately.
	if err := b.Execute(func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("probe: %v", err)
	}
	if b.State() != resilience.StateOpen {
		t.Fatalf("state = %v, want reopened", b.State())
	}

	time.Sleep(20 * time.Millisecond)

	// A successful probe closes the circuit.
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if b.State() != resilience.StateClosed {
		t.Fatalf("state = %v, want closed", b.State())
	}
}
