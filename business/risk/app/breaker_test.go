package app

import (
	"testing"
	"time"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(3, 5, time.Minute, nil)

	cb.RecordFailure()
	cb.RecordFailure()
	if cb.State() != BreakerClosed {
		t.Fatalf("state after 2 failures = %s, want closed", cb.State())
	}

	cb.RecordFailure()
	if cb.State() != BreakerOpen {
		t.Fatalf("state after 3 failures = %s, want open", cb.State())
	}
	if cb.CanExecute() {
		t.Fatal("CanExecute() = true while open")
	}
}

func TestBreakerSuccessResetsFailureStreak(t *testing.T) {
	cb := NewCircuitBreaker(3, 5, time.Minute, nil)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	if cb.State() != BreakerClosed {
		t.Fatalf("state = %s, want closed after interleaved success", cb.State())
	}
}

func TestBreakerHalfOpenAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, 2, 10*time.Millisecond, nil)

	cb.RecordFailure()
	if cb.CanExecute() {
		t.Fatal("CanExecute() = true immediately after opening")
	}

	time.Sleep(20 * time.Millisecond)

	if !cb.CanExecute() {
		t.Fatal("CanExecute() = false after timeout elapsed")
	}
	if cb.State() != BreakerHalfOpen {
		t.Fatalf("state = %s, want half-open", cb.State())
	}
}

func TestBreakerClosesAfterSuccessStreakInHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(1, 2, 10*time.Millisecond, nil)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	if !cb.CanExecute() {
		t.Fatal("expected half-open probe to be admitted")
	}

	cb.RecordSuccess()
	if cb.State() != BreakerHalfOpen {
		t.Fatalf("state after 1 success = %s, want half-open", cb.State())
	}

	cb.RecordSuccess()
	if cb.State() != BreakerClosed {
		t.Fatalf("state after 2 successes = %s, want closed", cb.State())
	}
}

func TestBreakerHalfOpenToleratesFailuresBelowThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, 5, 10*time.Millisecond, nil)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	if !cb.CanExecute() {
		t.Fatal("expected half-open probe to be admitted")
	}

	// A single probe failure does not reopen; the failure streak has to
	// reach the threshold again.
	cb.RecordFailure()
	if cb.State() != BreakerHalfOpen {
		t.Fatalf("state after 1 half-open failure = %s, want half-open", cb.State())
	}

	cb.RecordFailure()
	cb.RecordFailure()
	if cb.State() != BreakerOpen {
		t.Fatalf("state after 3 half-open failures = %s, want open", cb.State())
	}
}

func TestBreakerForceOpen(t *testing.T) {
	cb := NewCircuitBreaker(3, 5, time.Minute, nil)

	cb.ForceOpen("daily loss limit breached")

	if cb.State() != BreakerOpen {
		t.Fatalf("state = %s, want open after ForceOpen", cb.State())
	}
	if cb.CanExecute() {
		t.Fatal("CanExecute() = true after ForceOpen")
	}
	if got := cb.ForcedReason(); got != "daily loss limit breached" {
		t.Fatalf("ForcedReason() = %q", got)
	}
}
