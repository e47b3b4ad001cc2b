// Package app contains the risk management services.
package app

import (
	"sync"
	"time"

	"github.com/solarb/solarb/internal/eventbus"
)

// BreakerState is the circuit breaker's position.
type BreakerState int

const (
	// BreakerClosed allows trading; normal operation.
	BreakerClosed BreakerState = iota

	// BreakerHalfOpen allows trading on probation to test recovery.
	BreakerHalfOpen

	// BreakerOpen blocks trading.
	BreakerOpen
)

// String returns the state's display name.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerHalfOpen:
		return "half-open"
	case BreakerOpen:
		return "open"
	default:
		return "unknown"
	}
}

// CircuitBreaker is the trading-outcome failure gate.
//
// It is fed by trade outcomes rather than wrapped function calls, which is
// why it is not gobreaker: a failure while half-open must not reopen the
// breaker until the failure threshold is reached again, and the daily-loss
// path needs an explicit forced transition. Both differ from gobreaker's
// semantics.
//
// The Open to HalfOpen transition is lazy: it happens on the next
// CanExecute poll after the timeout elapses, not on a background timer.
type CircuitBreaker struct {
	mu sync.Mutex

	state                BreakerState
	forcedReason         string
	failureThreshold     int
	successThreshold     int
	timeout              time.Duration
	consecutiveFailures  int
	consecutiveSuccesses int
	lastFailure          time.Time

	bus *eventbus.Bus
}

// NewCircuitBreaker creates a breaker in the Closed state.
func NewCircuitBreaker(failureThreshold, successThreshold int, timeout time.Duration, bus *eventbus.Bus) *CircuitBreaker {
	return &CircuitBreaker{
		state:            BreakerClosed,
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		bus:              bus,
	}
}

// CanExecute is the sole read gate. Polling it drives the Open to HalfOpen
// transition once the timeout has elapsed since the last failure.
func (cb *CircuitBreaker) CanExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerClosed, BreakerHalfOpen:
		return true
	case BreakerOpen:
		if !cb.lastFailure.IsZero() && time.Since(cb.lastFailure) >= cb.timeout {
			cb.transition(BreakerHalfOpen)
			cb.consecutiveSuccesses = 0
			cb.consecutiveFailures = 0
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess feeds a successful outcome into the breaker. Reaching the
// success threshold while half-open closes the breaker.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveSuccesses++
	cb.consecutiveFailures = 0

	if cb.state == BreakerHalfOpen && cb.consecutiveSuccesses >= cb.successThreshold {
		cb.transition(BreakerClosed)
	}
}

// RecordFailure feeds a failed outcome into the breaker. Reaching the
// failure threshold opens it from any state.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures++
	cb.consecutiveSuccesses = 0
	cb.lastFailure = time.Now()

	if cb.consecutiveFailures >= cb.failureThreshold && cb.state != BreakerOpen {
		cb.transition(BreakerOpen)
	}
}

// ForceOpen opens the breaker immediately, bypassing the failure counter.
// Used by the daily-loss limit so the audit trail shows a single deliberate
// transition instead of a run of synthetic failures.
func (cb *CircuitBreaker) ForceOpen(reason string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailure = time.Now()
	cb.consecutiveSuccesses = 0
	cb.forcedReason = reason

	if cb.state != BreakerOpen {
		cb.transition(BreakerOpen)
	}
}

// ForcedReason returns the reason of the last forced open, if any.
func (cb *CircuitBreaker) ForcedReason() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.forcedReason
}

// State returns the current state without side effects.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// transition moves to a new state and emits the change event.
// Caller holds cb.mu.
func (cb *CircuitBreaker) transition(to BreakerState) {
	from := cb.state
	cb.state = to
	if to != BreakerOpen {
		cb.forcedReason = ""
	}

	if cb.bus != nil {
		cb.bus.Publish(eventbus.CircuitBreakerStateChanged{
			Old: from.String(),
			New: to.String(),
		})
	}
}
