package util

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// CircuitState represents the state of the circuit breaker.
type CircuitState string

const (
	CircuitStateClosed   CircuitState = "CLOSED"
	CircuitStateOpen     CircuitState = "OPEN"
	CircuitStateHalfOpen CircuitState = "HALF_OPEN"
)

func (s CircuitState) String() string {
	return string(s)
}

// CircuitBreaker trips after a run of consecutive failures and lets a single
// probe request through once the reset timeout has elapsed. The extraction
// pipeline uses it to skip a known-down AI provider and move straight to
// fallback synthesis instead of burning the request timeout.
type CircuitBreaker struct {
	state            CircuitState
	failureCount     int
	failureThreshold int
	resetTimeout     time.Duration
	nextRetryTime    time.Time
	logger           *zap.Logger
	mu               sync.Mutex
}

func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration, logger *zap.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		state:            CircuitStateClosed,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		logger:           logger,
	}
}

// CanExecute reports whether a request may proceed. In the OPEN state it
// transitions to HALF_OPEN once the reset timeout has passed, admitting one
// probe.
func (cb *CircuitBreaker) CanExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitStateOpen && time.Now().After(cb.nextRetryTime) {
		cb.transitionTo(CircuitStateHalfOpen)
	}

	return cb.state != CircuitStateOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitStateHalfOpen {
		cb.logger.Info("Circuit breaker: service recovered, closing circuit")
		cb.transitionTo(CircuitStateClosed)
	}
	cb.failureCount = 0
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++

	if cb.state == CircuitStateHalfOpen {
		cb.logger.Warn("Circuit breaker: probe failed, reopening circuit")
		cb.transitionTo(CircuitStateOpen)
		cb.nextRetryTime = time.Now().Add(cb.resetTimeout)
		return
	}

	if cb.failureCount >= cb.failureThreshold {
		cb.logger.Warn("Circuit breaker: failure threshold reached, opening circuit",
			zap.Int("failures", cb.failureCount),
			zap.Duration("reset_timeout", cb.resetTimeout),
		)
		cb.transitionTo(CircuitStateOpen)
		cb.nextRetryTime = time.Now().Add(cb.resetTimeout)
	}
}

// Reset manually closes the circuit.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = CircuitStateClosed
	cb.failureCount = 0
	cb.nextRetryTime = time.Time{}
}

// GetState returns the current state without side effects.
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// must be called with cb.mu held
func (cb *CircuitBreaker) transitionTo(newState CircuitState) {
	if cb.state == newState {
		return
	}
	cb.logger.Info("Circuit breaker: state transition",
		zap.String("from", cb.state.String()),
		zap.String("to", newState.String()),
		zap.Int("failure_count", cb.failureCount),
	)
	cb.state = newState
}
