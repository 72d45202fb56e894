package qa

import (
	"errors"
	"log"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("qa: model circuit breaker open")
	ErrTooManyRequests = errors.New("qa: too many trial requests while half-open")
)

// BreakerState is the circuit state of the model endpoint.
type BreakerState string

const (
	StateClosed   BreakerState = "closed"
	StateOpen     BreakerState = "open"
	StateHalfOpen BreakerState = "half-open"
)

// Breaker stops calling the model endpoint after repeated failures and lets
// a few trial requests through once the cool-down elapses.
type Breaker struct {
	mu                   sync.Mutex
	state                BreakerState
	failureCount         int
	inFlightTrials       int
	consecutiveSuccesses int
	lastFailure          time.Time
	lastStateChange      time.Time

	failureThreshold int
	successThreshold int
	timeout          time.Duration
	halfOpenMax      int
	now              func() time.Time

	totalRequests   int64
	totalSuccesses  int64
	totalFailures   int64
	totalRejections int64
}

// BreakerStats is a snapshot for /api/status.
type BreakerStats struct {
	State           BreakerState `json:"state"`
	TotalRequests   int64        `json:"total_requests"`
	TotalSuccesses  int64        `json:"total_successes"`
	TotalFailures   int64        `json:"total_failures"`
	TotalRejections int64        `json:"total_rejections"`
	FailureCount    int          `json:"failure_count"`
	TimeInState     string       `json:"time_in_state"`
}

func NewBreaker(failureThreshold int, timeout time.Duration) *Breaker {
	if failureThreshold < 1 {
		failureThreshold = 3
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	b := &Breaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		successThreshold: 2,
		timeout:          timeout,
		halfOpenMax:      1,
		now:              time.Now,
	}
	b.lastStateChange = b.now()
	log.Printf("[Breaker] Initialized: threshold=%d failures, timeout=%s", failureThreshold, timeout)
	return b
}

// Call runs fn unless the circuit is open. Errors for which countable
// returns false (caller mistakes, cancellations) do not trip the breaker.
func (b *Breaker) Call(fn func() error, countable func(error) bool) error {
	if err := b.before(); err != nil {
		return err
	}
	err := fn()
	if err != nil && countable != nil && !countable(err) {
		b.release()
		return err
	}
	b.after(err)
	return err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.totalRequests++
	switch b.state {
	case StateOpen:
		if b.now().Sub(b.lastFailure) <= b.timeout {
			b.totalRejections++
			return ErrCircuitOpen
		}
		b.setState(StateHalfOpen)
		b.consecutiveSuccesses = 0
		b.inFlightTrials = 0
		fallthrough
	case StateHalfOpen:
		if b.inFlightTrials >= b.halfOpenMax {
			b.totalRejections++
			return ErrTooManyRequests
		}
		b.inFlightTrials++
	}
	return nil
}

func (b *Breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen && b.inFlightTrials > 0 {
		b.inFlightTrials--
	}
}

func (b *Breaker) after(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.inFlightTrials > 0 {
		b.inFlightTrials--
	}

	if err != nil {
		b.totalFailures++
		b.failureCount++
		b.consecutiveSuccesses = 0
		b.lastFailure = b.now()
		switch b.state {
		case StateClosed:
			if b.failureCount >= b.failureThreshold {
				b.setState(StateOpen)
			}
		case StateHalfOpen:
			b.setState(StateOpen)
		}
		return
	}

	b.totalSuccesses++
	b.consecutiveSuccesses++
	switch b.state {
	case StateClosed:
		b.failureCount = 0
	case StateHalfOpen:
		if b.consecutiveSuccesses >= b.successThreshold {
			b.setState(StateClosed)
			b.failureCount = 0
		}
	}
}

func (b *Breaker) setState(s BreakerState) {
	if b.state != s {
		log.Printf("[Breaker] State transition: %s -> %s", b.state, s)
	}
	b.state = s
	b.lastStateChange = b.now()
}

// State returns the current state
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Stats() BreakerStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BreakerStats{
		State:           b.state,
		TotalRequests:   b.totalRequests,
		TotalSuccesses:  b.totalSuccesses,
		TotalFailures:   b.totalFailures,
		TotalRejections: b.totalRejections,
		FailureCount:    b.failureCount,
		TimeInState:     b.now().Sub(b.lastStateChange).String(),
	}
}

// Reset forces the breaker closed.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setState(StateClosed)
	b.failureCount = 0
	b.consecutiveSuccesses = 0
	b.inFlightTrials = 0
}
