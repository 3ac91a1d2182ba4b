package inference

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"inspection-api/domain/services"
	"inspection-api/pkg/logger"
)

var ErrCircuitOpen = errors.New("inference circuit is open")

// CircuitBreaker prevents cascading failures
type CircuitBreaker struct {
	failures     int32
	threshold    int32
	resetTimeout time.Duration
	lastFailure  time.Time
	mu           sync.RWMutex
	now          func() time.Time
}

func NewCircuitBreaker(threshold int32, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		threshold:    threshold,
		resetTimeout: resetTimeout,
		now:          time.Now,
	}
}

// IsOpen returns true if circuit is open (should not proceed)
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if atomic.LoadInt32(&cb.failures) >= cb.threshold {
		// half-open once the timeout passed
		return cb.now().Sub(cb.lastFailure) <= cb.resetTimeout
	}
	return false
}

func (cb *CircuitBreaker) RecordSuccess() {
	atomic.StoreInt32(&cb.failures, 0)
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	atomic.AddInt32(&cb.failures, 1)
	cb.lastFailure = cb.now()
}

func (cb *CircuitBreaker) Failures() int32 {
	return atomic.LoadInt32(&cb.failures)
}

// Guarded fails fast while the model service keeps failing
type Guarded struct {
	next    services.InferenceClient
	breaker *CircuitBreaker
}

func NewGuarded(next services.InferenceClient, breaker *CircuitBreaker) *Guarded {
	return &Guarded{next: next, breaker: breaker}
}

func (g *Guarded) Predict(ctx context.Context, imageURL string) ([]services.Detection, error) {
	if g.breaker.IsOpen() {
		return nil, ErrCircuitOpen
	}
	detections, err := g.next.Predict(ctx, imageURL)
	if err != nil {
		g.breaker.RecordFailure()
		if g.breaker.IsOpen() {
			logger.InferenceError("circuit_opened", "Inference circuit opened", err, map[string]interface{}{
				"failures": g.breaker.Failures(),
			})
		}
		return nil, err
	}
	g.breaker.RecordSuccess()
	return detections, nil
}

func (g *Guarded) Health(ctx context.Context) error {
	return g.next.Health(ctx)
}
