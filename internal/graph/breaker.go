package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the executor circuit breaker.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32        // requests allowed through while half-open
	Interval    time.Duration // closed-state window before counts reset
	Timeout     time.Duration // open-state duration before half-open
	// FailureThreshold is the failure ratio that trips the breaker once
	// MinRequests have been observed.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the circuit breaker.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerExecutor stops calling a failing database for a cool-down period.
type BreakerExecutor struct {
	next Executor
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerExecutor wraps next with a circuit breaker.
func NewBreakerExecutor(next Executor, cfg BreakerConfig, logger *zap.Logger) *BreakerExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// Caller cancellations say nothing about database health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerExecutor{next: next, cb: cb}
}

// Execute runs the query through the breaker. While open it fails fast with
// ErrUnavailable.
func (b *BreakerExecutor) Execute(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return b.next.Execute(ctx, query, params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}

	rows, _ := out.([]Row)
	return rows, nil
}

// State returns the breaker state name, e.g. "closed".
func (b *BreakerExecutor) State() string {
	return b.cb.State().String()
}
