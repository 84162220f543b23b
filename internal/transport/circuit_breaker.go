// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package transport

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/mediaqueue/internal/logging"
)

// CircuitBreakerClient wraps a Client with the circuit breaker pattern so a
// flaky or down indexing backend doesn't keep the provider refill loop
// spinning on slow timeouts (SPEC_FULL §13). Spec §5/§7 only says index
// calls "rely on transport default" and abort-and-surface on error; the
// breaker bounds retry cost without changing that disposition — open-state
// calls still surface as a TransportError-shaped error to the caller.
type CircuitBreakerClient struct {
	inner Client
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

// NewCircuitBreakerClient wraps inner with a breaker named name.
//
// Settings: opens after >=5 requests with a >=50% failure ratio, allows 2
// probe requests per half-open trial, and waits 30s before probing again —
// tuned for a UI-facing refill loop rather than a bulk sync job.
func NewCircuitBreakerClient(name string, inner Client) *CircuitBreakerClient {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(cbName string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", cbName).
				Str("from", breakerStateString(from)).
				Str("to", breakerStateString(to)).
				Msg("index transport circuit breaker state change")
		},
	})

	return &CircuitBreakerClient{inner: inner, cb: cb, name: name}
}

func (c *CircuitBreakerClient) CallService(ctx context.Context, req ServiceRequest) (ServiceResponse, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.inner.CallService(ctx, req)
	})
	if err != nil {
		return nil, wrapBreakerError(err)
	}
	resp, _ := result.(ServiceResponse)
	return resp, nil
}

func (c *CircuitBreakerClient) Browse(ctx context.Context, mediaContentID string) ([]BrowseChild, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.inner.Browse(ctx, mediaContentID)
	})
	if err != nil {
		return nil, wrapBreakerError(err)
	}
	children, _ := result.([]BrowseChild)
	return children, nil
}

func (c *CircuitBreakerClient) Resolve(ctx context.Context, mediaContentID string) (string, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.inner.Resolve(ctx, mediaContentID)
	})
	if err != nil {
		return "", wrapBreakerError(err)
	}
	url, _ := result.(string)
	return url, nil
}

// wrapBreakerError normalizes gobreaker's own rejection errors alongside the
// wrapped call's error so both present identically to callers expecting a
// transport-layer failure.
func wrapBreakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Join(ErrCircuitOpen, err)
	}
	return err
}

// ErrCircuitOpen indicates the breaker rejected the call without attempting
// the underlying request.
var ErrCircuitOpen = errors.New("index transport circuit breaker is open")

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
