// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package transport

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedClient wraps a Client with a token-bucket limiter on
// CallService, so a provider's refill loop (spec §5: "refill ... serialized
// per provider instance") can't flood the backend indexing service across
// repeated fast scans. Browse and Resolve pass through unthrottled;
// SubfolderQueue's Browse-driven scans have their own limiter
// (ScanRatePerSecond in its Config).
type RateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimitedClient wraps inner with a limiter admitting up to
// ratePerSecond CallService calls/second, with burst capacity burst.
func NewRateLimitedClient(inner Client, ratePerSecond float64, burst int) *RateLimitedClient {
	return &RateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (c *RateLimitedClient) CallService(ctx context.Context, req ServiceRequest) (ServiceResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.CallService(ctx, req)
}

func (c *RateLimitedClient) Browse(ctx context.Context, mediaContentID string) ([]BrowseChild, error) {
	return c.inner.Browse(ctx, mediaContentID)
}

func (c *RateLimitedClient) Resolve(ctx context.Context, mediaContentID string) (string, error) {
	return c.inner.Resolve(ctx, mediaContentID)
}
