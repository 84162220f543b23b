// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package transport defines the opaque request/response channel the engine
// uses to reach the backend indexing service and the media-source protocol
// (spec §1 "Out of scope": network transport itself; spec §6). Callers
// supply a concrete Client (an HTTP/WebSocket bridge, or — in tests and the
// demo CLI — an in-memory fake); this package only defines the contract and
// two resilience decorators around it (CircuitBreakerClient and
// RateLimitedClient).
package transport

import "context"

// ServiceRequest is a single callService invocation against the backend
// indexing service (spec §6.1): media_index.get_random_items,
// media_index.get_ordered_files, media_index.get_file_metadata.
type ServiceRequest struct {
	Service string
	Params  map[string]any
}

// ServiceResponse is the raw decoded JSON response body of a ServiceRequest.
type ServiceResponse map[string]any

// BrowseChild is one entry of a media-source browse response (spec §6.2).
type BrowseChild struct {
	MediaContentID string
	Title          string
	CanExpand      bool
	MediaClass     string
	Thumbnail      string
}

// Client is the opaque channel the engine talks to: callService for the
// index backend, browse/resolve for the media-source protocol.
type Client interface {
	// CallService issues a request/response call to the backend indexing
	// service (media_index.* in spec §6.1).
	CallService(ctx context.Context, req ServiceRequest) (ServiceResponse, error)

	// Browse lists the children of a media-source content ID (spec §6.2).
	Browse(ctx context.Context, mediaContentID string) ([]BrowseChild, error)

	// Resolve returns a time-bounded, authenticated URL for a media-source
	// content ID (spec §6.2).
	Resolve(ctx context.Context, mediaContentID string) (string, error)
}
