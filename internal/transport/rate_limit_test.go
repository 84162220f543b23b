// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitedClientPassesThroughSuccess(t *testing.T) {
	stub := &stubClient{resp: ServiceResponse{"items": []any{}}}
	rlc := NewRateLimitedClient(stub, 100, 1)

	resp, err := rlc.CallService(context.Background(), ServiceRequest{Service: "media_index.get_random_items"})
	require.NoError(t, err)
	assert.Equal(t, stub.resp, resp)
}

func TestRateLimitedClientBrowseAndResolveBypassLimiter(t *testing.T) {
	stub := &stubClient{}
	rlc := NewRateLimitedClient(stub, 0.001, 1)

	_, err := rlc.Browse(context.Background(), "media-source://media_source/a")
	require.NoError(t, err)

	url, err := rlc.Resolve(context.Background(), "media-source://media_source/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://example/resolved", url)
}

func TestRateLimitedClientRejectsOnContextCancel(t *testing.T) {
	stub := &stubClient{}
	rlc := NewRateLimitedClient(stub, 0.001, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// first call consumes the single burst token immediately; the second
	// must wait and observe the already-cancelled context.
	_, err := rlc.CallService(context.Background(), ServiceRequest{})
	require.NoError(t, err)
	_, err = rlc.CallService(ctx, ServiceRequest{})
	assert.Error(t, err)
}
