// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package bus implements the event-bus side of the external interfaces in
// spec §6.3: outbound media_card_queue_stats events and inbound
// state_changed events for filter entities. It adapts the teacher's
// websocket.Hub fan-out (register/unregister channels, single broadcast
// loop) to an in-process pub-sub with no network transport, since the host
// dashboard's eventing is an external collaborator (spec §1).
package bus

import (
	"sync"

	"github.com/tomtom215/mediaqueue/internal/logging"
)

// QueueStats is the payload of a media_card_queue_stats event (spec §4.5,
// §6.3). It is a pure value object, independent of any transport framing
// (design note §9).
type QueueStats struct {
	SessionID      string
	QueueSize      int
	QueueCapacity  int
	ActiveFilters  []string
	FilterConfig   map[string]string
	TimestampUnix  int64
}

// StateChanged is an inbound entity state-change event (spec §6.3).
type StateChanged struct {
	EntityID string
	NewState string
	OldState string
}

// Bus fans a single internal event out to any number of subscribers,
// mirroring websocket.Hub's register/broadcast pattern but without any
// socket framing — callers own delivery to the renderer/host dashboard.
type Bus struct {
	mu            sync.RWMutex
	statsSubs     map[int]chan QueueStats
	stateSubs     map[int]chan StateChanged
	nextStatsID   int
	nextStateID   int
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{
		statsSubs: make(map[int]chan QueueStats),
		stateSubs: make(map[int]chan StateChanged),
	}
}

// SubscribeStats registers a new queue-stats subscriber. The returned
// unsubscribe func must be called on dispose to avoid leaking the channel
// (spec §5: "the event-bus subscription ... must be released on dispose()").
func (b *Bus) SubscribeStats(buf int) (<-chan QueueStats, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextStatsID
	b.nextStatsID++
	ch := make(chan QueueStats, buf)
	b.statsSubs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.statsSubs[id]; ok {
			delete(b.statsSubs, id)
			close(c)
		}
	}
}

// SubscribeState registers a new state-change subscriber.
func (b *Bus) SubscribeState(buf int) (<-chan StateChanged, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextStateID
	b.nextStateID++
	ch := make(chan StateChanged, buf)
	b.stateSubs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.stateSubs[id]; ok {
			delete(b.stateSubs, id)
			close(c)
		}
	}
}

// PublishStats emits a queue-stats event to every current subscriber.
// Slow subscribers are skipped rather than blocking the publisher, matching
// the single-threaded cooperative scheduling model of spec §5.
func (b *Bus) PublishStats(s QueueStats) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.statsSubs {
		select {
		case ch <- s:
		default:
			logging.Warn().Msg("queue-stats subscriber channel full, dropping event")
		}
	}
}

// PublishState emits a state-changed event to every current subscriber. The
// FilterResolver's subscription handler routes by event.EntityID in-callback
// (design note §9: "tagged-variant dispatch") rather than the bus filtering
// per-entity, since the transport this models exposes only a global stream.
func (b *Bus) PublishState(e StateChanged) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.stateSubs {
		select {
		case ch <- e:
		default:
			logging.Warn().Msg("state-change subscriber channel full, dropping event")
		}
	}
}
