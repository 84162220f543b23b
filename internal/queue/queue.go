// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package queue implements the Queue model from spec §3: a deduplicated
// ordered sequence of Items held by a provider, with a target capacity that
// callers check through AtCapacity (Enqueue and Prepend do not enforce it).
package queue

import (
	"sync"

	"github.com/tomtom215/mediaqueue/internal/models"
)

// DefaultRefillThreshold is the constant refill trigger from spec §3.
const DefaultRefillThreshold = 10

// ExclusionView is satisfied by exclusion.Registry; kept local to avoid an
// import cycle since exclusion has no need to know about queue.
type ExclusionView interface {
	Contains(id string) bool
}

// Queue is a provider's ordered, deduplicated item buffer.
type Queue struct {
	mu              sync.Mutex
	items           []models.Item
	ids             map[string]struct{}
	capacity        int
	refillThreshold int
}

// New creates a Queue with the given target capacity. refillThreshold <= 0
// uses DefaultRefillThreshold.
func New(capacity, refillThreshold int) *Queue {
	if refillThreshold <= 0 {
		refillThreshold = DefaultRefillThreshold
	}
	return &Queue{
		items:           make([]models.Item, 0, capacity),
		ids:             make(map[string]struct{}, capacity),
		capacity:        capacity,
		refillThreshold: refillThreshold,
	}
}

// Len returns the number of items currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Capacity returns the configured target capacity.
func (q *Queue) Capacity() int {
	return q.capacity
}

// NeedsRefill reports whether the queue has fallen below its refill
// threshold (spec §3).
func (q *Queue) NeedsRefill() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) < q.refillThreshold
}

// Contains reports whether id is already present in the queue, for the
// refill loop's in-queue dedup set (spec §4.5 step 1).
func (q *Queue) Contains(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.ids[id]
	return ok
}

// Enqueue appends item to the back of the queue unless an item with the
// same id is already present. Callers are responsible for checking the
// item isn't in the current navigation history before calling this (spec §3
// invariant: "no item in the queue is in history at the moment of
// enqueuing").
func (q *Queue) Enqueue(item models.Item) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.enqueueLocked(item)
}

func (q *Queue) enqueueLocked(item models.Item) bool {
	if _, dup := q.ids[item.ID]; dup {
		return false
	}
	q.items = append(q.items, item)
	q.ids[item.ID] = struct{}{}
	return true
}

// Prepend inserts item at the front of the queue (used by priority-drawn
// items in MediaIndexRandom's refill, spec §4.5 step 7). Returns false if
// item is already present.
func (q *Queue) Prepend(item models.Item) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, dup := q.ids[item.ID]; dup {
		return false
	}
	q.items = append([]models.Item{item}, q.items...)
	q.ids[item.ID] = struct{}{}
	return true
}

// Dequeue pops the front item, skipping (and dropping) any item that is
// currently present in excl (spec §3 invariant: "no item in the queue is in
// the ExclusionRegistry at the moment of dequeuing"). Returns nil if the
// queue is empty after skipping exclusions.
func (q *Queue) Dequeue(excl ExclusionView) *models.Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) > 0 {
		item := q.items[0]
		q.items = q.items[1:]
		delete(q.ids, item.ID)

		if excl != nil && excl.Contains(item.ID) {
			continue
		}
		return &item
	}
	return nil
}

// Peek returns the front item without removing it, or nil if empty (used
// for preload, spec §4.8).
func (q *Queue) Peek() *models.Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	item := q.items[0]
	return &item
}

// Clear empties the queue (used on filter reload, spec §4.7).
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
	q.ids = make(map[string]struct{}, q.capacity)
}

// Snapshot returns a copy of the currently queued items, in order.
func (q *Queue) Snapshot() []models.Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.Item, len(q.items))
	copy(out, q.items)
	return out
}

// Shuffle re-orders the queue using Fisher-Yates via the supplied random
// source (spec §4.3 step 4: re-shuffle every N enqueues so early folders
// don't dominate). next(n) must return a pseudo-random int in [0, n).
func (q *Queue) Shuffle(next func(n int) int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := len(q.items) - 1; i > 0; i-- {
		j := next(i + 1)
		q.items[i], q.items[j] = q.items[j], q.items[i]
	}
}

// AtCapacity reports whether the queue has reached its target capacity.
func (q *Queue) AtCapacity() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity > 0 && len(q.items) >= q.capacity
}
