// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/mediaqueue/internal/models"
)

type fakeExclusion struct {
	excluded map[string]bool
}

func (f fakeExclusion) Contains(id string) bool { return f.excluded[id] }

func TestEnqueueDeduplicatesByID(t *testing.T) {
	q := New(10, 2)
	assert.True(t, q.Enqueue(models.Item{ID: "a"}))
	assert.False(t, q.Enqueue(models.Item{ID: "a"}), "duplicate id must be rejected")
	assert.Equal(t, 1, q.Len())
}

func TestDequeueSkipsExcludedItems(t *testing.T) {
	q := New(10, 2)
	q.Enqueue(models.Item{ID: "a"})
	q.Enqueue(models.Item{ID: "b"})

	excl := fakeExclusion{excluded: map[string]bool{"a": true}}
	item := q.Dequeue(excl)
	require.NotNil(t, item)
	assert.Equal(t, "b", item.ID, "excluded item a must be skipped at dequeue time")
}

func TestDequeueEmptyReturnsNil(t *testing.T) {
	q := New(10, 2)
	assert.Nil(t, q.Dequeue(nil))
}

func TestNeedsRefillAtThreshold(t *testing.T) {
	q := New(10, 2)
	assert.True(t, q.NeedsRefill())
	q.Enqueue(models.Item{ID: "a"})
	q.Enqueue(models.Item{ID: "b"})
	assert.False(t, q.NeedsRefill())
}

func TestPrependPutsItemFirst(t *testing.T) {
	q := New(10, 2)
	q.Enqueue(models.Item{ID: "a"})
	q.Prepend(models.Item{ID: "priority"})

	item := q.Dequeue(nil)
	require.NotNil(t, item)
	assert.Equal(t, "priority", item.ID)
}

func TestClearEmptiesQueue(t *testing.T) {
	q := New(10, 2)
	q.Enqueue(models.Item{ID: "a"})
	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Contains("a"))
}

func TestAtCapacity(t *testing.T) {
	q := New(1, 0)
	assert.False(t, q.AtCapacity())
	q.Enqueue(models.Item{ID: "a"})
	assert.True(t, q.AtCapacity())
}

func TestShuffleIsPermutationPreserving(t *testing.T) {
	q := New(10, 0)
	for i := 0; i < 5; i++ {
		q.Enqueue(models.Item{ID: string(rune('a' + i))})
	}
	before := q.Snapshot()

	// Deterministic "shuffle" that always picks index 0: a,b,c,d,e becomes
	// b,c,d,e,a.
	q.Shuffle(func(n int) int { return 0 })

	after := q.Snapshot()
	assert.ElementsMatch(t, idsOf(before), idsOf(after))
}

func idsOf(items []models.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
