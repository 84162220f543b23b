// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package navigation implements NavigationController (spec §4.8): the
// forward/back history, auto-advance timer, preload and exclusion-driven
// recovery that sits between a FolderProvider and the host dashboard's
// renderer.
package navigation

import (
	"sync"

	"github.com/tomtom215/mediaqueue/internal/models"
)

// history is the NavigationController's past/current/redo record (spec §3
// "History"): an ordered sequence of displayed items plus a cursor
// (position). Items after position form the forward/redo stack; items
// before it are the back stack. It is bound by maxSize, trimmed only from
// behind the cursor (spec §3 "the oldest entries are trimmed when
// exceeded, but only from behind the cursor").
type history struct {
	mu       sync.RWMutex
	items    []models.Item
	position int // -1 means empty
	maxSize  int
}

func newHistory(maxSize int) *history {
	if maxSize <= 0 {
		maxSize = 50
	}
	return &history{position: -1, maxSize: maxSize}
}

// HasID reports whether id is present anywhere in history, satisfying
// providers.HistoryView without this package importing it (design note §9).
func (h *history) HasID(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, it := range h.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// IDs returns every id currently in history, in order, satisfying
// providers.HistoryView.
func (h *history) IDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.items))
	for i, it := range h.items {
		out[i] = it.ID
	}
	return out
}

// current returns the item at position, if any.
func (h *history) current() (models.Item, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.position < 0 || h.position >= len(h.items) {
		return models.Item{}, false
	}
	return h.items[h.position], true
}

// canRetreat reports whether position > 0.
func (h *history) canRetreat() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.position > 0
}

// retreat decrements position and returns the new current item (spec §4.8
// "retreat(): if position > 0, decrement position").
func (h *history) retreat() (models.Item, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.position <= 0 {
		return models.Item{}, false
	}
	h.position--
	return h.items[h.position], true
}

// canReplay reports whether advancing would replay an item already in the
// forward/redo stack rather than requiring a fresh fetch (spec §4.8
// "advance(): if position < history.length-1, increment position
// (replaying)").
func (h *history) canReplay() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.position < len(h.items)-1
}

// replay increments position into the existing redo stack.
func (h *history) replay() (models.Item, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.position >= len(h.items)-1 {
		return models.Item{}, false
	}
	h.position++
	return h.items[h.position], true
}

// appendNew truncates any redo stack beyond position, appends item as the
// new current entry, and trims from the front (behind the cursor) if
// maxSize is exceeded.
func (h *history) appendNew(item models.Item) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = append(h.items[:h.position+1], item)
	h.position++

	if overflow := len(h.items) - h.maxSize; overflow > 0 {
		h.items = h.items[overflow:]
		h.position -= overflow
	}
}

// remove drops id from history if present, adjusting position so a
// subsequent retreat never yields a known-bad item (spec §4.8 "exclude():
// if item is in history, remove it and adjust position").
func (h *history) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := -1
	for i, it := range h.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	h.items = append(h.items[:idx], h.items[idx+1:]...)
	if idx <= h.position {
		h.position--
	}
}

// updateResolvedURL patches the ResolvedURL of the history entry matching
// id, if present, used when a reload or retry produces a fresh URL for an
// item without displacing it.
func (h *history) updateResolvedURL(id, url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.items {
		if h.items[i].ID == id {
			h.items[i].ResolvedURL = url
			return
		}
	}
}

// clear empties history entirely (spec §4.7 "clear queue, clear history,
// reset current item" on a filter change).
func (h *history) clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = nil
	h.position = -1
}
