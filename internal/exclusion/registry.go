// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package exclusion implements the ExclusionRegistry: a session-local,
// normalized set of item IDs to skip, fed by 404s and user delete/edit
// actions (spec §3, §4.1, §7).
package exclusion

import "sync"

// Reason records why an item was excluded.
type Reason string

const (
	ReasonMissing Reason = "missing"
	ReasonDeleted Reason = "deleted"
	ReasonEdited  Reason = "edited"
)

// Registry is the session-local set of excluded item IDs. Because path
// identity crosses protocol boundaries (filesystem <-> URI <-> URL-encoded
// forms), every excluded id is stored in both its raw and its normalized
// form, and lookups try both (design note §9).
type Registry struct {
	mu        sync.RWMutex
	raw       map[string]Reason
	normalize func(string) string
}

// New creates an ExclusionRegistry. normalize is the id-normalization
// function (see internal/ids.NormalizeForExclusion); passing nil disables
// the normalized-form lookup.
func New(normalize func(string) string) *Registry {
	if normalize == nil {
		normalize = func(s string) string { return s }
	}
	return &Registry{
		raw:       make(map[string]Reason),
		normalize: normalize,
	}
}

// Exclude adds id (in both raw and normalized form) to the registry.
func (r *Registry) Exclude(id string, reason Reason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw[id] = reason
	r.raw[r.normalize(id)] = reason
}

// Contains reports whether id — in either raw or normalized form — is
// excluded.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.raw[id]; ok {
		return true
	}
	_, ok := r.raw[r.normalize(id)]
	return ok
}

// Flush clears every excluded id. Called on sequential loop-back
// (spec §3: "Lifetime: session only; flushed on sequential loop-back").
func (r *Registry) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw = make(map[string]Reason)
}

// Len returns the number of distinct raw+normalized entries currently held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.raw)
}
