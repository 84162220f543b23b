// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package filter implements FilterResolver (spec §4.7): resolves the
// configured filter spec against live entity state and subscribes to
// changes so the navigation layer can trigger a queue reload when a
// resolved value actually differs from its last-known value.
package filter

import (
	"strconv"
	"strings"
	"sync"

	"github.com/tomtom215/mediaqueue/internal/bus"
	"github.com/tomtom215/mediaqueue/internal/logging"
	"github.com/tomtom215/mediaqueue/internal/models"
)

// StateStore is the read-only live-state lookup the resolver needs; the
// navigation layer's state cache satisfies this without the filter package
// importing it directly.
type StateStore interface {
	// State returns the current state string for entityID and whether it
	// is known at all.
	State(entityID string) (string, bool)
}

// OnChange is invoked when a state-change event causes the resolved filter
// to structurally differ from its last-known value (spec §4.7 "clear
// queue, clear history, reset current item, re-query provider, emit
// queue-stats").
type OnChange func(models.ResolvedFilter)

// Resolver is FilterResolver.
type Resolver struct {
	spec  models.FilterSpec
	store StateStore
	b     *bus.Bus
	onCh  OnChange

	mu           sync.Mutex
	lastResolved models.ResolvedFilter
	unsubscribe  func()
}

// New builds a Resolver for spec. store supplies live entity state; b is
// the bus the resolver subscribes to for state_changed events (spec §6.3).
func New(spec models.FilterSpec, store StateStore, b *bus.Bus, onChange OnChange) *Resolver {
	return &Resolver{spec: spec, store: store, b: b, onCh: onChange}
}

// Resolve walks the filter spec and resolves every slot against live state
// (spec §4.7 "Walks the filter spec"). It does not compare against the
// last-known value or invoke OnChange; callers that want change detection
// use Start.
func (r *Resolver) Resolve() models.ResolvedFilter {
	var resolved models.ResolvedFilter
	if b, ok := r.resolveBool(r.spec.Favorites); ok {
		resolved.FavoritesOnly = &b
	}
	if s, ok := r.resolveDate(r.spec.DateRangeStart); ok {
		resolved.DateFrom = &s
	}
	if s, ok := r.resolveDate(r.spec.DateRangeEnd); ok {
		resolved.DateTo = &s
	}
	return resolved
}

// Start performs an initial resolve (recording it as the baseline) and
// subscribes to state changes for every referenced entity. It returns that
// initial resolved filter; Dispose releases the subscription.
func (r *Resolver) Start() models.ResolvedFilter {
	initial := r.Resolve()
	r.mu.Lock()
	r.lastResolved = initial
	r.mu.Unlock()

	if r.b == nil {
		return initial
	}

	entities := make(map[string]struct{})
	for _, ref := range r.spec.EntityRefs() {
		entities[ref] = struct{}{}
	}
	if len(entities) == 0 {
		return initial
	}

	ch, unsubscribe := r.b.SubscribeState(8)
	r.unsubscribe = unsubscribe

	go func() {
		for event := range ch {
			if _, known := entities[event.EntityID]; !known {
				continue
			}
			r.handleStateChange()
		}
	}()

	return initial
}

// handleStateChange re-resolves every filter slot and, only if the result
// structurally differs from the last-known value, invokes OnChange (spec
// §4.7: "if and only if they differ").
func (r *Resolver) handleStateChange() {
	resolved := r.Resolve()

	r.mu.Lock()
	changed := !resolved.Equal(r.lastResolved)
	if changed {
		r.lastResolved = resolved
	}
	r.mu.Unlock()

	if changed && r.onCh != nil {
		r.onCh(resolved)
	}
}

// Dispose releases the state-change subscription (spec §5: "owned by the
// random provider's FilterResolver; must be released on dispose()").
func (r *Resolver) Dispose() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

func (r *Resolver) resolveBool(v *models.FilterValue) (bool, bool) {
	raw, ok := r.resolveRaw(v, "input_boolean")
	if !ok {
		return false, false
	}
	return parseBool(raw), true
}

func (r *Resolver) resolveDate(v *models.FilterValue) (string, bool) {
	return r.resolveRaw(v, "input_datetime")
}

// resolveRaw resolves a single slot: a static value is used as-is; an
// entity reference is resolved per its domain (spec §4.7 "Resolves per
// domain"). An invalid or missing entity resolves to (_, false), i.e.
// "filter not applied".
func (r *Resolver) resolveRaw(v *models.FilterValue, fallbackDomain string) (string, bool) {
	if v == nil {
		return "", false
	}
	if !v.IsEntityRef() {
		if v.Static == "" {
			return "", false
		}
		return v.Static, true
	}

	domain := entityDomain(v.Entity)
	if r.store == nil {
		return "", false
	}
	state, known := r.store.State(v.Entity)
	if !known {
		return "", false
	}

	switch domain {
	case "input_boolean":
		return state, true
	case "input_datetime":
		return datePortion(state), true
	case "input_text", "input_select":
		return state, true
	case "sensor":
		return resolveSensorState(state, fallbackDomain), true
	default:
		logging.Warn().Str("entity", v.Entity).Msg("filter entity has an unrecognized domain, ignoring")
		return "", false
	}
}

// resolveSensorState parses a sensor's raw state per the expected type of
// the slot it feeds (spec §4.7: "sensor -> parsed per expected type").
func resolveSensorState(state, expected string) string {
	switch expected {
	case "input_boolean":
		if parseBool(state) {
			return "on"
		}
		return "off"
	default:
		if _, err := strconv.ParseFloat(state, 64); err == nil {
			return state
		}
		return state
	}
}

func parseBool(state string) bool {
	switch strings.ToLower(state) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

func datePortion(state string) string {
	if idx := strings.IndexAny(state, "T "); idx >= 0 {
		return state[:idx]
	}
	return state
}

func entityDomain(entity string) string {
	if idx := strings.Index(entity, "."); idx >= 0 {
		return entity[:idx]
	}
	return ""
}
