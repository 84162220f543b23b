// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package models

// FilterValue is a filter slot that is either a static value or a reference
// to a live entity (domain.entity) that must be resolved before use (spec §4.7).
type FilterValue struct {
	// Static holds a literal value when Entity is empty.
	Static string
	// Entity holds an entity reference such as "input_boolean.show_favs".
	// When non-empty, Static is ignored and the value is resolved live.
	Entity string
}

// IsEntityRef reports whether this slot should be resolved against live
// entity state rather than used as a literal.
func (f FilterValue) IsEntityRef() bool {
	return f.Entity != ""
}

// FilterSpec is the recognized filter configuration (spec §3).
type FilterSpec struct {
	Favorites      *FilterValue // boolean-valued, static "true"/"false" or entity ref
	DateRangeStart *FilterValue // YYYY-MM-DD, static or entity ref
	DateRangeEnd   *FilterValue
}

// EntityRefs returns every entity ID referenced by this spec, for
// subscription registration.
func (f FilterSpec) EntityRefs() []string {
	var refs []string
	for _, v := range []*FilterValue{f.Favorites, f.DateRangeStart, f.DateRangeEnd} {
		if v != nil && v.IsEntityRef() {
			refs = append(refs, v.Entity)
		}
	}
	return refs
}

// ResolvedFilter is the outcome of resolving a FilterSpec against live state:
// every slot is either a concrete value or nil ("filter not applied").
type ResolvedFilter struct {
	FavoritesOnly *bool
	DateFrom      *string // YYYY-MM-DD
	DateTo        *string
}

// Equal performs a structural comparison, used by the FilterResolver to
// decide whether a state change actually altered the resolved filter
// (spec §4.7: "compare structurally to the last-known values").
func (r ResolvedFilter) Equal(other ResolvedFilter) bool {
	return boolPtrEqual(r.FavoritesOnly, other.FavoritesOnly) &&
		strPtrEqual(r.DateFrom, other.DateFrom) &&
		strPtrEqual(r.DateTo, other.DateTo)
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ActiveFilterNames returns the names of the filters currently in effect,
// for the queue-stats event's activeFilters field (spec §4.5, §6.3).
func (r ResolvedFilter) ActiveFilterNames() []string {
	var names []string
	if r.FavoritesOnly != nil && *r.FavoritesOnly {
		names = append(names, "favorites")
	}
	if r.DateFrom != nil || r.DateTo != nil {
		names = append(names, "dateRange")
	}
	return names
}
