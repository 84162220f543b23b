// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/mediaqueue/internal/bus"
	"github.com/tomtom215/mediaqueue/internal/models"
)

type fakeStore struct {
	states map[string]string
}

func (f *fakeStore) State(entityID string) (string, bool) {
	s, ok := f.states[entityID]
	return s, ok
}

func TestResolveStaticFavorites(t *testing.T) {
	spec := models.FilterSpec{Favorites: &models.FilterValue{Static: "true"}}
	r := New(spec, nil, nil, nil)
	resolved := r.Resolve()
	require.NotNil(t, resolved.FavoritesOnly)
	assert.True(t, *resolved.FavoritesOnly)
}

func TestResolveEntityRefInputBoolean(t *testing.T) {
	store := &fakeStore{states: map[string]string{"input_boolean.show_favs": "on"}}
	spec := models.FilterSpec{Favorites: &models.FilterValue{Entity: "input_boolean.show_favs"}}
	r := New(spec, store, nil, nil)

	resolved := r.Resolve()
	require.NotNil(t, resolved.FavoritesOnly)
	assert.True(t, *resolved.FavoritesOnly)
}

func TestResolveMissingEntityIsNilNotApplied(t *testing.T) {
	store := &fakeStore{states: map[string]string{}}
	spec := models.FilterSpec{Favorites: &models.FilterValue{Entity: "input_boolean.missing"}}
	r := New(spec, store, nil, nil)

	resolved := r.Resolve()
	assert.Nil(t, resolved.FavoritesOnly)
}

func TestOnChangeFiresOnlyWhenResolvedValueDiffers(t *testing.T) {
	store := &fakeStore{states: map[string]string{"input_boolean.show_favs": "off"}}
	spec := models.FilterSpec{Favorites: &models.FilterValue{Entity: "input_boolean.show_favs"}}

	b := bus.New()
	var fired int
	var lastResolved models.ResolvedFilter
	r := New(spec, store, b, func(rf models.ResolvedFilter) {
		fired++
		lastResolved = rf
	})
	r.Start()
	defer r.Dispose()

	// Irrelevant entity change: must not fire.
	b.PublishState(bus.StateChanged{EntityID: "input_boolean.other", NewState: "on"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, fired)

	// Relevant change, same resolved value (off -> off structurally, but we
	// flip the underlying store to "on" to actually change it): must fire.
	store.states["input_boolean.show_favs"] = "on"
	b.PublishState(bus.StateChanged{EntityID: "input_boolean.show_favs", OldState: "off", NewState: "on"})
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 1, fired)
	require.NotNil(t, lastResolved.FavoritesOnly)
	assert.True(t, *lastResolved.FavoritesOnly)
}

func TestDatePortionStripsTimeComponent(t *testing.T) {
	assert.Equal(t, "2026-01-15", datePortion("2026-01-15T10:30:00"))
	assert.Equal(t, "2026-01-15", datePortion("2026-01-15"))
}

func TestSensorStateParsedAsBooleanForFavoritesSlot(t *testing.T) {
	store := &fakeStore{states: map[string]string{"sensor.favs": "1"}}
	spec := models.FilterSpec{Favorites: &models.FilterValue{Entity: "sensor.favs"}}
	r := New(spec, store, nil, nil)

	resolved := r.Resolve()
	require.NotNil(t, resolved.FavoritesOnly)
	assert.True(t, *resolved.FavoritesOnly)
}
