// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package navigation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tomtom215/mediaqueue/internal/config"
	"github.com/tomtom215/mediaqueue/internal/exclusion"
	"github.com/tomtom215/mediaqueue/internal/models"
	"github.com/tomtom215/mediaqueue/internal/providers"
)

// fakeProvider hands out items from a fixed list in order, one per
// GetNext call, returning nil once exhausted.
type fakeProvider struct {
	mu       sync.Mutex
	items    []models.Item
	idx      int
	disposed bool
	delay    time.Duration
}

func (f *fakeProvider) Initialize(ctx context.Context) (bool, error) { return true, nil }

func (f *fakeProvider) GetNext(ctx context.Context) (*models.Item, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idx >= len(f.items) {
		return nil, nil
	}
	item := f.items[f.idx]
	f.idx++
	return &item, nil
}

func (f *fakeProvider) CheckFileExists(ctx context.Context, item models.Item) (*providers.FileCheckResult, error) {
	return nil, nil
}

func (f *fakeProvider) GetFilesNewerThan(ctx context.Context, thresholdUnix int64) ([]models.Item, error) {
	return nil, nil
}

func (f *fakeProvider) RescanForNewFiles(ctx context.Context, currentID string) (providers.RescanResult, error) {
	return providers.RescanResult{}, nil
}

func (f *fakeProvider) Dispose() { f.disposed = true }

// fakePreviewProvider additionally supports PeekNext for preload tests.
type fakePreviewProvider struct {
	fakeProvider
}

func (f *fakePreviewProvider) PeekNext(ctx context.Context) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idx >= len(f.items) {
		return nil, nil
	}
	item := f.items[f.idx]
	return &item, nil
}

type fakeResolver struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (r *fakeResolver) Resolve(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fail {
		return "", assert.AnError
	}
	return "https://example.invalid/" + id, nil
}

func items(ids ...string) []models.Item {
	out := make([]models.Item, len(ids))
	for i, id := range ids {
		out[i] = models.Item{ID: id}
	}
	return out
}

func newController(p providers.Provider, cfg Config) *Controller {
	excl := exclusion.New(nil)
	return New(p, excl, &fakeResolver{}, nil, cfg)
}

func TestAdvanceAppendsToHistoryAndReturnsItem(t *testing.T) {
	p := &fakeProvider{items: items("a", "b", "c")}
	c := newController(p, Config{HistorySize: 50})

	first, err := c.Advance(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "a", first.ID)

	second, err := c.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", second.ID)
}

func TestRetreatThenAdvanceReplaysTheSameItem(t *testing.T) {
	p := &fakeProvider{items: items("a", "b", "c")}
	c := newController(p, Config{HistorySize: 50})

	_, _ = c.Advance(context.Background())
	_, _ = c.Advance(context.Background())

	back, ok := c.Retreat()
	require.True(t, ok)
	assert.Equal(t, "a", back.ID)

	replayed, err := c.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", replayed.ID, "replay must not consume a fresh item from the provider")
	assert.Equal(t, 2, p.idx, "no extra GetNext call happened during replay")
}

func TestRetreatAtStartOfHistoryIsNoOp(t *testing.T) {
	p := &fakeProvider{items: items("a")}
	c := newController(p, Config{HistorySize: 50})
	_, _ = c.Advance(context.Background())

	_, ok := c.Retreat()
	assert.False(t, ok)
}

func TestAdvancePastExhaustionSurfacesNoMoreItems(t *testing.T) {
	p := &fakeProvider{items: items("a")}
	c := newController(p, Config{HistorySize: 50})

	_, err := c.Advance(context.Background())
	require.NoError(t, err)

	_, err = c.Advance(context.Background())
	assert.ErrorIs(t, err, ErrNoMoreItems)
}

func TestExcludeRemovesFromHistoryAndAdjustsPosition(t *testing.T) {
	p := &fakeProvider{items: items("a", "b")}
	c := newController(p, Config{HistorySize: 50})

	first, _ := c.Advance(context.Background())
	_, _ = c.Advance(context.Background())

	c.Exclude(*first, exclusion.ReasonMissing)

	assert.False(t, c.hist.HasID("a"))
	_, ok := c.Retreat()
	assert.False(t, ok, "retreating must never land on the excluded item")
}

func TestOnMediaLoadErrorRetriesResolveBeforeExcluding(t *testing.T) {
	p := &fakeProvider{items: items("a", "b")}
	resolver := &fakeResolver{}
	excl := exclusion.New(nil)
	c := New(p, excl, resolver, nil, Config{HistorySize: 50})

	item, _ := c.Advance(context.Background())

	recovered, err := c.OnMediaLoadError(context.Background(), *item)
	require.NoError(t, err)
	require.NotNil(t, recovered)
	assert.Equal(t, "a", recovered.ID, "a successful re-resolve must not exclude or advance")
	assert.False(t, excl.Contains("a"))
}

func TestOnMediaLoadErrorExcludesAndAdvancesWhenResolveFails(t *testing.T) {
	p := &fakeProvider{items: items("a", "b")}
	resolver := &fakeResolver{fail: true}
	excl := exclusion.New(nil)
	c := New(p, excl, resolver, nil, Config{HistorySize: 50})

	item, _ := c.Advance(context.Background())

	next, err := c.OnMediaLoadError(context.Background(), *item)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "b", next.ID)
	assert.True(t, excl.Contains("a"))
}

func TestOnFilterChangeClearsHistoryAndBumpsEpoch(t *testing.T) {
	p := &fakeProvider{items: items("a", "b")}
	c := newController(p, Config{HistorySize: 50})
	_, _ = c.Advance(context.Background())

	before := c.currentEpoch()
	c.OnFilterChange()

	assert.Equal(t, before+1, c.currentEpoch())
	_, ok := c.Current()
	assert.False(t, ok)
}

func TestStaleAdvanceResultIsDiscardedOnFilterChange(t *testing.T) {
	p := &fakeProvider{items: items("a"), delay: 30 * time.Millisecond}
	c := newController(p, Config{HistorySize: 50})

	done := make(chan struct{})
	go func() {
		_, _ = c.Advance(context.Background())
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	c.OnFilterChange()
	<-done

	_, ok := c.Current()
	assert.False(t, ok, "the in-flight advance's result must not populate history once the epoch moved")
}

func TestConcurrentAdvanceCallsCollapseToOneFetch(t *testing.T) {
	p := &fakeProvider{items: items("a"), delay: 20 * time.Millisecond}
	c := newController(p, Config{HistorySize: 50})

	var wg sync.WaitGroup
	results := make([]*models.Item, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item, _ := c.Advance(context.Background())
			results[i] = item
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, p.idx, "five concurrent clicks must collapse into a single provider fetch")
	for _, r := range results {
		if r != nil {
			assert.Equal(t, "a", r.ID)
		}
	}
}

func TestPreloadResolvesNextQueuedItemWithoutConsuming(t *testing.T) {
	p := &fakePreviewProvider{fakeProvider: fakeProvider{items: items("a", "b")}}
	resolver := &fakeResolver{}
	excl := exclusion.New(nil)
	c := New(p, excl, resolver, nil, Config{HistorySize: 50})

	c.Preload(context.Background())

	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, 0, p.idx, "preload must peek, not consume")
	assert.Contains(t, c.preloaded, "a")
}

func TestAdvanceConsumesThePreloadedURLInsteadOfDiscardingIt(t *testing.T) {
	p := &fakePreviewProvider{fakeProvider: fakeProvider{items: items("a", "b")}}
	resolver := &fakeResolver{}
	excl := exclusion.New(nil)
	c := New(p, excl, resolver, nil, Config{HistorySize: 50})

	c.Preload(context.Background())
	require.Contains(t, c.preloaded, "a")

	item, err := c.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", item.ID)
	assert.Equal(t, "https://example.invalid/a", item.ResolvedURL, "doAdvance must substitute the cached preload URL")
	assert.NotContains(t, c.preloaded, "a", "the consumed entry must be evicted from the cache")
}

func TestSetPausedCancelsAutoAdvanceTimer(t *testing.T) {
	p := &fakeProvider{items: items("a", "b")}
	c := newController(p, Config{HistorySize: 50, AutoAdvanceInterval: 10 * time.Millisecond, AutoAdvanceMode: config.AutoAdvanceReset})

	c.SetPaused(false) // starts the timer
	c.SetPaused(true)  // cancels it before the interval elapses
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Current()
	assert.False(t, ok, "no auto-advance tick should have fired while paused")
}

func TestAutoAdvanceModeResetRestartsTimerOnManualNavigation(t *testing.T) {
	p := &fakeProvider{items: items("a", "b", "c")}
	c := newController(p, Config{HistorySize: 50, AutoAdvanceInterval: 25 * time.Millisecond, AutoAdvanceMode: config.AutoAdvanceReset})

	_, _ = c.Advance(context.Background()) // starts/resets the timer, lands on "a"
	time.Sleep(15 * time.Millisecond)
	_, _ = c.Advance(context.Background()) // manual nav resets the timer again, lands on "b"
	time.Sleep(15 * time.Millisecond)

	item, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "b", item.ID, "the reset timer should not have fired an auto-advance tick yet")
}

func TestDisposeReleasesTimerAndProvider(t *testing.T) {
	p := &fakeProvider{items: items("a")}
	c := newController(p, Config{HistorySize: 50, AutoAdvanceInterval: time.Hour})
	c.SetPaused(false)

	c.Dispose()
	assert.True(t, p.disposed)
}

func TestDisposeLeavesNoGoroutineBehind(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	p := &fakeProvider{items: items("a", "b")}
	c := newController(p, Config{HistorySize: 50, AutoAdvanceInterval: 5 * time.Millisecond, AutoAdvanceMode: config.AutoAdvanceReset})
	c.SetPaused(false)

	time.Sleep(20 * time.Millisecond)
	c.Dispose()
}
