// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package navigation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/mediaqueue/internal/bus"
	"github.com/tomtom215/mediaqueue/internal/config"
	"github.com/tomtom215/mediaqueue/internal/exclusion"
	"github.com/tomtom215/mediaqueue/internal/logging"
	"github.com/tomtom215/mediaqueue/internal/models"
	"github.com/tomtom215/mediaqueue/internal/providers"
)

// ErrNoMoreItems is surfaced by Advance when the provider is exhausted
// (spec §4.8: "If provider returns null, surface NoMoreItems").
var ErrNoMoreItems = errors.New("no more items")

// errStaleEpoch marks an Advance result discarded because a filter change
// landed while the provider round-trip was in flight (spec §5
// "responses are accepted only if their epoch is current").
var errStaleEpoch = errors.New("stale epoch, discarded")

// previewer is the optional interface a concrete provider satisfies to
// support peek-without-consume preloading (spec §4.8 "Preload").
type previewer interface {
	PeekNext(ctx context.Context) (*models.Item, error)
}

// loopSuppressor is the optional interface sequential providers satisfy so
// Preload can guard against a spurious end-of-sequence loop while merely
// peeking (spec §4.8: "sequential providers must set disableAutoLoop").
type loopSuppressor interface {
	SetDisableAutoLoop(bool)
}

// Resolver is the URL-resolution half of transport.Client that
// reloadCurrent and Preload need; kept narrow so tests can fake it without
// a full Client.
type Resolver interface {
	Resolve(ctx context.Context, mediaContentID string) (string, error)
}

// Config carries the subset of the engine configuration NavigationController
// needs (spec §4.8, §6.4).
type Config struct {
	HistorySize         int
	AutoAdvanceInterval time.Duration
	AutoAdvanceMode     config.AutoAdvanceMode
	PauseOnInteraction  bool
}

// Controller is NavigationController (spec §4.8). It owns the FolderProvider
// instance, the session's ExclusionRegistry, history, the auto-advance
// timer and epoch-based staleness tracking.
type Controller struct {
	provider  providers.Provider
	excl      *exclusion.Registry
	resolver  Resolver
	b         *bus.Bus
	cfg       Config
	sessionID string

	hist *history

	mu             sync.Mutex
	isPaused       bool
	isHidden       bool
	timer          *time.Timer
	timerRemaining time.Duration
	timerStartedAt time.Time
	epoch          int64
	errorState     error
	preloaded      map[string]string

	advanceGroup singleflight.Group
}

// New builds a Controller around provider, starting with an empty history.
// Each Controller gets its own session ID (spec §3 "Lifetime: session
// only"), carried on the QueueStats events the Controller itself publishes
// so a dashboard hosting several media cards can tell their streams apart.
func New(provider providers.Provider, excl *exclusion.Registry, resolver Resolver, b *bus.Bus, cfg Config) *Controller {
	sessionID := uuid.New().String()
	logging.Debug().Str("session", sessionID).Msg("navigation controller session started")
	return &Controller{
		provider:  provider,
		excl:      excl,
		resolver:  resolver,
		b:         b,
		cfg:       cfg,
		sessionID: sessionID,
		hist:      newHistory(cfg.HistorySize),
		preloaded: make(map[string]string),
	}
}

// HistoryView exposes the controller's history as a providers.HistoryView,
// for wiring into the provider that backs this controller.
func (c *Controller) HistoryView() providers.HistoryView { return c.hist }

// Current returns the item currently displayed, if any.
func (c *Controller) Current() (models.Item, bool) {
	return c.hist.current()
}

// Initialize performs the provider's first fetch.
func (c *Controller) Initialize(ctx context.Context) (bool, error) {
	return c.provider.Initialize(ctx)
}

// Advance implements NavigationController.advance() (spec §4.8). Concurrent
// callers collapse into a single in-flight fetch (spec §5 "Concurrent
// clicks collapse into at most one in-flight advance").
func (c *Controller) Advance(ctx context.Context) (*models.Item, error) {
	v, err, _ := c.advanceGroup.Do("advance", func() (interface{}, error) {
		return c.doAdvance(ctx)
	})
	c.onManualNavigation()
	if v == nil {
		return nil, err
	}
	return v.(*models.Item), err
}

func (c *Controller) doAdvance(ctx context.Context) (*models.Item, error) {
	if c.hist.canReplay() {
		item, _ := c.hist.replay()
		return &item, nil
	}

	epoch := c.currentEpoch()
	next, err := c.provider.GetNext(ctx)

	c.mu.Lock()
	stale := epoch != c.epoch
	c.mu.Unlock()
	if stale {
		return nil, errStaleEpoch
	}

	if err != nil {
		c.setError(err)
		return nil, err
	}
	if next == nil {
		c.setError(ErrNoMoreItems)
		return nil, ErrNoMoreItems
	}

	c.mu.Lock()
	if url, ok := c.preloaded[next.ID]; ok {
		next.ResolvedURL = url
		delete(c.preloaded, next.ID)
	}
	c.mu.Unlock()

	c.setError(nil)
	c.hist.appendNew(*next)
	return next, nil
}

// Retreat implements NavigationController.retreat() (spec §4.8).
func (c *Controller) Retreat() (*models.Item, bool) {
	if !c.hist.canRetreat() {
		return nil, false
	}
	item, ok := c.hist.retreat()
	if !ok {
		return nil, false
	}
	c.onManualNavigation()
	return &item, true
}

// ReloadCurrent re-resolves the URL for the current item without touching
// history (spec §4.8 "reloadCurrent(): re-resolve the URL for the current
// item's id; do not change history").
func (c *Controller) ReloadCurrent(ctx context.Context) (string, error) {
	item, ok := c.hist.current()
	if !ok {
		return "", errors.New("no current item")
	}
	if c.resolver == nil {
		return item.ResolvedURL, nil
	}
	return c.resolver.Resolve(ctx, item.ID)
}

// Exclude implements NavigationController.exclude() (spec §4.8): adds the
// item to the ExclusionRegistry, and if present in history removes it and
// adjusts position so retreat never yields a known-bad item.
func (c *Controller) Exclude(item models.Item, reason exclusion.Reason) {
	c.excl.Exclude(item.ID, reason)
	c.hist.remove(item.ID)
}

// SetPaused implements NavigationController.setPaused() (spec §4.8: "cancels
// or restarts the auto-advance timer").
func (c *Controller) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isPaused = paused
	if paused {
		c.stopTimerLocked()
		return
	}
	c.startTimerLocked(c.cfg.AutoAdvanceInterval)
}

// SetHidden implements the background/visibility behavior of spec §5: when
// the host view is hidden, auto-advance is paused; when it becomes visible
// again, the timer resumes from its remaining interval rather than
// restarting.
func (c *Controller) SetHidden(hidden bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hidden == c.isHidden {
		return
	}
	c.isHidden = hidden

	if hidden {
		c.stopTimerLocked()
		return
	}
	if c.isPaused {
		return
	}
	remaining := c.timerRemaining
	if remaining <= 0 {
		remaining = c.cfg.AutoAdvanceInterval
	}
	c.startTimerLocked(remaining)
}

// OnVideoComplete treats a finished video as an auto-advance tick, unless
// the user has explicitly paused (spec §4.8 "Video completion").
func (c *Controller) OnVideoComplete(ctx context.Context) (*models.Item, error) {
	c.mu.Lock()
	paused := c.isPaused
	c.mu.Unlock()
	if paused {
		return nil, nil
	}
	return c.Advance(ctx)
}

// OnMediaLoadError implements the renderer-load-error recovery of spec
// §4.8 ("auto-retry once by re-resolving the URL; if it still fails,
// exclude and advance") and spec §8's 404 table entry.
func (c *Controller) OnMediaLoadError(ctx context.Context, item models.Item) (*models.Item, error) {
	if c.resolver != nil {
		if url, err := c.resolver.Resolve(ctx, item.ID); err == nil {
			c.hist.updateResolvedURL(item.ID, url)
			item.ResolvedURL = url
			return &item, nil
		}
	}
	c.Exclude(item, exclusion.ReasonMissing)
	return c.Advance(ctx)
}

// OnFilterChange implements the filter-reload side effect of spec §4.7
// as far as the Controller goes: it bumps the epoch so any in-flight advance
// result is discarded, drops cached preload URLs, clears history (which also
// resets the current item), and publishes a QueueStats event. It does not
// clear or re-query the provider's queue: no provider takes new filter
// values after construction, so items already queued are still served by
// the next Advance.
func (c *Controller) OnFilterChange() {
	c.mu.Lock()
	c.epoch++
	c.preloaded = make(map[string]string)
	c.mu.Unlock()
	c.hist.clear()

	if c.b != nil {
		c.b.PublishStats(bus.QueueStats{SessionID: c.sessionID, TimestampUnix: time.Now().Unix()})
	}
}

// Preload eagerly resolves the URL of the next queued item without
// consuming it (spec §4.8 "Preload"). It is best-effort: providers that do
// not support peeking are silently skipped.
func (c *Controller) Preload(ctx context.Context) {
	pv, ok := c.provider.(previewer)
	if !ok {
		return
	}

	if ls, ok := c.provider.(loopSuppressor); ok {
		ls.SetDisableAutoLoop(true)
		defer ls.SetDisableAutoLoop(false)
	}

	item, err := pv.PeekNext(ctx)
	if err != nil || item == nil {
		return
	}
	if c.resolver == nil {
		return
	}
	url, err := c.resolver.Resolve(ctx, item.ID)
	if err != nil {
		logging.Warn().Str("item", item.ID).Err(err).Msg("preload resolve failed, will re-resolve on advance")
		return
	}

	c.mu.Lock()
	c.preloaded[item.ID] = url
	c.mu.Unlock()
}

// Dispose releases the auto-advance timer.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.provider.Dispose()
}

func (c *Controller) onManualNavigation() {
	switch c.cfg.AutoAdvanceMode {
	case config.AutoAdvanceReset:
		c.mu.Lock()
		if !c.isPaused && !c.isHidden {
			c.startTimerLocked(c.cfg.AutoAdvanceInterval)
		}
		c.mu.Unlock()
	case config.AutoAdvancePause:
		c.mu.Lock()
		c.stopTimerLocked()
		c.mu.Unlock()
	case config.AutoAdvanceContinue:
		// Manual navigation does not affect the timer.
	}
}

func (c *Controller) startTimerLocked(d time.Duration) {
	c.stopTimerLocked()
	if d <= 0 {
		return
	}
	c.timerRemaining = d
	c.timerStartedAt = timeNow()
	c.timer = time.AfterFunc(d, c.onAutoAdvanceTick)
}

func (c *Controller) stopTimerLocked() {
	if c.timer == nil {
		return
	}
	if !c.timer.Stop() {
		// Tick may already have fired; best effort, no drain needed since
		// onAutoAdvanceTick does not send on a channel.
	}
	if elapsed := timeNow().Sub(c.timerStartedAt); elapsed > 0 && elapsed < c.timerRemaining {
		c.timerRemaining -= elapsed
	}
	c.timer = nil
}

func (c *Controller) onAutoAdvanceTick() {
	c.mu.Lock()
	paused := c.isPaused || c.isHidden
	c.mu.Unlock()
	if paused {
		return
	}

	_, _ = c.Advance(context.Background())

	c.mu.Lock()
	if !c.isPaused && !c.isHidden {
		c.startTimerLocked(c.cfg.AutoAdvanceInterval)
	}
	c.mu.Unlock()
}

func (c *Controller) currentEpoch() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

func (c *Controller) setError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorState = err
}

// LastError returns the error surfaced by the most recent Advance, or nil.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorState
}

// timeNow is a seam for deterministic timer-remaining tests.
var timeNow = time.Now
