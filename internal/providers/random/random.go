// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package random implements MediaIndexRandom (spec §4.5): a database-backed
// random provider with novelty-biased priority sampling, exhaustion
// detection, and queue-stats emission.
package random

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/mediaqueue/internal/bus"
	"github.com/tomtom215/mediaqueue/internal/indexquery"
	"github.com/tomtom215/mediaqueue/internal/logging"
	"github.com/tomtom215/mediaqueue/internal/models"
	"github.com/tomtom215/mediaqueue/internal/providers"
	"github.com/tomtom215/mediaqueue/internal/queue"
	"github.com/tomtom215/mediaqueue/internal/transport"
)

// exhaustionThreshold is the number of consecutive high-filter-rate refills
// that latches recentFilesExhausted (spec §4.5 step 6).
const exhaustionThreshold = 2

// highFilterRate is the fraction of rejected-as-duplicate results above
// which a refill counts toward exhaustion, and above which a priority retry
// is attempted (spec §4.5 steps 5-6).
const highFilterRate = 0.8

// Config parameterizes a Provider instance (spec §4.5 query parameters,
// §6.4 recognized folder/mediaIndex options).
type Config struct {
	EntityID                 string
	Folder                   string
	Recursive                bool
	FileType                 string
	FavoritesOnly            *bool
	DateFrom                 string
	DateTo                   string
	PriorityNewFiles         bool
	NewFilesThresholdSeconds int
	BatchSize                int
}

// Provider is MediaIndexRandom.
type Provider struct {
	client transport.Client
	q      *queue.Queue
	bus    *bus.Bus
	cfg    Config
	hist   providers.HistoryView
	excl   providers.ExclusionView

	mu                   sync.Mutex
	consecutiveHighRate  int
	recentFilesExhausted bool
}

var _ providers.Provider = (*Provider)(nil)

// New builds a MediaIndexRandom provider. hist and excl let GetNext honor
// the "never return an item in history or the exclusion registry" invariant
// (spec §8 invariant 1) without the provider importing navigation/exclusion
// concrete types (design note §9).
func New(client transport.Client, q *queue.Queue, b *bus.Bus, cfg Config, hist providers.HistoryView, excl providers.ExclusionView) *Provider {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	return &Provider{client: client, q: q, bus: b, cfg: cfg, hist: hist, excl: excl}
}

// Initialize performs the first refill and distinguishes transport failure
// from an empty result (spec §4.5 "Empty-vs-failure distinction").
func (p *Provider) Initialize(ctx context.Context) (bool, error) {
	if p.cfg.EntityID == "" {
		return false, providers.NewError(providers.KindConfiguration, errMissingEntityID)
	}

	if err := p.refill(ctx); err != nil {
		return false, err
	}

	p.publishStats()

	if p.q.Len() == 0 {
		if p.hasActiveFilters() {
			return false, providers.NewError(providers.KindNoMatching, errNoMatchingItems)
		}
		return false, providers.NewError(providers.KindEmpty, errEmptyCollection)
	}
	return true, nil
}

// GetNext dequeues the next item, triggering a refill first if the queue is
// below threshold.
func (p *Provider) GetNext(ctx context.Context) (*models.Item, error) {
	if p.q.NeedsRefill() {
		if err := p.refill(ctx); err != nil {
			logging.Warn().Err(err).Msg("random provider refill failed, serving from existing queue")
		}
		p.publishStats()
	}
	return p.q.Dequeue(p.excl), nil
}

// PeekNext returns the front queued item without consuming it, refilling
// first if the queue is currently empty (spec §4.8 "Preload").
func (p *Provider) PeekNext(ctx context.Context) (*models.Item, error) {
	if item := p.q.Peek(); item != nil {
		return item, nil
	}
	if err := p.refill(ctx); err != nil {
		return nil, err
	}
	return p.q.Peek(), nil
}

// CheckFileExists has no opinion; existence is validated by the renderer.
func (p *Provider) CheckFileExists(ctx context.Context, item models.Item) (*providers.FileCheckResult, error) {
	return nil, nil
}

// GetFilesNewerThan issues a priority-weighted query for recently added
// files (spec §4.1 discovery hook).
func (p *Provider) GetFilesNewerThan(ctx context.Context, thresholdUnix int64) ([]models.Item, error) {
	params := indexquery.RandomParams{
		Count:                    p.cfg.BatchSize,
		Folder:                   p.cfg.Folder,
		Recursive:                p.cfg.Recursive,
		FileType:                 p.cfg.FileType,
		EntityID:                 p.cfg.EntityID,
		PriorityNewFiles:         true,
		NewFilesThresholdSeconds: int(time.Now().Unix() - thresholdUnix),
	}
	resp, err := p.client.CallService(ctx, transport.ServiceRequest{
		Service: indexquery.ServiceGetRandomItems,
		Params:  params.Build(),
	})
	if err != nil {
		return nil, providers.NewError(providers.KindTransport, err)
	}
	return indexquery.DecodeItems(resp), nil
}

// RescanForNewFiles clears the exhaustion latch and re-draws from scratch.
func (p *Provider) RescanForNewFiles(ctx context.Context, currentID string) (providers.RescanResult, error) {
	previousFirst := ""
	if first := p.q.Peek(); first != nil {
		previousFirst = first.ID
	}

	p.mu.Lock()
	p.recentFilesExhausted = false
	p.consecutiveHighRate = 0
	p.mu.Unlock()

	if err := p.refill(ctx); err != nil {
		return providers.RescanResult{}, err
	}
	p.publishStats()

	newFirst := ""
	if first := p.q.Peek(); first != nil {
		newFirst = first.ID
	}
	return providers.RescanResult{
		QueueChanged:  previousFirst != newFirst,
		PreviousFirst: previousFirst,
		NewFirst:      newFirst,
	}, nil
}

// Dispose is a no-op: MediaIndexRandom holds no bus subscriptions of its
// own (the FilterResolver that drives it owns the state-change
// subscription, spec §5).
func (p *Provider) Dispose() {}

// refill runs one refill cycle (spec §4.5 steps 1-7).
func (p *Provider) refill(ctx context.Context) error {
	p.mu.Lock()
	usePriority := p.cfg.PriorityNewFiles && !p.recentFilesExhausted
	p.mu.Unlock()

	accepted, filterRate, err := p.fetchBatch(ctx, usePriority)
	if err != nil {
		return err
	}

	if filterRate > highFilterRate && usePriority {
		retryAccepted, _, retryErr := p.fetchBatch(ctx, false)
		if retryErr == nil {
			accepted = mergeByID(accepted, retryAccepted)
		}
	}

	p.mu.Lock()
	if filterRate > highFilterRate {
		p.consecutiveHighRate++
		if p.consecutiveHighRate >= exhaustionThreshold {
			p.recentFilesExhausted = true
		}
	} else {
		p.consecutiveHighRate = 0
		p.recentFilesExhausted = false
	}
	p.mu.Unlock()

	for _, item := range accepted {
		p.q.Prepend(item)
	}
	return nil
}

// fetchBatch issues a single batch request and returns the items not
// already present in the queue or history, plus the fraction that were
// filtered out as duplicates (spec §4.5 steps 3-4).
func (p *Provider) fetchBatch(ctx context.Context, usePriority bool) ([]models.Item, float64, error) {
	params := indexquery.RandomParams{
		Count:                    p.cfg.BatchSize,
		Folder:                   p.cfg.Folder,
		Recursive:                p.cfg.Recursive,
		FileType:                 p.cfg.FileType,
		FavoritesOnly:            p.cfg.FavoritesOnly,
		DateFrom:                 p.cfg.DateFrom,
		DateTo:                   p.cfg.DateTo,
		EntityID:                 p.cfg.EntityID,
		PriorityNewFiles:         usePriority,
		NewFilesThresholdSeconds: p.cfg.NewFilesThresholdSeconds,
	}
	resp, err := p.client.CallService(ctx, transport.ServiceRequest{
		Service: indexquery.ServiceGetRandomItems,
		Params:  params.Build(),
	})
	if err != nil {
		return nil, 0, providers.NewError(providers.KindTransport, err)
	}

	batch := indexquery.DecodeItems(resp)
	if len(batch) == 0 {
		return nil, 0, nil
	}

	accepted := make([]models.Item, 0, len(batch))
	rejected := 0
	for _, item := range batch {
		if p.q.Contains(item.ID) || (p.hist != nil && p.hist.HasID(item.ID)) {
			rejected++
			continue
		}
		accepted = append(accepted, item)
	}

	return accepted, float64(rejected) / float64(len(batch)), nil
}

func (p *Provider) hasActiveFilters() bool {
	return len(p.activeFilterNames()) > 0
}

func (p *Provider) activeFilterNames() []string {
	var active []string
	if p.cfg.FavoritesOnly != nil && *p.cfg.FavoritesOnly {
		active = append(active, "favorites")
	}
	if p.cfg.DateFrom != "" || p.cfg.DateTo != "" {
		active = append(active, "dateRange")
	}
	return active
}

// publishStats emits the queue-stats event (spec §4.5 "on initialization,
// refill, and filter reload").
func (p *Provider) publishStats() {
	if p.bus == nil {
		return
	}
	p.bus.PublishStats(bus.QueueStats{
		QueueSize:     p.q.Len(),
		QueueCapacity: p.q.Capacity(),
		ActiveFilters: p.activeFilterNames(),
		FilterConfig: map[string]string{
			"dateFrom": p.cfg.DateFrom,
			"dateTo":   p.cfg.DateTo,
		},
		TimestampUnix: time.Now().Unix(),
	})
}

func mergeByID(a, b []models.Item) []models.Item {
	seen := make(map[string]struct{}, len(a))
	for _, item := range a {
		seen[item.ID] = struct{}{}
	}
	out := append([]models.Item{}, a...)
	for _, item := range b {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

var (
	errMissingEntityID = configErr("mediaIndex.entityId is required for a database-backed random provider")
	errNoMatchingItems = configErr("filters excluded every item in the index")
	errEmptyCollection = configErr("index returned no items")
)

type configErr string

func (e configErr) Error() string { return string(e) }
