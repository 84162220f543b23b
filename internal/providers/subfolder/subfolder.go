// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package subfolder implements SubfolderQueue (spec §4.3): a filesystem-
// hierarchical provider that discovers Items through a per-folder browse
// call with no aggregate counts and no index, using bounded-concurrency
// traversal and Bernoulli sampling.
package subfolder

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/tomtom215/mediaqueue/internal/ids"
	"github.com/tomtom215/mediaqueue/internal/logging"
	"github.com/tomtom215/mediaqueue/internal/models"
	"github.com/tomtom215/mediaqueue/internal/providers"
	"github.com/tomtom215/mediaqueue/internal/queue"
	"github.com/tomtom215/mediaqueue/internal/transport"
)

// reshuffleEvery is N in "every N enqueues re-shuffle the entire queue"
// (spec §4.3 step 4).
const reshuffleEvery = 10

// scanConcurrency bounds parallel per-folder browse calls (spec §4.3 step 2:
// "bounded concurrency configured 2-3").
const scanConcurrency = 3

// defaultEstimatedTotalPhotos caps the Bernoulli sampling probability when
// no estimate is configured.
const defaultEstimatedTotalPhotos = 2000

// maxShownItemsHistory bounds the shown-set (spec §4.3 "Shown-set bound").
const maxShownItemsHistory = 5000

// PriorityFolder is a substring-match weight multiplier entry (spec §4.3
// step 5; design note §9 resolves the substring-vs-prefix ambiguity in
// favor of substring match, first match wins, weights do not compound).
type PriorityFolder struct {
	Pattern string
	Weight  float64
}

// Mode selects whether the scan result is shuffled (random) or preserves
// discovery order (sequential) (spec §4.3 "Sequential use").
type Mode int

const (
	ModeRandom Mode = iota
	ModeSequential
)

// Config parameterizes a Provider instance.
type Config struct {
	RootPath              string
	Recursive             bool
	ScanDepth             *int // nil = unlimited
	EstimatedTotalPhotos  int
	PriorityFolders       []PriorityFolder
	Mode                  Mode
	Capacity              int

	// ScanRatePerSecond caps how many Browse calls the scan issues per
	// second, on top of the fixed scanConcurrency bound (SPEC_FULL §13
	// "rate-limited folder scanning"). Zero leaves the scan unthrottled.
	ScanRatePerSecond float64
}

// Provider is SubfolderQueue.
type Provider struct {
	client  transport.Client
	q       *queue.Queue
	cfg     Config
	excl    providers.ExclusionView
	rand    func() float64
	limiter *rate.Limiter

	mu        sync.Mutex
	shown     []string
	shownSet  map[string]struct{}
	scanCount int // enqueues since last reshuffle; only random mode reshuffles
}

var _ providers.Provider = (*Provider)(nil)

// New builds a SubfolderQueue provider. client.Browse is the only transport
// operation used: this source exposes no aggregate counts and no index
// (spec §4.3 "Purpose").
func New(client transport.Client, q *queue.Queue, cfg Config, excl providers.ExclusionView) *Provider {
	if cfg.EstimatedTotalPhotos <= 0 {
		cfg.EstimatedTotalPhotos = defaultEstimatedTotalPhotos
	}
	var limiter *rate.Limiter
	if cfg.ScanRatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ScanRatePerSecond), scanConcurrency)
	}
	return &Provider{
		client:   client,
		q:        q,
		cfg:      cfg,
		excl:     excl,
		rand:     rand.Float64,
		limiter:  limiter,
		shownSet: make(map[string]struct{}),
	}
}

// Initialize performs the first full scan.
func (p *Provider) Initialize(ctx context.Context) (bool, error) {
	if p.cfg.RootPath == "" {
		return false, providers.NewError(providers.KindConfiguration, errMissingRoot)
	}
	if err := p.scan(ctx); err != nil {
		return false, err
	}
	if p.q.Len() == 0 {
		return false, providers.NewError(providers.KindEmpty, errEmptyCollection)
	}
	return true, nil
}

// GetNext dequeues the next item, re-scanning from the root first if the
// queue has fallen below its refill threshold (spec §4.3 "Refill").
func (p *Provider) GetNext(ctx context.Context) (*models.Item, error) {
	if p.q.NeedsRefill() {
		if err := p.scan(ctx); err != nil {
			logging.Warn().Err(err).Msg("subfolder rescan failed, serving from existing queue")
		}
	}
	item := p.q.Dequeue(p.excl)
	if item != nil {
		p.markShown(item.ID)
	}
	return item, nil
}

// PeekNext returns the front queued item without consuming it, triggering a
// rescan first if the queue is currently empty (spec §4.8 "Preload").
func (p *Provider) PeekNext(ctx context.Context) (*models.Item, error) {
	if item := p.q.Peek(); item != nil {
		return item, nil
	}
	if err := p.scan(ctx); err != nil {
		return nil, err
	}
	return p.q.Peek(), nil
}

// CheckFileExists has no opinion; a 404 from a stale browse listing is
// detected by the renderer.
func (p *Provider) CheckFileExists(ctx context.Context, item models.Item) (*providers.FileCheckResult, error) {
	return nil, nil
}

// GetFilesNewerThan is not meaningful for a browse-only filesystem source
// with no modification-time index; it always returns no candidates.
func (p *Provider) GetFilesNewerThan(ctx context.Context, thresholdUnix int64) ([]models.Item, error) {
	return nil, nil
}

// RescanForNewFiles clears the shown-set and queue, then rescans from root.
func (p *Provider) RescanForNewFiles(ctx context.Context, currentID string) (providers.RescanResult, error) {
	previousFirst := ""
	if first := p.q.Peek(); first != nil {
		previousFirst = first.ID
	}

	p.mu.Lock()
	p.shown = nil
	p.shownSet = make(map[string]struct{})
	p.scanCount = 0
	p.mu.Unlock()
	p.q.Clear()

	if err := p.scan(ctx); err != nil {
		return providers.RescanResult{}, err
	}

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

// Dispose is a no-op: SubfolderQueue holds no subscriptions.
func (p *Provider) Dispose() {}

// scan performs one single-pass hierarchical scan from the root (spec §4.3
// algorithm steps 1-6). A single semaphore and errgroup are shared across
// every recursion level so the configured concurrency bound holds for the
// whole tree, not per-folder.
func (p *Provider) scan(ctx context.Context) error {
	depthLimit := -1
	if p.cfg.ScanDepth != nil {
		depthLimit = *p.cfg.ScanDepth
	}
	if !p.cfg.Recursive {
		depthLimit = 0
	}

	sem := semaphore.NewWeighted(scanConcurrency)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.visit(gctx, sem, g, p.cfg.RootPath, 0, depthLimit)
	})
	return g.Wait()
}

// visit browses one folder, applies Bernoulli sampling to its files, and
// queues its subfolders onto the shared group, bounded by sem across the
// entire scan.
func (p *Provider) visit(ctx context.Context, sem *semaphore.Weighted, g *errgroup.Group, folderID string, depth, depthLimit int) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil
		}
	}
	children, err := p.client.Browse(ctx, folderID)
	if err != nil {
		logging.Warn().Str("folder", folderID).Err(err).Msg("subfolder browse failed, skipping")
		return nil
	}

	weight := p.priorityWeight(folderID)

	for _, child := range children {
		if !child.CanExpand {
			p.maybeEnqueue(child.MediaContentID, child.Title, weight)
		}
	}

	if depthLimit >= 0 && depth >= depthLimit {
		return nil
	}
	if p.q.AtCapacity() {
		return nil
	}

	for _, child := range children {
		if !child.CanExpand {
			continue
		}
		child := child
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			return p.visit(ctx, sem, g, child.MediaContentID, depth+1, depthLimit)
		})
	}
	return nil
}

// maybeEnqueue applies the Bernoulli sample to a single file and enqueues
// it on success (spec §4.3 steps 3-5).
func (p *Provider) maybeEnqueue(mediaContentID, title string, weight float64) {
	contentType, ok := ids.ContentTypeForPath(firstNonEmpty(title, mediaContentID))
	if !ok {
		return
	}

	if p.hasBeenShown(mediaContentID) {
		return
	}

	prob := weight / float64(p.cfg.EstimatedTotalPhotos)
	if prob > 1 {
		prob = 1
	}
	if p.rand() > prob {
		return
	}

	filename, folder, _ := ids.MetadataFromPath(firstNonEmpty(title, mediaContentID))
	item := models.Item{
		ID:          mediaContentID,
		ContentType: contentType,
		Metadata: models.Metadata{
			Filename:       filename,
			Folder:         folder,
			MediaSourceURI: mediaContentID,
		},
	}

	if !p.q.Enqueue(item) {
		return
	}

	p.mu.Lock()
	p.scanCount++
	shouldShuffle := p.cfg.Mode == ModeRandom && p.scanCount >= reshuffleEvery
	if shouldShuffle {
		p.scanCount = 0
	}
	p.mu.Unlock()

	if shouldShuffle {
		p.q.Shuffle(func(n int) int { return int(p.rand() * float64(n)) })
	}
}

// priorityWeight returns the weight multiplier for folderID: first matching
// substring pattern wins (spec §4.3 step 5, design note §9). The resulting
// Bernoulli probability, not the weight itself, is what gets capped at 1 —
// see maybeEnqueue.
func (p *Provider) priorityWeight(folderID string) float64 {
	for _, pf := range p.cfg.PriorityFolders {
		if pf.Pattern != "" && strings.Contains(folderID, pf.Pattern) {
			return pf.Weight
		}
	}
	return 1
}

func (p *Provider) hasBeenShown(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.shownSet[id]
	return ok
}

// markShown records id in the bounded FIFO shown-set (spec §4.3 "Shown-set
// bound").
func (p *Provider) markShown(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.shownSet[id]; ok {
		return
	}
	p.shown = append(p.shown, id)
	p.shownSet[id] = struct{}{}
	if len(p.shown) > maxShownItemsHistory {
		oldest := p.shown[0]
		p.shown = p.shown[1:]
		delete(p.shownSet, oldest)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var (
	errMissingRoot     = configErr("subfolder provider configured without a root path")
	errEmptyCollection = configErr("subfolder scan yielded no recognized media files")
)

type configErr string

func (e configErr) Error() string { return string(e) }
