// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package sequential implements MediaIndexSequential (spec §4.4): a
// database-ordered provider with compound-cursor pagination, client-side
// re-sort stabilization for dateTaken, batch accumulation, and end-of-
// sequence looping.
package sequential

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/tomtom215/mediaqueue/internal/indexquery"
	"github.com/tomtom215/mediaqueue/internal/models"
	"github.com/tomtom215/mediaqueue/internal/providers"
	"github.com/tomtom215/mediaqueue/internal/queue"
	"github.com/tomtom215/mediaqueue/internal/transport"
)

// Config parameterizes a Provider instance (spec §4.4 pagination protocol,
// §6.4 recognized folder.sequential options).
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
	OrderBy                  models.OrderBy
	OrderDirection           models.OrderDirection
	BatchSize                int
	QueueSize                int
}

// Provider is MediaIndexSequential.
type Provider struct {
	client transport.Client
	q      *queue.Queue
	cfg    Config
	excl   providers.ExclusionView

	mu              sync.Mutex
	cursor          models.Cursor
	hasMore         bool
	sessionFirstID  string
	disableAutoLoop bool
}

var _ providers.Provider = (*Provider)(nil)

// New builds a MediaIndexSequential provider.
func New(client transport.Client, q *queue.Queue, cfg Config, excl providers.ExclusionView) *Provider {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = q.Capacity()
	}
	return &Provider{client: client, q: q, cfg: cfg, excl: excl, hasMore: true}
}

// SetDisableAutoLoop suppresses the end-of-sequence loop while true, used
// during preload so a spurious end-of-sequence doesn't trigger a full
// reload (spec §4.8 "Preload").
func (p *Provider) SetDisableAutoLoop(disabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disableAutoLoop = disabled
}

// Initialize fetches the first accumulated batch.
func (p *Provider) Initialize(ctx context.Context) (bool, error) {
	if p.cfg.EntityID == "" {
		return false, providers.NewError(providers.KindConfiguration, errMissingEntityID)
	}

	if err := p.accumulate(ctx); err != nil {
		return false, err
	}

	if p.q.Len() == 0 {
		if p.hasActiveFilters() {
			return false, providers.NewError(providers.KindNoMatching, errNoMatchingItems)
		}
		return false, providers.NewError(providers.KindEmpty, errEmptyCollection)
	}

	if first := p.q.Peek(); first != nil {
		p.mu.Lock()
		p.sessionFirstID = first.ID
		p.mu.Unlock()
	}
	return true, nil
}

// GetNext dequeues the next item, accumulating more batches or looping when
// the queue runs dry (spec §4.4 "End of sequence").
func (p *Provider) GetNext(ctx context.Context) (*models.Item, error) {
	if p.q.NeedsRefill() {
		p.mu.Lock()
		hasMore := p.hasMore
		disableLoop := p.disableAutoLoop
		p.mu.Unlock()

		if !hasMore {
			if disableLoop {
				return p.q.Dequeue(p.excl), nil
			}
			if err := p.loop(ctx); err != nil {
				return nil, err
			}
		} else if err := p.accumulate(ctx); err != nil {
			return nil, err
		}
	}
	return p.q.Dequeue(p.excl), nil
}

// PeekNext returns the next queued item without consuming it, accumulating
// a fresh batch first if the queue is empty but more pages remain. It never
// triggers the end-of-sequence loop itself (spec §4.8 "Preload": peeking
// must not cause "a spurious end-of-sequence" reload).
func (p *Provider) PeekNext(ctx context.Context) (*models.Item, error) {
	if item := p.q.Peek(); item != nil {
		return item, nil
	}
	p.mu.Lock()
	hasMore := p.hasMore
	p.mu.Unlock()
	if !hasMore {
		return nil, nil
	}
	if err := p.accumulate(ctx); err != nil {
		return nil, err
	}
	return p.q.Peek(), nil
}

// CheckFileExists has no opinion; existence is validated by the renderer.
func (p *Provider) CheckFileExists(ctx context.Context, item models.Item) (*providers.FileCheckResult, error) {
	return nil, nil
}

// GetFilesNewerThan walks a cursorless query from the newest item until it
// reaches the item that was first at session start (spec §4.4 "Periodic
// new-file detection").
func (p *Provider) GetFilesNewerThan(ctx context.Context, thresholdUnix int64) ([]models.Item, error) {
	p.mu.Lock()
	sessionFirst := p.sessionFirstID
	p.mu.Unlock()

	params := indexquery.OrderedParams{
		RandomParams: indexquery.RandomParams{
			Count:     p.cfg.BatchSize,
			Folder:    p.cfg.Folder,
			Recursive: p.cfg.Recursive,
			FileType:  p.cfg.FileType,
			EntityID:  p.cfg.EntityID,
		},
		OrderBy:        string(p.cfg.OrderBy),
		OrderDirection: string(p.cfg.OrderDirection),
	}
	resp, err := p.client.CallService(ctx, transport.ServiceRequest{
		Service: indexquery.ServiceGetOrderedFiles,
		Params:  params.Build(),
	})
	if err != nil {
		return nil, providers.NewError(providers.KindTransport, err)
	}

	batch := sortBatch(indexquery.DecodeItems(resp), p.cfg.OrderBy, p.cfg.OrderDirection)

	var candidates []models.Item
	for _, item := range batch {
		if item.ID == sessionFirst {
			break
		}
		if item.Metadata.DateTaken != 0 && item.Metadata.DateTaken < thresholdUnix {
			break
		}
		candidates = append(candidates, item)
	}
	return candidates, nil
}

// RescanForNewFiles resets the cursor and re-accumulates from the start.
func (p *Provider) RescanForNewFiles(ctx context.Context, currentID string) (providers.RescanResult, error) {
	previousFirst := ""
	if first := p.q.Peek(); first != nil {
		previousFirst = first.ID
	}

	p.mu.Lock()
	p.cursor = models.ZeroCursor
	p.hasMore = true
	p.mu.Unlock()
	p.q.Clear()

	if err := p.accumulate(ctx); err != nil {
		return providers.RescanResult{}, err
	}

	newFirst := ""
	if first := p.q.Peek(); first != nil {
		newFirst = first.ID
		p.mu.Lock()
		p.sessionFirstID = newFirst
		p.mu.Unlock()
	}
	return providers.RescanResult{
		QueueChanged:  previousFirst != newFirst,
		PreviousFirst: previousFirst,
		NewFirst:      newFirst,
	}, nil
}

// Dispose is a no-op: MediaIndexSequential holds no subscriptions.
func (p *Provider) Dispose() {}

// loop clears the cursor and exclusions and reissues from the start (spec
// §4.4 "End of sequence": "clear cursor, clear exclusions, reissue").
func (p *Provider) loop(ctx context.Context) error {
	p.mu.Lock()
	p.cursor = models.ZeroCursor
	p.hasMore = true
	p.mu.Unlock()

	if flusher, ok := p.excl.(interface{ Flush() }); ok {
		flusher.Flush()
	}
	return p.accumulate(ctx)
}

// accumulate fetches ordered batches until the queue holds QueueSize items,
// hasMore goes false, a final batch adds nothing new, or maxIterations is
// reached (spec §4.4 "Batch accumulation").
func (p *Provider) accumulate(ctx context.Context) error {
	maxIterations := clamp(5, ceilDiv(p.cfg.QueueSize, 10), 20)
	seenPaths := make(map[string]struct{})

	for i := 0; i < maxIterations; i++ {
		p.mu.Lock()
		hasMore := p.hasMore
		cursor := p.cursor
		p.mu.Unlock()
		if !hasMore {
			break
		}

		batch, nextCursor, gotHasMore, err := p.fetchOrderedBatch(ctx, cursor)
		if err != nil {
			return err
		}

		p.mu.Lock()
		p.hasMore = gotHasMore
		if nextCursor.IsSet() {
			p.cursor = nextCursor
		}
		p.mu.Unlock()

		added := 0
		for _, item := range batch {
			if _, dup := seenPaths[item.Metadata.Path]; dup {
				continue
			}
			seenPaths[item.Metadata.Path] = struct{}{}
			if p.q.Enqueue(item) {
				added++
			}
		}

		if p.q.Len() >= p.cfg.QueueSize || added == 0 && !gotHasMore {
			break
		}
	}
	return nil
}

// fetchOrderedBatch issues one get_ordered_files request, applies the
// dateTaken stabilization re-sort, and recomputes the cursor from the
// sorted batch's last item (spec §4.4 "Client-side stabilization").
func (p *Provider) fetchOrderedBatch(ctx context.Context, cursor models.Cursor) ([]models.Item, models.Cursor, bool, error) {
	params := indexquery.OrderedParams{
		RandomParams: indexquery.RandomParams{
			Count:                    p.cfg.BatchSize,
			Folder:                   p.cfg.Folder,
			Recursive:                p.cfg.Recursive,
			FileType:                 p.cfg.FileType,
			FavoritesOnly:            p.cfg.FavoritesOnly,
			DateFrom:                 p.cfg.DateFrom,
			DateTo:                   p.cfg.DateTo,
			EntityID:                 p.cfg.EntityID,
			PriorityNewFiles:         p.cfg.PriorityNewFiles,
			NewFilesThresholdSeconds: p.cfg.NewFilesThresholdSeconds,
		},
		OrderBy:        string(p.cfg.OrderBy),
		OrderDirection: string(p.cfg.OrderDirection),
	}
	if cursor.IsSet() {
		if p.cfg.OrderBy.IsNumeric() {
			params.AfterValue = itoa(cursor.NumericValue)
		} else {
			params.AfterValue = cursor.StringValue
		}
		params.AfterID = cursor.ID
	}

	resp, err := p.client.CallService(ctx, transport.ServiceRequest{
		Service: indexquery.ServiceGetOrderedFiles,
		Params:  params.Build(),
	})
	if err != nil {
		return nil, models.ZeroCursor, false, providers.NewError(providers.KindTransport, err)
	}

	batch := indexquery.DecodeItems(resp)
	hasMore := len(batch) >= p.cfg.BatchSize

	sorted := sortBatch(batch, p.cfg.OrderBy, p.cfg.OrderDirection)

	nextCursor := models.ZeroCursor
	if len(sorted) > 0 {
		nextCursor = models.CursorFromItem(p.cfg.OrderBy, sorted[len(sorted)-1], p.cfg.OrderDirection)
	}
	return sorted, nextCursor, hasMore, nil
}

// sortBatch applies the client-side dateTaken fallback-chain re-sort (spec
// §4.4), which is required whenever orderBy is dateTaken because items may
// lack that field. Every orderBy is re-sorted the same way: by its sort key
// (numeric for the time fields, string for filename/path) in the configured
// direction, then by ID ascending to break ties.
func sortBatch(items []models.Item, orderBy models.OrderBy, dir models.OrderDirection) []models.Item {
	out := make([]models.Item, len(items))
	copy(out, items)

	less := func(i, j int) bool {
		if orderBy.IsNumeric() {
			vi, vj := out[i].SortValue(string(orderBy), dir), out[j].SortValue(string(orderBy), dir)
			if vi != vj {
				if dir == models.OrderDesc {
					return vi > vj
				}
				return vi < vj
			}
			return out[i].ID < out[j].ID
		}
		ki, kj := out[i].SortKey(string(orderBy)), out[j].SortKey(string(orderBy))
		if ki != kj {
			if dir == models.OrderDesc {
				return ki > kj
			}
			return ki < kj
		}
		return out[i].ID < out[j].ID
	}
	sort.SliceStable(out, less)
	return out
}

func (p *Provider) hasActiveFilters() bool {
	return (p.cfg.FavoritesOnly != nil && *p.cfg.FavoritesOnly) || p.cfg.DateFrom != "" || p.cfg.DateTo != ""
}

func clamp(lo, v, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

const defaultMinIterations = 5

func ceilDiv(a, b int) int {
	if b == 0 {
		return defaultMinIterations
	}
	return int(math.Ceil(float64(a) / float64(b)))
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

var (
	errMissingEntityID = configErr("mediaIndex.entityId is required for a database-backed sequential provider")
	errNoMatchingItems = configErr("filters excluded every item in the index")
	errEmptyCollection = configErr("index returned no items")
)

type configErr string

func (e configErr) Error() string { return string(e) }
