// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package folder implements FolderProvider (spec §4.6): the composer that
// selects a concrete provider from configuration and, when discovery and
// metadata enrichment use different sources, enriches delivered items.
package folder

import (
	"context"

	"github.com/tomtom215/mediaqueue/internal/bus"
	"github.com/tomtom215/mediaqueue/internal/config"
	"github.com/tomtom215/mediaqueue/internal/ids"
	"github.com/tomtom215/mediaqueue/internal/indexquery"
	"github.com/tomtom215/mediaqueue/internal/logging"
	"github.com/tomtom215/mediaqueue/internal/models"
	"github.com/tomtom215/mediaqueue/internal/providers"
	"github.com/tomtom215/mediaqueue/internal/providers/random"
	"github.com/tomtom215/mediaqueue/internal/providers/sequential"
	"github.com/tomtom215/mediaqueue/internal/providers/single"
	"github.com/tomtom215/mediaqueue/internal/providers/subfolder"
	"github.com/tomtom215/mediaqueue/internal/queue"
	"github.com/tomtom215/mediaqueue/internal/transport"
)

// Backend names the concrete provider selected by the mode/discovery table
// in spec §4.6.
type Backend string

const (
	BackendSingle            Backend = "single"
	BackendMediaIndexRandom  Backend = "media_index_random"
	BackendSubfolderRandom   Backend = "subfolder_random"
	BackendMediaIndexOrdered Backend = "media_index_ordered"
	BackendSubfolderOrdered  Backend = "subfolder_ordered"
)

// SelectBackend implements the discriminator table of spec §4.6.
func SelectBackend(mediaSourceType config.MediaSourceType, mode config.FolderMode, useIndexForDiscovery bool) Backend {
	if mediaSourceType == config.MediaSourceSingle {
		return BackendSingle
	}
	switch mode {
	case config.FolderModeSequential:
		if useIndexForDiscovery {
			return BackendMediaIndexOrdered
		}
		return BackendSubfolderOrdered
	default:
		if useIndexForDiscovery {
			return BackendMediaIndexRandom
		}
		return BackendSubfolderRandom
	}
}

// Provider is FolderProvider: it owns exactly one concrete provider and,
// when enrichment is needed, an index client to look up metadata by
// mediaSourceUri (spec §4.6).
type Provider struct {
	backend Backend
	inner   providers.Provider

	enrichClient transport.Client
	enrichEntity string
	needsEnrich  bool
}

var _ providers.Provider = (*Provider)(nil)

// Params bundles everything needed to construct every possible concrete
// provider; New only uses the fields relevant to the selected Backend.
type Params struct {
	MediaSourceType      config.MediaSourceType
	Mode                 config.FolderMode
	UseIndexForDiscovery bool

	Client transport.Client
	Bus    *bus.Bus
	Hist   providers.HistoryView
	Excl   providers.ExclusionView

	SinglePath        string
	SingleResolvedURL string

	RandomConfig     random.Config
	SequentialConfig sequential.Config
	SubfolderConfig  subfolder.Config

	QueueCapacity   int
	RefillThreshold int

	// EnrichEntityID, when non-empty and the discovery backend is
	// filesystem-based, causes every delivered item to be enriched with
	// index metadata keyed by mediaSourceUri (spec §4.6).
	EnrichEntityID string
}

// New builds a FolderProvider, selecting and constructing its concrete
// provider per the discriminator table.
func New(p Params) *Provider {
	backend := SelectBackend(p.MediaSourceType, p.Mode, p.UseIndexForDiscovery)

	fp := &Provider{backend: backend}

	switch backend {
	case BackendSingle:
		fp.inner = single.New(p.SinglePath, p.SingleResolvedURL)
	case BackendMediaIndexRandom:
		q := queue.New(p.QueueCapacity, p.RefillThreshold)
		fp.inner = random.New(p.Client, q, p.Bus, p.RandomConfig, p.Hist, p.Excl)
	case BackendSubfolderRandom:
		q := queue.New(p.QueueCapacity, p.RefillThreshold)
		cfg := p.SubfolderConfig
		cfg.Mode = subfolder.ModeRandom
		fp.inner = subfolder.New(p.Client, q, cfg, p.Excl)
		fp.configureEnrichment(p)
	case BackendMediaIndexOrdered:
		q := queue.New(p.QueueCapacity, p.RefillThreshold)
		fp.inner = sequential.New(p.Client, q, p.SequentialConfig, p.Excl)
	case BackendSubfolderOrdered:
		q := queue.New(p.QueueCapacity, p.RefillThreshold)
		cfg := p.SubfolderConfig
		cfg.Mode = subfolder.ModeSequential
		fp.inner = subfolder.New(p.Client, q, cfg, p.Excl)
		fp.configureEnrichment(p)
	}

	return fp
}

func (fp *Provider) configureEnrichment(p Params) {
	if p.EnrichEntityID == "" {
		return
	}
	fp.needsEnrich = true
	fp.enrichClient = p.Client
	fp.enrichEntity = p.EnrichEntityID
}

// Backend reports which concrete provider this instance selected.
func (fp *Provider) Backend() Backend { return fp.backend }

func (fp *Provider) Initialize(ctx context.Context) (bool, error) {
	return fp.inner.Initialize(ctx)
}

// GetNext delegates to the concrete provider and, when discovery used the
// filesystem but an index is configured, enriches the result (spec §4.6).
func (fp *Provider) GetNext(ctx context.Context) (*models.Item, error) {
	item, err := fp.inner.GetNext(ctx)
	if err != nil || item == nil {
		return item, err
	}
	if fp.needsEnrich {
		fp.enrich(ctx, item)
	}
	return item, nil
}

func (fp *Provider) CheckFileExists(ctx context.Context, item models.Item) (*providers.FileCheckResult, error) {
	return fp.inner.CheckFileExists(ctx, item)
}

func (fp *Provider) GetFilesNewerThan(ctx context.Context, thresholdUnix int64) ([]models.Item, error) {
	return fp.inner.GetFilesNewerThan(ctx, thresholdUnix)
}

func (fp *Provider) RescanForNewFiles(ctx context.Context, currentID string) (providers.RescanResult, error) {
	return fp.inner.RescanForNewFiles(ctx, currentID)
}

func (fp *Provider) Dispose() {
	fp.inner.Dispose()
}

// enrich looks up item's metadata by mediaSourceUri and overlays any
// fields the index knows about. Enrichment failures are non-fatal: the
// path-derived metadata the filesystem scan already populated is kept
// (spec §4.6 "Enrichment failures are non-fatal").
func (fp *Provider) enrich(ctx context.Context, item *models.Item) {
	mediaSourceURI := item.Metadata.MediaSourceURI
	if mediaSourceURI == "" {
		mediaSourceURI = ids.ToMediaSourceURI(item.ID)
	}

	resp, err := fp.enrichClient.CallService(ctx, transport.ServiceRequest{
		Service: indexquery.ServiceGetFileMetadata,
		Params: map[string]any{
			"media_source_uri": mediaSourceURI,
			"entity_id":        fp.enrichEntity,
		},
	})
	if err != nil {
		logging.Warn().Str("item", item.ID).Err(err).Msg("index metadata enrichment failed, using path-derived metadata")
		return
	}

	enriched := indexquery.DecodeItems(transport.ServiceResponse{
		"items": []any{resp},
	})
	if len(enriched) == 0 {
		return
	}
	mergeMetadata(&item.Metadata, enriched[0].Metadata)
}

// mergeMetadata overlays non-zero fields from src onto dst, preserving
// whatever path-derived fallback dst already had.
func mergeMetadata(dst *models.Metadata, src models.Metadata) {
	if src.DateTaken != 0 {
		dst.DateTaken = src.DateTaken
	}
	if src.CreatedTime != 0 {
		dst.CreatedTime = src.CreatedTime
	}
	if src.ModifiedTime != 0 {
		dst.ModifiedTime = src.ModifiedTime
	}
	if src.LocationCity != "" {
		dst.LocationCity = src.LocationCity
	}
	if src.LocationState != "" {
		dst.LocationState = src.LocationState
	}
	if src.LocationCountry != "" {
		dst.LocationCountry = src.LocationCountry
	}
	if src.LocationName != "" {
		dst.LocationName = src.LocationName
	}
	if src.HasCoordinates {
		dst.Latitude = src.Latitude
		dst.Longitude = src.Longitude
		dst.HasCoordinates = true
	}
	if src.IsGeocoded {
		dst.IsGeocoded = true
	}
	if src.IsFavorited {
		dst.IsFavorited = true
	}
	if src.Rating != 0 {
		dst.Rating = src.Rating
	}
}
