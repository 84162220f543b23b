// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package single implements SingleMediaProvider (spec §4.2): a degenerate
// provider that holds exactly one Item built from configuration.
package single

import (
	"context"

	"github.com/tomtom215/mediaqueue/internal/ids"
	"github.com/tomtom215/mediaqueue/internal/models"
	"github.com/tomtom215/mediaqueue/internal/providers"
)

// Provider holds exactly one Item. GetNext returns it on the first call and
// nil on every call after. It does not drive time itself; a caller
// configured with refreshSeconds is expected to treat each tick as a
// re-resolve of the same id, not a call to GetNext.
type Provider struct {
	path string
	item models.Item
	done bool
}

var _ providers.Provider = (*Provider)(nil)

// New builds a SingleMediaProvider for the filesystem path or media-source
// URI identified by path. resolvedURL is the (possibly already known)
// playback URL; it may be empty if resolution happens lazily elsewhere.
func New(path, resolvedURL string) *Provider {
	return &Provider{path: path, item: buildItem(path, resolvedURL)}
}

func buildItem(path, resolvedURL string) models.Item {
	filename, folder, ext := ids.MetadataFromPath(path)
	contentType, _ := models.ContentTypeForExtension(ext)

	mediaSourceURI := path
	filesystemPath := ""
	if p, ok := ids.ToFilesystemPath(path); ok {
		filesystemPath = p
	} else {
		mediaSourceURI = ids.ToMediaSourceURI(path)
		filesystemPath = path
	}

	return models.Item{
		ID:          ids.PreferredID(mediaSourceURI, filesystemPath),
		ContentType: contentType,
		ResolvedURL: resolvedURL,
		Metadata: models.Metadata{
			Filename:       filename,
			Folder:         folder,
			Path:           filesystemPath,
			MediaSourceURI: mediaSourceURI,
		},
	}
}

// Initialize always succeeds unless path is empty (configuration error).
func (p *Provider) Initialize(ctx context.Context) (bool, error) {
	if p.path == "" {
		return false, providers.NewError(providers.KindConfiguration, errConfiguredWithoutPath)
	}
	return true, nil
}

// GetNext returns the single configured item exactly once.
func (p *Provider) GetNext(ctx context.Context) (*models.Item, error) {
	if p.done {
		return nil, nil
	}
	p.done = true
	item := p.item
	return &item, nil
}

// PeekNext returns the configured item without marking it consumed, or nil
// if GetNext has already been called (spec §4.8 "Preload").
func (p *Provider) PeekNext(ctx context.Context) (*models.Item, error) {
	if p.done {
		return nil, nil
	}
	item := p.item
	return &item, nil
}

// CheckFileExists has no opinion; the renderer's load-error path is the
// source of truth for a single static item.
func (p *Provider) CheckFileExists(ctx context.Context, item models.Item) (*providers.FileCheckResult, error) {
	return nil, nil
}

// GetFilesNewerThan never yields candidates; there is nothing to discover.
func (p *Provider) GetFilesNewerThan(ctx context.Context, thresholdUnix int64) ([]models.Item, error) {
	return nil, nil
}

// RescanForNewFiles resets the one-shot flag so the next GetNext call
// re-yields the configured item.
func (p *Provider) RescanForNewFiles(ctx context.Context, currentID string) (providers.RescanResult, error) {
	wasDone := p.done
	p.done = false
	if !wasDone {
		return providers.RescanResult{}, nil
	}
	return providers.RescanResult{
		QueueChanged: true,
		NewFirst:     p.item.ID,
	}, nil
}

// Dispose is a no-op: SingleMediaProvider holds no subscriptions.
func (p *Provider) Dispose() {}

var errConfiguredWithoutPath = configurationError("single provider configured without a path")

type configurationError string

func (e configurationError) Error() string { return string(e) }
