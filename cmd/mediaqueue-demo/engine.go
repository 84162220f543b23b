// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/mediaqueue/internal/bus"
	"github.com/tomtom215/mediaqueue/internal/config"
	"github.com/tomtom215/mediaqueue/internal/exclusion"
	"github.com/tomtom215/mediaqueue/internal/ids"
	"github.com/tomtom215/mediaqueue/internal/navigation"
	"github.com/tomtom215/mediaqueue/internal/providers/folder"
	"github.com/tomtom215/mediaqueue/internal/providers/subfolder"
)

// engine bundles the wired-up components a demo command drives: the
// composed FolderProvider and the NavigationController sitting in front of
// it. Nothing here is specific to cobra; buildEngine is the CLI's one
// wiring point, mirroring how a real host dashboard would assemble one
// engine per media card.
type engine struct {
	ctrl *navigation.Controller
}

// buildEngine wires a FolderProvider and NavigationController from cfg
// against the in-process fakeSource, and runs Initialize. Only the
// filesystem-discovery backends (SubfolderQueue) are reachable from the
// demo, since the indexing backend in spec §6.1 has no in-process
// counterpart; MediaSourceType=single is also supported for a quick
// smoke test.
func buildEngine(ctx context.Context, cfg *config.Config) (*engine, error) {
	src := newFakeSource()
	b := bus.New()
	excl := exclusion.New(ids.NormalizeForExclusion)

	params := folder.Params{
		MediaSourceType:      cfg.MediaSourceType,
		Mode:                 cfg.Folder.Mode,
		UseIndexForDiscovery: false, // the demo has no indexing backend to query
		Client:               src,
		Bus:                  b,
		Excl:                 excl,

		SinglePath: cfg.Folder.Path,

		SubfolderConfig: subfolder.Config{
			RootPath:             rootContentID,
			Recursive:            cfg.Folder.Recursive,
			ScanDepth:            cfg.Folder.ScanDepth,
			EstimatedTotalPhotos: src.fileCount(),
			Mode:                 subfolderModeFor(cfg.Folder.Mode),
			Capacity:             50,
			ScanRatePerSecond:    cfg.Folder.ScanRatePerSecond,
		},

		QueueCapacity:   50,
		RefillThreshold: 2,
	}
	fp := folder.New(params)

	ctrl := navigation.New(fp, excl, src, b, navigation.Config{
		HistorySize:         cfg.HistorySize,
		AutoAdvanceInterval: cfg.AutoAdvanceInterval(),
		AutoAdvanceMode:     cfg.AutoAdvanceMode,
		PauseOnInteraction:  cfg.PauseOnInteraction,
	})

	ok, err := ctrl.Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing provider: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("provider reported no items available")
	}
	return &engine{ctrl: ctrl}, nil
}

func subfolderModeFor(mode config.FolderMode) subfolder.Mode {
	if mode == config.FolderModeSequential {
		return subfolder.ModeSequential
	}
	return subfolder.ModeRandom
}
