// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package config holds the recognized configuration options for the media
// queue engine (spec §6.4). Unrecognized keys are ignored by koanf's
// default unmarshal behavior.
package config

import "time"

// MediaSourceType selects between a single static item and a folder-backed
// stream.
type MediaSourceType string

const (
	MediaSourceSingle MediaSourceType = "single"
	MediaSourceFolder MediaSourceType = "folder"
)

// MediaType filters which content types a provider yields.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeAll   MediaType = "all"
)

// FolderMode selects random or sequential traversal.
type FolderMode string

const (
	FolderModeRandom     FolderMode = "random"
	FolderModeSequential FolderMode = "sequential"
)

// AutoAdvanceMode controls how manual navigation affects the auto-advance
// timer (spec §4.8).
type AutoAdvanceMode string

const (
	AutoAdvanceReset    AutoAdvanceMode = "reset"
	AutoAdvancePause    AutoAdvanceMode = "pause"
	AutoAdvanceContinue AutoAdvanceMode = "continue"
)

// OrderDirection is the sequential traversal direction.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// PriorityFolder is one entry of folder.priorityFolders[] (spec §4.3 step 5).
type PriorityFolder struct {
	Pattern string  `koanf:"pattern"`
	Weight  float64 `koanf:"weight"`
}

// FolderSequentialConfig configures sequential-order pagination (spec §4.4).
type FolderSequentialConfig struct {
	OrderBy        string         `koanf:"orderBy"`
	OrderDirection OrderDirection `koanf:"orderDirection"`
}

// FolderConfig configures the folder-backed provider (spec §6.4).
type FolderConfig struct {
	Path                      string                 `koanf:"path"`
	Mode                      FolderMode             `koanf:"mode"`
	Recursive                 bool                   `koanf:"recursive"`
	ScanDepth                 *int                   `koanf:"scanDepth"` // nil = unlimited
	UseMediaIndexForDiscovery bool                   `koanf:"useMediaIndexForDiscovery"`
	PriorityNewFiles          bool                   `koanf:"priorityNewFiles"`
	NewFilesThresholdSeconds  int                    `koanf:"newFilesThresholdSeconds"`
	EstimatedTotalPhotos      int                    `koanf:"estimatedTotalPhotos"`
	PriorityFolders           []PriorityFolder       `koanf:"priorityFolders"`
	Sequential                FolderSequentialConfig `koanf:"sequential"`

	// ScanRatePerSecond caps SubfolderQueue's Browse call rate during a scan
	// (SPEC_FULL §13 "rate-limited folder scanning"); zero leaves it
	// unthrottled. Not part of spec.md's recognized-options list.
	ScanRatePerSecond float64 `koanf:"scanRatePerSecond"`
}

// MediaIndexConfig identifies the backend indexing service instance.
type MediaIndexConfig struct {
	EntityID string `koanf:"entityId"`
}

// DateRangeConfig is a filter slot that may be a literal value or an entity
// reference string (spec §3 "Filter spec").
type DateRangeConfig struct {
	Start string `koanf:"start"`
	End   string `koanf:"end"`
}

// FiltersConfig is the recognized filter configuration (spec §6.4).
type FiltersConfig struct {
	Favorites string          `koanf:"favorites"` // "true"/"false" or entity ref
	DateRange DateRangeConfig `koanf:"dateRange"`
}

// Config is the full recognized configuration mapping (spec §6.4).
type Config struct {
	MediaSourceType MediaSourceType  `koanf:"mediaSourceType"`
	MediaType       MediaType        `koanf:"mediaType"`
	Folder          FolderConfig     `koanf:"folder"`
	MediaIndex      MediaIndexConfig `koanf:"mediaIndex"`
	Filters         FiltersConfig    `koanf:"filters"`

	SlideshowWindow    int             `koanf:"slideshowWindow"`
	AutoAdvanceSeconds int             `koanf:"autoAdvanceSeconds"`
	AutoAdvanceMode    AutoAdvanceMode `koanf:"autoAdvanceMode"`
	PauseOnInteraction bool            `koanf:"pauseOnInteraction"`
	HistorySize        int             `koanf:"historySize"`
}

// DefaultConfig returns the spec-mandated defaults (spec §3: slideshowWindow
// default 100; refillThreshold is a constant, not configurable).
func DefaultConfig() *Config {
	return &Config{
		MediaSourceType:    MediaSourceFolder,
		MediaType:          MediaTypeAll,
		SlideshowWindow:    100,
		AutoAdvanceSeconds: 0,
		AutoAdvanceMode:    AutoAdvanceReset,
		PauseOnInteraction: true,
		HistorySize:        50,
		Folder: FolderConfig{
			Mode:      FolderModeRandom,
			Recursive: true,
			Sequential: FolderSequentialConfig{
				OrderBy:        "dateTaken",
				OrderDirection: OrderDesc,
			},
		},
	}
}

// AutoAdvanceInterval returns the configured auto-advance interval, or 0 if
// auto-advance is disabled.
func (c *Config) AutoAdvanceInterval() time.Duration {
	if c.AutoAdvanceSeconds <= 0 {
		return 0
	}
	return time.Duration(c.AutoAdvanceSeconds) * time.Second
}

// NewFilesThreshold returns the configured new-file threshold as a Duration.
func (c *Config) NewFilesThreshold() time.Duration {
	return time.Duration(c.Folder.NewFilesThresholdSeconds) * time.Second
}
