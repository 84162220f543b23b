// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package models holds the data shapes shared across providers, the queue,
// and the navigation controller: Item, its Metadata, ContentType, FilterSpec
// and the sequential pagination Cursor.
package models

import "math"

// ContentType classifies the media behind an Item.
type ContentType string

const (
	ContentTypeImage   ContentType = "image"
	ContentTypeVideo   ContentType = "video"
	ContentTypeUnknown ContentType = "unknown"
)

// recognizedExtensions is the closed set of file extensions the engine will
// enqueue; anything else is ignored during filesystem scans (spec §4.3).
var recognizedExtensions = map[string]ContentType{
	"mp4":  ContentTypeVideo,
	"webm": ContentTypeVideo,
	"ogg":  ContentTypeVideo,
	"mov":  ContentTypeVideo,
	"m4v":  ContentTypeVideo,
	"jpg":  ContentTypeImage,
	"jpeg": ContentTypeImage,
	"png":  ContentTypeImage,
	"gif":  ContentTypeImage,
	"webp": ContentTypeImage,
	"svg":  ContentTypeImage,
	"bmp":  ContentTypeImage,
}

// ContentTypeForExtension returns the ContentType for a lowercase, dot-free
// file extension and whether the extension is recognized at all. An
// unrecognized extension must be skipped by scanners, not enqueued as
// ContentTypeUnknown.
func ContentTypeForExtension(ext string) (ContentType, bool) {
	ct, ok := recognizedExtensions[ext]
	return ct, ok
}

// Metadata carries the recognized optional fields for an Item (spec §3).
// Zero values mean "absent", which is itself significant (e.g. an absent
// DateTaken means the item falls back to ModifiedTime for sequential sort).
type Metadata struct {
	Filename       string
	Folder         string
	Path           string
	MediaSourceURI string

	DateTaken    int64 // unix seconds, 0 = absent
	CreatedTime  int64
	ModifiedTime int64

	LocationCity    string
	LocationState   string
	LocationCountry string
	LocationName    string
	Latitude        float64
	Longitude       float64
	HasCoordinates  bool
	IsGeocoded      bool

	IsFavorited bool
	Rating      float64
}

// Item is the unit of delivery handed from a provider to the navigation
// controller. ID is the stable identifier used for deduplication, exclusion
// and history membership (spec §3 invariant: equal ID => same item).
type Item struct {
	ID          string
	ContentType ContentType
	ResolvedURL string
	Metadata    Metadata
}

// SortValue resolves the value used for sequential ordering under orderBy,
// applying the dateTaken fallback chain from spec §4.4: DateTaken ->
// ModifiedTime -> CreatedTime -> missing. A fully-missing value sorts to the
// tail regardless of dir (spec §8: "Direction=asc with missing dateTaken:
// such items appear after all dated items"), which means the sentinel is
// MaxInt64 in ascending order and MinInt64 in descending order.
func (it Item) SortValue(orderBy string, dir OrderDirection) int64 {
	missing := func() int64 {
		if dir == OrderAsc {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	switch orderBy {
	case "dateTaken":
		if it.Metadata.DateTaken != 0 {
			return it.Metadata.DateTaken
		}
		if it.Metadata.ModifiedTime != 0 {
			return it.Metadata.ModifiedTime
		}
		if it.Metadata.CreatedTime != 0 {
			return it.Metadata.CreatedTime
		}
		return missing()
	case "modifiedTime":
		if it.Metadata.ModifiedTime != 0 {
			return it.Metadata.ModifiedTime
		}
		return missing()
	default:
		return missing()
	}
}

// SortKey resolves the value used for sequential ordering when orderBy names
// a string field (filename or path).
func (it Item) SortKey(orderBy string) string {
	switch orderBy {
	case "filename":
		return it.Metadata.Filename
	case "path":
		return it.Metadata.Path
	default:
		return ""
	}
}
