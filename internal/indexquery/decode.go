// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package indexquery builds request parameters for and decodes responses
// from the backend indexing service's media_index.* services (spec §6.1).
// It sits between the opaque transport.Client and the concrete index-backed
// providers so neither has to know the wire shape of the other.
package indexquery

import (
	"github.com/tomtom215/mediaqueue/internal/ids"
	"github.com/tomtom215/mediaqueue/internal/models"
	"github.com/tomtom215/mediaqueue/internal/transport"
)

// Service names for transport.ServiceRequest.Service (spec §6.1).
const (
	ServiceGetRandomItems  = "media_index.get_random_items"
	ServiceGetOrderedFiles = "media_index.get_ordered_files"
	ServiceGetFileMetadata = "media_index.get_file_metadata"
)

// RandomParams builds the request parameters for get_random_items.
type RandomParams struct {
	Count                    int
	Folder                   string
	Recursive                bool
	FileType                 string // "image", "video", or "" for all
	FavoritesOnly            *bool
	DateFrom                 string
	DateTo                   string
	PriorityNewFiles         bool
	NewFilesThresholdSeconds int
	EntityID                 string
}

// Build renders p as the Params map for a ServiceRequest.
func (p RandomParams) Build() map[string]any {
	m := map[string]any{
		"count":                       p.Count,
		"recursive":                   p.Recursive,
		"priority_new_files":          p.PriorityNewFiles,
		"new_files_threshold_seconds": p.NewFilesThresholdSeconds,
	}
	if p.Folder != "" {
		m["folder"] = p.Folder
	}
	if p.FileType != "" {
		m["file_type"] = p.FileType
	}
	if p.FavoritesOnly != nil {
		m["favorites_only"] = *p.FavoritesOnly
	}
	if p.DateFrom != "" {
		m["date_from"] = p.DateFrom
	}
	if p.DateTo != "" {
		m["date_to"] = p.DateTo
	}
	if p.EntityID != "" {
		m["entity_id"] = p.EntityID
	}
	return m
}

// OrderedParams builds the request parameters for get_ordered_files
// (spec §4.4 pagination protocol).
type OrderedParams struct {
	RandomParams
	OrderBy        string
	OrderDirection string
	AfterValue     string
	AfterID        string
}

// Build renders p as the Params map for a ServiceRequest.
func (p OrderedParams) Build() map[string]any {
	m := p.RandomParams.Build()
	m["order_by"] = p.OrderBy
	m["order_direction"] = p.OrderDirection
	if p.AfterValue != "" {
		m["after_value"] = p.AfterValue
	}
	if p.AfterID != "" {
		m["after_id"] = p.AfterID
	}
	return m
}

// DecodeItems extracts the items[] array from a ServiceResponse and maps
// each entry to a models.Item (spec §6.1 response shape).
func DecodeItems(resp transport.ServiceResponse) []models.Item {
	raw, ok := resp["items"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}

	items := make([]models.Item, 0, len(list))
	for _, entry := range list {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, decodeItem(fields))
	}
	return items
}

func decodeItem(fields map[string]any) models.Item {
	path := str(fields["path"])
	mediaSourceURI := str(fields["media_source_uri"])
	filename := str(fields["filename"])
	if filename == "" && path != "" {
		filename, _, _ = ids.MetadataFromPath(path)
	}
	contentType := models.ContentTypeUnknown
	if ct, ok := ids.ContentTypeForPath(firstNonEmpty(path, mediaSourceURI)); ok {
		contentType = ct
	}

	return models.Item{
		ID:          ids.PreferredID(mediaSourceURI, path),
		ContentType: contentType,
		Metadata: models.Metadata{
			Filename:        filename,
			Path:            path,
			MediaSourceURI:  mediaSourceURI,
			DateTaken:       timeLike(fields["date_taken"]),
			CreatedTime:     timeLike(fields["created_time"]),
			ModifiedTime:    timeLike(fields["modified_time"]),
			LocationCity:    str(fields["location_city"]),
			LocationState:   str(fields["location_state"]),
			LocationCountry: str(fields["location_country"]),
			LocationName:    str(fields["location_name"]),
			Latitude:        number(fields["latitude"]),
			Longitude:       number(fields["longitude"]),
			HasCoordinates:  boolean(fields["has_coordinates"]),
			IsGeocoded:      boolean(fields["is_geocoded"]),
			IsFavorited:     boolean(fields["is_favorited"]),
			Rating:          number(fields["rating"]),
		},
	}
}

func timeLike(v any) int64 {
	if v == nil {
		return 0
	}
	unix, ok := models.NormalizeTimeLike(v)
	if !ok {
		return 0
	}
	return unix
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func boolean(v any) bool {
	b, _ := v.(bool)
	return b
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
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
