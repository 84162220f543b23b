// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package ids implements MediaIndexHelper: path/URI normalization and
// filename/path metadata extraction (spec §2, §6.2).
package ids

import (
	"net/url"
	"path"
	"strings"

	"github.com/tomtom215/mediaqueue/internal/models"
)

// MediaSourceScheme is the virtual URI scheme for local filesystem content.
const MediaSourceScheme = "media-source://"

// localDomain is the media-source domain used when mapping bare filesystem
// paths (spec §6.2: "Local filesystem paths /... are mapped to
// media-source://media_source/...").
const localDomain = "media_source"

// ToMediaSourceURI maps a bare filesystem path to its media-source URI.
// Paths that are already URIs of any scheme (media-source://, or an
// integration's own scheme) are returned unchanged — integration URIs are
// pass-through and must not be filesystem-mapped (spec §6.2).
func ToMediaSourceURI(p string) string {
	if strings.Contains(p, "://") {
		return p
	}
	trimmed := strings.TrimPrefix(p, "/")
	return MediaSourceScheme + localDomain + "/" + trimmed
}

// ToFilesystemPath extracts the filesystem path component of a local
// media-source URI. Returns ("", false) for non-local (integration) URIs.
func ToFilesystemPath(uri string) (string, bool) {
	if !strings.HasPrefix(uri, MediaSourceScheme+localDomain+"/") {
		return "", false
	}
	return "/" + strings.TrimPrefix(uri, MediaSourceScheme+localDomain+"/"), true
}

// PreferredID returns the stable identifier for an item: the media-source
// URI when known, falling back to the filesystem path (spec §3: "id:
// stable identifier — preferred form is the media-source URI; filesystem
// path is the fallback").
func PreferredID(mediaSourceURI, filesystemPath string) string {
	if mediaSourceURI != "" {
		return mediaSourceURI
	}
	return ToMediaSourceURI(filesystemPath)
}

// MetadataFromPath derives the filename/folder/extension conventions from a
// path or URI, used when a provider has no richer index metadata to enrich
// an item with (spec §4.6: "path-derived metadata is used as fallback").
func MetadataFromPath(p string) (filename, folder, ext string) {
	clean := p
	if fsPath, ok := ToFilesystemPath(p); ok {
		clean = fsPath
	} else if u, err := url.Parse(p); err == nil && u.Path != "" {
		clean = u.Path
	}

	filename = path.Base(clean)
	folder = path.Dir(clean)
	ext = strings.TrimPrefix(path.Ext(filename), ".")
	return filename, folder, strings.ToLower(ext)
}

// ContentTypeForPath resolves the ContentType for a path/URI from its
// extension, and whether the extension is recognized at all. An
// unrecognized extension means the caller should skip the file entirely
// (spec §4.3).
func ContentTypeForPath(p string) (models.ContentType, bool) {
	_, _, ext := MetadataFromPath(p)
	return models.ContentTypeForExtension(ext)
}

// NormalizeForExclusion produces the canonical form of an id used for
// ExclusionRegistry lookups: URI-decoded, with the media-source scheme
// prefix stripped (spec §3: "Normalization: URI-decode; strip media-source
// scheme prefix").
func NormalizeForExclusion(id string) string {
	decoded, err := url.QueryUnescape(id)
	if err != nil {
		decoded = id
	}
	if fsPath, ok := ToFilesystemPath(decoded); ok {
		return fsPath
	}
	return strings.TrimPrefix(decoded, MediaSourceScheme)
}
