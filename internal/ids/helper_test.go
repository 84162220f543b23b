// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMediaSourceURI(t *testing.T) {
	assert.Equal(t, "media-source://media_source/photos/a.jpg", ToMediaSourceURI("/photos/a.jpg"))

	// integration URIs pass through unchanged
	assert.Equal(t, "media-source://camera/front-door/clip1", ToMediaSourceURI("media-source://camera/front-door/clip1"))
}

func TestToFilesystemPath(t *testing.T) {
	p, ok := ToFilesystemPath("media-source://media_source/photos/a.jpg")
	assert.True(t, ok)
	assert.Equal(t, "/photos/a.jpg", p)

	_, ok = ToFilesystemPath("media-source://camera/front-door/clip1")
	assert.False(t, ok, "integration URIs are not filesystem paths")
}

func TestPreferredID(t *testing.T) {
	assert.Equal(t, "media-source://camera/clip1", PreferredID("media-source://camera/clip1", "/ignored"))
	assert.Equal(t, "media-source://media_source/photos/a.jpg", PreferredID("", "/photos/a.jpg"))
}

func TestMetadataFromPath(t *testing.T) {
	filename, folder, ext := MetadataFromPath("/photos/2024/beach.JPG")
	assert.Equal(t, "beach.JPG", filename)
	assert.Equal(t, "/photos/2024", folder)
	assert.Equal(t, "jpg", ext)
}

func TestContentTypeForPathRejectsUnknownExtensions(t *testing.T) {
	_, ok := ContentTypeForPath("/docs/readme.txt")
	assert.False(t, ok)

	ct, ok := ContentTypeForPath("/photos/a.png")
	assert.True(t, ok)
	assert.Equal(t, "image", string(ct))
}

func TestNormalizeForExclusionStripsSchemeAndDecodes(t *testing.T) {
	assert.Equal(t, "/photos/a b.jpg", NormalizeForExclusion("media-source://media_source/photos/a%20b.jpg"))
	assert.Equal(t, "camera/clip1", NormalizeForExclusion("media-source://camera/clip1"))
}
