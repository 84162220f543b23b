// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package exclusion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomtom215/mediaqueue/internal/ids"
)

func TestRegistryContainsBothRawAndNormalizedForms(t *testing.T) {
	r := New(ids.NormalizeForExclusion)

	r.Exclude("media-source://media_source/photos/a%20b.jpg", ReasonMissing)

	assert.True(t, r.Contains("media-source://media_source/photos/a%20b.jpg"))
	assert.True(t, r.Contains("/photos/a b.jpg"), "normalized filesystem form must also match")
	assert.False(t, r.Contains("/photos/other.jpg"))
}

func TestRegistryFlushClearsAll(t *testing.T) {
	r := New(ids.NormalizeForExclusion)
	r.Exclude("/a.jpg", ReasonDeleted)
	assert.True(t, r.Contains("/a.jpg"))

	r.Flush()
	assert.False(t, r.Contains("/a.jpg"))
	assert.Equal(t, 0, r.Len())
}

func TestRegistryWithoutNormalizer(t *testing.T) {
	r := New(nil)
	r.Exclude("x", ReasonEdited)
	assert.True(t, r.Contains("x"))
	assert.False(t, r.Contains("y"))
}
