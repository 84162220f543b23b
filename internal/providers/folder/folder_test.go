// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package folder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomtom215/mediaqueue/internal/config"
	"github.com/tomtom215/mediaqueue/internal/models"
)

func TestSelectBackendMatchesDiscriminatorTable(t *testing.T) {
	cases := []struct {
		mediaSourceType config.MediaSourceType
		mode            config.FolderMode
		useIndex        bool
		want            Backend
	}{
		{config.MediaSourceSingle, "", false, BackendSingle},
		{config.MediaSourceFolder, config.FolderModeRandom, true, BackendMediaIndexRandom},
		{config.MediaSourceFolder, config.FolderModeRandom, false, BackendSubfolderRandom},
		{config.MediaSourceFolder, config.FolderModeSequential, true, BackendMediaIndexOrdered},
		{config.MediaSourceFolder, config.FolderModeSequential, false, BackendSubfolderOrdered},
	}
	for _, tc := range cases {
		got := SelectBackend(tc.mediaSourceType, tc.mode, tc.useIndex)
		assert.Equal(t, tc.want, got)
	}
}

func TestMergeMetadataPrefersIndexFieldsOverPathDerived(t *testing.T) {
	dst := models.Metadata{Filename: "a.jpg", Folder: "/root"}
	src := models.Metadata{DateTaken: 123, LocationCity: "Portland", IsFavorited: true}

	mergeMetadata(&dst, src)

	assert.Equal(t, "a.jpg", dst.Filename, "path-derived fields survive when the index has no opinion")
	assert.Equal(t, int64(123), dst.DateTaken)
	assert.Equal(t, "Portland", dst.LocationCity)
	assert.True(t, dst.IsFavorited)
}
