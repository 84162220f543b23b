// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvTransformFuncMapsDoubleUnderscoreToDottedPath(t *testing.T) {
	assert.Equal(t, "folder.path", envTransformFunc("MEDIAQUEUE_FOLDER__PATH"))
	assert.Equal(t, "mediasourcetype", envTransformFunc("MEDIAQUEUE_MEDIASOURCETYPE"))
	assert.Equal(t, "folder.sequential.orderby", envTransformFunc("MEDIAQUEUE_FOLDER__SEQUENTIAL__ORDERBY"))
}

func TestValidateRejectsUnrecognizedMediaSourceType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MediaSourceType = "bogus"
	cfg.Folder.Path = "/photos"
	assert.ErrorIs(t, cfg.Validate(), errUnrecognizedMediaSourceType)
}

func TestValidateRequiresFolderPath(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, cfg.Validate(), errMissingFolderPath)
}

func TestValidateRejectsBadSequentialOrderBy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Folder.Path = "/photos"
	cfg.Folder.Mode = FolderModeSequential
	cfg.Folder.Sequential.OrderBy = "sideways"
	assert.ErrorIs(t, cfg.Validate(), errUnrecognizedOrderBy)
}

func TestValidateAcceptsDefaultsOnceFolderPathIsSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Folder.Path = "/photos"
	assert.NoError(t, cfg.Validate())
}

func TestLoadLayersFileThenEnvOverDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mediaqueue.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("folder:\n  path: /mnt/photos\n  mode: sequential\nhistorySize: 10\n"), 0o644))

	t.Setenv(ConfigPathEnvVar, cfgPath)
	t.Setenv("MEDIAQUEUE_HISTORYSIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/mnt/photos", cfg.Folder.Path)
	assert.Equal(t, FolderModeSequential, cfg.Folder.Mode)
	assert.Equal(t, 25, cfg.HistorySize, "environment variable must take precedence over the file")
}
