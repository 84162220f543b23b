// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order of
// priority; the first one found is used.
var DefaultConfigPaths = []string{
	"mediaqueue.yaml",
	"mediaqueue.yml",
	"/etc/mediaqueue/config.yaml",
}

// ConfigPathEnvVar overrides the search list with a single explicit path.
const ConfigPathEnvVar = "MEDIAQUEUE_CONFIG_PATH"

// envPrefix and envDelim select which environment variables Load reads and
// how their names map to koanf's dotted paths:
// MEDIAQUEUE_FOLDER_PATH -> folder.path, MEDIAQUEUE_MEDIA_SOURCE_TYPE ->
// mediaSourceType is intentionally NOT supported this way since the struct
// tags are camelCase, not snake_case; env overrides instead target the
// leaf keys directly, e.g. MEDIAQUEUE_FOLDER__PATH -> "folder.path".
const envPrefix = "MEDIAQUEUE_"

// Load builds a Config by layering, in increasing order of precedence:
// built-in defaults, an optional YAML file, then environment variables
// (spec §6.4 "recognized options"; unrecognized keys are ignored by
// koanf's unmarshal). It returns an error only for a malformed file or a
// configuration that fails Validate.
func Load() (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// Env keys arrive lowercased (see envTransformFunc); fold the file's
	// keys the same way so an env value replaces the file value for the
	// same option instead of sitting beside it under another casing.
	folded := koanf.New(".")
	for key, val := range k.All() {
		if err := folded.Set(strings.ToLower(key), val); err != nil {
			return nil, fmt.Errorf("normalizing config keys: %w", err)
		}
	}
	k = folded

	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc converts MEDIAQUEUE_FOLDER__PATH into "folder.path": the
// prefix is stripped, the remainder lowercased, and double underscores
// become the koanf path delimiter (a single underscore is left alone so a
// multi-word leaf key like newFilesThresholdSeconds still reads as one path
// segment). koanf's unmarshal matches struct tags case-insensitively, so a
// lowercased "mediasourcetype" still lands on the camelCase
// "mediaSourceType" tag.
func envTransformFunc(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

var (
	errUnrecognizedMediaSourceType = configError("mediaSourceType must be \"single\" or \"folder\"")
	errMissingFolderPath           = configError("folder.path is required for the configured mediaSourceType")
	errUnrecognizedFolderMode      = configError("folder.mode must be \"random\" or \"sequential\"")
	errUnrecognizedMediaType       = configError("mediaType must be \"image\", \"video\", or \"all\"")
	errUnrecognizedAutoAdvanceMode = configError("autoAdvanceMode must be \"reset\", \"pause\", or \"continue\"")
	errUnrecognizedOrderBy         = configError("folder.sequential.orderBy must be dateTaken, filename, path, or modifiedTime")
	errUnrecognizedOrderDirection  = configError("folder.sequential.orderDirection must be \"asc\" or \"desc\"")
	errNonPositiveHistorySize      = configError("historySize must be greater than zero")
)

type configError string

func (e configError) Error() string { return string(e) }

// Validate checks the recognized-option constraints of spec §6.4 that a
// plain koanf unmarshal cannot express (enum membership, cross-field
// requirements).
func (c *Config) Validate() error {
	switch c.MediaSourceType {
	case MediaSourceSingle, MediaSourceFolder:
	default:
		return errUnrecognizedMediaSourceType
	}

	if c.Folder.Path == "" {
		return errMissingFolderPath
	}

	if c.MediaSourceType == MediaSourceFolder {
		switch c.Folder.Mode {
		case FolderModeRandom, FolderModeSequential:
		default:
			return errUnrecognizedFolderMode
		}
		if c.Folder.Mode == FolderModeSequential {
			switch c.Folder.Sequential.OrderBy {
			case "dateTaken", "filename", "path", "modifiedTime":
			default:
				return errUnrecognizedOrderBy
			}
			switch c.Folder.Sequential.OrderDirection {
			case OrderAsc, OrderDesc:
			default:
				return errUnrecognizedOrderDirection
			}
		}
	}

	switch c.MediaType {
	case MediaTypeImage, MediaTypeVideo, MediaTypeAll:
	default:
		return errUnrecognizedMediaType
	}

	switch c.AutoAdvanceMode {
	case AutoAdvanceReset, AutoAdvancePause, AutoAdvanceContinue:
	default:
		return errUnrecognizedAutoAdvanceMode
	}

	if c.HistorySize <= 0 {
		return errNonPositiveHistorySize
	}

	return nil
}
