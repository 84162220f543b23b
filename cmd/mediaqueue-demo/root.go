// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/mediaqueue/internal/config"
)

const demoVersion = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:     "mediaqueue-demo",
	Short:   "Headless driver for the media queue engine",
	Long:    `mediaqueue-demo exercises a NavigationController and FolderProvider against an in-memory fake media source, for manual inspection of the queue engine without a browser or media player.`,
	Version: demoVersion,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a mediaqueue YAML config file (defaults are used if omitted)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateConfigCmd)
}

// loadDemoConfig loads the effective Config. When --config is set it goes
// through the full koanf layering and Validate() (config.Load); otherwise
// it falls back to bare defaults, since the demo's fake source has no real
// folder.path to validate against.
func loadDemoConfig() (*config.Config, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	if err := os.Setenv(config.ConfigPathEnvVar, configPath); err != nil {
		return nil, fmt.Errorf("setting %s: %w", config.ConfigPathEnvVar, err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", configPath, err)
	}
	return cfg, nil
}
