// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Load and validate a config file without starting the engine",
	Long:  `Loads the file given by --config (layered over defaults and environment variables) and runs Validate(), reporting the first constraint violation found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadDemoConfig()
		if err != nil {
			return err
		}
		fmt.Printf("mediaSourceType=%s mode=%s folder.path=%q autoAdvanceMode=%s historySize=%d\n",
			cfg.MediaSourceType, cfg.Folder.Mode, cfg.Folder.Path, cfg.AutoAdvanceMode, cfg.HistorySize)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		fmt.Println("configuration is valid")
		return nil
	},
}
