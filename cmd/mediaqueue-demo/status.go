// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/mediaqueue/internal/models"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Initialize the engine and print the first item",
	Long:  `Builds a FolderProvider and NavigationController, initializes them against the fake media source, and prints the first item delivered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := loadDemoConfig()
		if err != nil {
			return err
		}
		eng, err := buildEngine(ctx, cfg)
		if err != nil {
			return err
		}
		defer eng.ctrl.Dispose()

		next, err := eng.ctrl.Advance(ctx)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		item := *next
		if statusJSON {
			return json.NewEncoder(os.Stdout).Encode(item)
		}
		printItem("current", item)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the item as JSON instead of a fixed-width line")
}

func printItem(label string, item models.Item) {
	fmt.Printf("%-8s id=%s type=%s folder=%s\n", label+":", item.ID, item.ContentType, item.Metadata.Folder)
}
