// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/mediaqueue/internal/navigation"
)

var (
	runAdvances int
	runRetreats int
	runPreload  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Advance, retreat, and preload against the fake media source",
	Long: `Builds a fresh engine, advances it --advances times, retreats --retreats
times to exercise history replay, optionally preloads (--preload), then
advances once more. The steps are printed as a table when the run ends.`,
	RunE: runDemo,
}

func init() {
	runCmd.Flags().IntVar(&runAdvances, "advances", 5, "number of advance() calls to perform")
	runCmd.Flags().IntVar(&runRetreats, "retreats", 2, "number of retreat() calls to perform after advancing, to exercise history replay")
	runCmd.Flags().BoolVar(&runPreload, "preload", true, "call Preload() once before the final advance")
}

func runDemo(cmd *cobra.Command, args []string) error {
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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Step\tAction\tItem ID\tType")

	if item, ok := eng.ctrl.Current(); ok {
		fmt.Fprintf(w, "0\tinitialize\t%s\t%s\n", item.ID, item.ContentType)
	}

	step := 1
	for i := 0; i < runAdvances; i++ {
		item, err := eng.ctrl.Advance(ctx)
		if err != nil {
			if errors.Is(err, navigation.ErrNoMoreItems) {
				fmt.Fprintf(w, "%d\tadvance\t(exhausted)\t-\n", step)
				break
			}
			return fmt.Errorf("advance: %w", err)
		}
		fmt.Fprintf(w, "%d\tadvance\t%s\t%s\n", step, item.ID, item.ContentType)
		step++
	}

	for i := 0; i < runRetreats; i++ {
		item, ok := eng.ctrl.Retreat()
		if !ok {
			fmt.Fprintf(w, "%d\tretreat\t(start of history)\t-\n", step)
			break
		}
		fmt.Fprintf(w, "%d\tretreat\t%s\t%s\n", step, item.ID, item.ContentType)
		step++
	}

	if runPreload {
		eng.ctrl.Preload(ctx)
		fmt.Fprintf(w, "%d\tpreload\t(best-effort, no consume)\t-\n", step)
		step++
	}

	if item, err := eng.ctrl.Advance(ctx); err == nil {
		fmt.Fprintf(w, "%d\tadvance\t%s\t%s\n", step, item.ID, item.ContentType)
	} else if !errors.Is(err, navigation.ErrNoMoreItems) {
		return fmt.Errorf("advance: %w", err)
	}

	return w.Flush()
}
