// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Command mediaqueue-demo is a headless driver for the media queue engine.
// It wires a FolderProvider and NavigationController against an in-memory
// fake media source and exercises advance/retreat/preload against it, since
// the engine itself renders nothing (spec §1 keeps rendering out of scope).
package main

import (
	"fmt"
	"os"

	"github.com/tomtom215/mediaqueue/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	logging.Init(logging.Config{Level: "warn", Format: "console"})
}
