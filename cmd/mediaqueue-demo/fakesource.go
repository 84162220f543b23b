// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tomtom215/mediaqueue/internal/transport"
)

// fakeSource is an in-memory stand-in for the media-source protocol and the
// backend indexing service (spec §1: "Out of scope: network transport
// itself"). It lets the demo CLI exercise a real NavigationController
// without a browser, a media player, or a running indexing backend.
type fakeSource struct {
	tree map[string][]transport.BrowseChild
}

var _ transport.Client = (*fakeSource)(nil)

// rootContentID is the synthetic root the demo's FolderProvider browses
// from.
const rootContentID = "media-source://local/photos"

// newFakeSource builds a small two-level folder tree: a handful of
// subfolders, each holding a few recognized-extension files. EstimatedTotalPhotos
// in the demo's config is sized to match, so Bernoulli sampling in
// SubfolderQueue reliably surfaces every file within a few scans.
func newFakeSource() *fakeSource {
	vacation := rootContentID + "/vacation"
	pets := rootContentID + "/pets"

	return &fakeSource{
		tree: map[string][]transport.BrowseChild{
			rootContentID: {
				{MediaContentID: vacation, Title: "vacation", CanExpand: true, MediaClass: "directory"},
				{MediaContentID: pets, Title: "pets", CanExpand: true, MediaClass: "directory"},
			},
			vacation: {
				{MediaContentID: vacation + "/beach.jpg", Title: "beach.jpg", CanExpand: false, MediaClass: "image"},
				{MediaContentID: vacation + "/sunset.jpg", Title: "sunset.jpg", CanExpand: false, MediaClass: "image"},
				{MediaContentID: vacation + "/hike.mp4", Title: "hike.mp4", CanExpand: false, MediaClass: "video"},
			},
			pets: {
				{MediaContentID: pets + "/cat.jpg", Title: "cat.jpg", CanExpand: false, MediaClass: "image"},
				{MediaContentID: pets + "/dog.png", Title: "dog.png", CanExpand: false, MediaClass: "image"},
			},
		},
	}
}

// fileCount returns the number of leaf (non-expandable) entries across the
// tree, used to size Folder.EstimatedTotalPhotos so the Bernoulli sampler
// in SubfolderQueue surfaces the whole fake library.
func (f *fakeSource) fileCount() int {
	n := 0
	for _, children := range f.tree {
		for _, c := range children {
			if !c.CanExpand {
				n++
			}
		}
	}
	return n
}

// Browse returns the children of mediaContentID, or an empty slice for an
// unknown or leaf id.
func (f *fakeSource) Browse(ctx context.Context, mediaContentID string) ([]transport.BrowseChild, error) {
	return f.tree[mediaContentID], nil
}

// Resolve returns a synthetic, stable playback URL for mediaContentID.
func (f *fakeSource) Resolve(ctx context.Context, mediaContentID string) (string, error) {
	return fmt.Sprintf("https://demo.invalid/play?id=%s", url.QueryEscape(mediaContentID)), nil
}

// CallService is unused by the demo: its FolderProvider is wired to the
// filesystem-discovery backend (SubfolderQueue), not the indexing backend's
// media_index.* services.
func (f *fakeSource) CallService(ctx context.Context, req transport.ServiceRequest) (transport.ServiceResponse, error) {
	return nil, errors.New("fake source has no backing indexing service")
}
