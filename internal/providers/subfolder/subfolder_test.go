// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package subfolder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/mediaqueue/internal/queue"
	"github.com/tomtom215/mediaqueue/internal/transport"
)

type fakeExclusion struct{}

func (fakeExclusion) Contains(string) bool { return false }

// fakeBrowser is a small in-memory filesystem tree: root -> {folderA/, folderB/},
// folderA -> {a1.jpg, a2.jpg}, folderB -> {b1.png}.
type fakeBrowser struct {
	tree map[string][]transport.BrowseChild
}

func (f *fakeBrowser) Browse(ctx context.Context, id string) ([]transport.BrowseChild, error) {
	return f.tree[id], nil
}

func (f *fakeBrowser) CallService(ctx context.Context, req transport.ServiceRequest) (transport.ServiceResponse, error) {
	return nil, nil
}

func (f *fakeBrowser) Resolve(ctx context.Context, id string) (string, error) {
	return "", nil
}

func sampleTree() *fakeBrowser {
	return &fakeBrowser{tree: map[string][]transport.BrowseChild{
		"/root": {
			{MediaContentID: "/root/folderA", CanExpand: true},
			{MediaContentID: "/root/folderB", CanExpand: true},
		},
		"/root/folderA": {
			{MediaContentID: "/root/folderA/a1.jpg", Title: "a1.jpg"},
			{MediaContentID: "/root/folderA/a2.jpg", Title: "a2.jpg"},
		},
		"/root/folderB": {
			{MediaContentID: "/root/folderB/b1.png", Title: "b1.png"},
		},
	}}
}

func TestInitializeEnqueuesAllFilesWhenProbabilityOne(t *testing.T) {
	p := New(sampleTree(), queue.New(10, 2), Config{
		RootPath:             "/root",
		Recursive:            true,
		EstimatedTotalPhotos: 1,
	}, fakeExclusion{})
	p.rand = func() float64 { return 0 } // always pass the Bernoulli test

	ok, err := p.Initialize(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, p.q.Len())
}

func TestScanDepthZeroOnlyConsidersBaseFolder(t *testing.T) {
	depth := 0
	p := New(sampleTree(), queue.New(10, 2), Config{
		RootPath:             "/root",
		ScanDepth:            &depth,
		EstimatedTotalPhotos: 1,
	}, fakeExclusion{})
	p.rand = func() float64 { return 0 }

	ok, err := p.Initialize(context.Background())
	require.Error(t, err, "base folder has no files of its own, so this yields EmptyCollection")
	assert.False(t, ok)
}

func TestPriorityFolderWeightIsUncappedAndOnlyTheResultingProbabilityClamps(t *testing.T) {
	p := New(sampleTree(), queue.New(10, 2), Config{
		RootPath: "/root",
		PriorityFolders: []PriorityFolder{
			{Pattern: "folderA", Weight: 5},
		},
	}, fakeExclusion{})

	assert.Equal(t, 5.0, p.priorityWeight("/root/folderA"), "the raw weight must pass through; maybeEnqueue clamps the probability, not the weight")
	assert.Equal(t, 1.0, p.priorityWeight("/root/folderB"))
}

func TestUnrecognizedExtensionIsSkipped(t *testing.T) {
	browser := &fakeBrowser{tree: map[string][]transport.BrowseChild{
		"/root": {
			{MediaContentID: "/root/notes.txt", Title: "notes.txt"},
			{MediaContentID: "/root/photo.jpg", Title: "photo.jpg"},
		},
	}}
	p := New(browser, queue.New(10, 2), Config{RootPath: "/root", EstimatedTotalPhotos: 1}, fakeExclusion{})
	p.rand = func() float64 { return 0 }

	ok, err := p.Initialize(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, p.q.Len())
	assert.Equal(t, "/root/photo.jpg", p.q.Peek().ID)
}

func TestScanRatePerSecondConstructsALimiter(t *testing.T) {
	p := New(sampleTree(), queue.New(10, 2), Config{
		RootPath:             "/root",
		EstimatedTotalPhotos: 1,
		ScanRatePerSecond:    5,
	}, fakeExclusion{})

	require.NotNil(t, p.limiter)
	p.rand = func() float64 { return 0 }

	ok, err := p.Initialize(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "a throttled scan must still complete and enqueue items")
}

func TestZeroScanRatePerSecondLeavesScanUnthrottled(t *testing.T) {
	p := New(sampleTree(), queue.New(10, 2), Config{RootPath: "/root", EstimatedTotalPhotos: 1}, fakeExclusion{})
	assert.Nil(t, p.limiter)
}
