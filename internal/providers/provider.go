// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

// Package providers defines the polymorphic Provider contract (spec §4.1)
// shared by the four concrete providers (single, subfolder, random,
// sequential) and the FolderProvider composer, plus the error kinds and
// dispositions from spec §7.
package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/mediaqueue/internal/models"
)

// HistoryView is the read-only view the navigation controller's history
// exposes to providers, used instead of passing the whole controller to
// break the card<->provider cyclic reference (design note §9).
type HistoryView interface {
	// HasID reports whether id is present in the current history.
	HasID(id string) bool
	// IDs returns every id currently in history, in order.
	IDs() []string
}

// ExclusionView is the read-only view of ExclusionRegistry a provider needs
// for pre-dequeue filtering (spec §5: "owned by NavigationController, passed
// by reference to the provider").
type ExclusionView interface {
	Contains(id string) bool
}

// RescanResult is returned by Provider.rescanForNewFiles (spec §4.1).
type RescanResult struct {
	QueueChanged  bool
	PreviousFirst string
	NewFirst      string
}

// FileCheckResult is returned by Provider.checkFileExists. A nil result
// (not FileCheckResult{}) means "provider has no opinion" — callers must
// distinguish *FileCheckResult == nil from a zero value.
type FileCheckResult struct {
	Exists bool
	Reason string
}

// Provider is the polymorphic contract every concrete provider implements
// (spec §4.1).
type Provider interface {
	// Initialize performs the first fetch. Returns false if the source is
	// unreachable, misconfigured, or yields zero items with filters active.
	Initialize(ctx context.Context) (bool, error)

	// GetNext produces the next Item, or nil if the provider is exhausted.
	// Must never return an item present in history or the exclusion
	// registry (spec §8 invariant 1).
	GetNext(ctx context.Context) (*models.Item, error)

	// CheckFileExists is a best-effort validation hook. A nil result means
	// the provider has no opinion.
	CheckFileExists(ctx context.Context, item models.Item) (*FileCheckResult, error)

	// GetFilesNewerThan is the discovery hook for periodic refresh; may
	// return an empty slice.
	GetFilesNewerThan(ctx context.Context, thresholdUnix int64) ([]models.Item, error)

	// RescanForNewFiles rebuilds from scratch: sequential providers reset
	// the cursor, random providers re-draw.
	RescanForNewFiles(ctx context.Context, currentID string) (RescanResult, error)

	// Dispose releases subscriptions held by the provider.
	Dispose()
}

// Kind identifies a provider error disposition (spec §7).
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindTransport     Kind = "transport"
	KindNoMatching    Kind = "no_matching_items"
	KindEmpty         Kind = "empty_collection"
	KindMediaResolve  Kind = "media_resolve"
	KindFileMissing   Kind = "file_missing"
	KindCursorDrift   Kind = "cursor_drift"
	KindExhaustion    Kind = "exhaustion"
)

// Sentinel errors for errors.Is comparisons; Error.Unwrap resolves to one
// of these.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
	ErrNoMatching    = errors.New("no matching items")
	ErrEmpty         = errors.New("empty collection")
	ErrMediaResolve  = errors.New("media resolve error")
	ErrFileMissing   = errors.New("file missing")
	ErrCursorDrift   = errors.New("cursor drift")
	ErrExhaustion    = errors.New("exhaustion")
)

var sentinelByKind = map[Kind]error{
	KindConfiguration: ErrConfiguration,
	KindTransport:     ErrTransport,
	KindNoMatching:    ErrNoMatching,
	KindEmpty:         ErrEmpty,
	KindMediaResolve:  ErrMediaResolve,
	KindFileMissing:   ErrFileMissing,
	KindCursorDrift:   ErrCursorDrift,
	KindExhaustion:    ErrExhaustion,
}

// Error wraps a provider failure with its disposition Kind (spec §7). It
// implements Unwrap so callers use errors.Is/errors.As against the Err*
// sentinels rather than string matching.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	if sentinel, ok := sentinelByKind[e.Kind]; ok {
		return sentinel
	}
	return e.Err
}

// NewError builds a provider Error of the given kind wrapping cause.
func NewError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// IsRecoverable reports whether kind is recovered silently (spec §7:
// "missing-file, exhaustion, and cursor drift recover silently") rather
// than surfaced to the user.
func IsRecoverable(kind Kind) bool {
	switch kind {
	case KindFileMissing, KindExhaustion, KindCursorDrift:
		return true
	default:
		return false
	}
}
