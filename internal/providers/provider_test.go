// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package providers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrapsToSentinel(t *testing.T) {
	err := NewError(KindNoMatching, errors.New("filters excluded everything"))

	assert.True(t, errors.Is(err, ErrNoMatching))
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(KindFileMissing))
	assert.True(t, IsRecoverable(KindExhaustion))
	assert.True(t, IsRecoverable(KindCursorDrift))
	assert.False(t, IsRecoverable(KindConfiguration))
	assert.False(t, IsRecoverable(KindTransport))
	assert.False(t, IsRecoverable(KindNoMatching))
}
