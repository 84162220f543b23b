// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimeLike(t *testing.T) {
	ref := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   interface{}
		want int64
		ok   bool
	}{
		{"unix seconds", int64(1000), 1000, true},
		{"int", 1000, 1000, true},
		{"float", float64(1000), 1000, true},
		{"time.Time", ref, ref.Unix(), true},
		{"exif string", "2024:03:01 10:30:00", ref.Unix(), true},
		{"rfc3339", ref.Format(time.RFC3339), ref.Unix(), true},
		{"numeric string", "1000", 1000, true},
		{"garbage", "not-a-date", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeTimeLike(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestItemSortValueFallbackChain(t *testing.T) {
	item := Item{Metadata: Metadata{ModifiedTime: 50, CreatedTime: 10}}
	assert.Equal(t, int64(50), item.SortValue("dateTaken", OrderDesc), "falls back to modifiedTime when dateTaken absent")

	item.Metadata.ModifiedTime = 0
	assert.Equal(t, int64(10), item.SortValue("dateTaken", OrderDesc), "falls back to createdTime when both dateTaken and modifiedTime absent")

	item.Metadata.DateTaken = 99
	assert.Equal(t, int64(99), item.SortValue("dateTaken", OrderDesc), "prefers dateTaken when present")
}

func TestItemSortValueMissingDateSortsToTheTailOfItsDirection(t *testing.T) {
	item := Item{} // no DateTaken, ModifiedTime, or CreatedTime at all

	assert.Equal(t, int64(math.MaxInt64), item.SortValue("dateTaken", OrderAsc), "a fully dateless item must sort after all dated items ascending")
	assert.Equal(t, int64(math.MinInt64), item.SortValue("dateTaken", OrderDesc), "a fully dateless item must sort after all dated items descending")
}

func TestCursorFromItem(t *testing.T) {
	item := Item{ID: "abc", Metadata: Metadata{DateTaken: 42}}
	c := CursorFromItem(OrderByDateTaken, item, OrderDesc)
	assert.True(t, c.IsSet())
	assert.Equal(t, int64(42), c.NumericValue)
	assert.Equal(t, "abc", c.ID)

	byName := CursorFromItem(OrderByFilename, Item{ID: "x", Metadata: Metadata{Filename: "z.jpg"}}, OrderDesc)
	assert.Equal(t, "z.jpg", byName.StringValue)
}

func TestZeroCursorIsUnset(t *testing.T) {
	assert.False(t, ZeroCursor.IsSet())
}
