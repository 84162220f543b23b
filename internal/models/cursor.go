// mediaqueue - Browser-Resident Media Selection and Playback Scheduler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediaqueue

package models

import (
	"strconv"
	"time"
)

// OrderBy enumerates the fields sequential pagination may sort on.
type OrderBy string

const (
	OrderByDateTaken    OrderBy = "dateTaken"
	OrderByFilename     OrderBy = "filename"
	OrderByPath         OrderBy = "path"
	OrderByModifiedTime OrderBy = "modifiedTime"
)

// IsNumeric reports whether this OrderBy sorts on a Unix-seconds value
// rather than a string.
func (o OrderBy) IsNumeric() bool {
	return o == OrderByDateTaken || o == OrderByModifiedTime
}

// OrderDirection is the pagination traversal direction.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// Cursor is the sum type over (numeric sortValue, id) and (string sortValue,
// id), matching spec §3's "Cursor (sequential pagination)" and design note
// §9 ("Cursor as algebraic key"). Exactly one of NumericValue/StringValue is
// meaningful, selected by the OrderBy that produced the cursor.
type Cursor struct {
	OrderBy      OrderBy
	NumericValue int64
	StringValue  string
	ID           string
	set          bool
}

// ZeroCursor is the null cursor: "start of sequence".
var ZeroCursor = Cursor{}

// IsSet reports whether the cursor has been positioned past the start.
func (c Cursor) IsSet() bool {
	return c.set
}

// NewNumericCursor builds a cursor for a numeric (timestamp) OrderBy.
func NewNumericCursor(orderBy OrderBy, value int64, id string) Cursor {
	return Cursor{OrderBy: orderBy, NumericValue: value, ID: id, set: true}
}

// NewStringCursor builds a cursor for a string OrderBy (filename/path).
func NewStringCursor(orderBy OrderBy, value, id string) Cursor {
	return Cursor{OrderBy: orderBy, StringValue: value, ID: id, set: true}
}

// CursorFromItem derives the (sortValue, id) pair used as the "next" cursor
// from the last item retained in a batch (spec §4.4). dir must match the
// direction the batch was sorted in, so a missing-value sentinel lands on
// the same side of the comparison on the next page.
func CursorFromItem(orderBy OrderBy, item Item, dir OrderDirection) Cursor {
	if orderBy.IsNumeric() {
		return NewNumericCursor(orderBy, item.SortValue(string(orderBy), dir), item.ID)
	}
	return NewStringCursor(orderBy, item.SortKey(string(orderBy)), item.ID)
}

// NormalizeTimeLike converts a time-like value (Unix seconds, time.Time, or
// an EXIF "YYYY:MM:DD hh:mm:ss" string) to Unix seconds, per spec §4.4's
// "Numeric normalization". Returns (0, false) if the value cannot be
// interpreted, a total function with an explicit null result rather than a
// panic or error (design note §9).
func NormalizeTimeLike(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case time.Time:
		return t.Unix(), true
	case string:
		return normalizeTimeString(t)
	default:
		return 0, false
	}
}

func normalizeTimeString(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	// EXIF form: "YYYY:MM:DD hh:mm:ss"
	if len(s) == 19 && s[4] == ':' && s[7] == ':' {
		if ts, err := time.Parse("2006:01:02 15:04:05", s); err == nil {
			return ts.Unix(), true
		}
	}
	// RFC3339 / ISO 8601
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.Unix(), true
	}
	// Bare Unix-seconds string
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	return 0, false
}
