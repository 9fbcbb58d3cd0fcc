// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"math"
	"strconv"
	"time"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// plural formats a count with a singular or plural noun: "1 message",
// "3 messages".
func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// startOfDay returns local midnight of t.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// daysBetween counts calendar days from t to now. Times in the future count
// as today.
func daysBetween(t, now time.Time) int {
	// rounded because DST days are 23 or 25 hours long
	days := int(math.Round(startOfDay(now).Sub(startOfDay(t)).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
