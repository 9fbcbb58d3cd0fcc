// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// UNICODE: Rune-aware truncation preserves multi-byte characters.
// Counting happens on NFC-normalized text so that a precomposed "é" and an
// "e" followed by a combining accent count the same.

// Ellipsis is appended to text that was shortened for display.
const Ellipsis = "..."

// NormalizeNFC returns s in Unicode normalization form C.
func NormalizeNFC(s string) string {
	return norm.NFC.String(s)
}

// TruncateRunes truncates a string to a maximum number of runes (characters).
// If the string is truncated, "..." is appended and counted toward maxRunes.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= len(Ellipsis) {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-len(Ellipsis)]) + Ellipsis
}

// PrefixRunes returns the first n runes of s and appends "..." after them
// when s was longer. Unlike TruncateRunes the ellipsis is not counted.
func PrefixRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(NormalizeNFC(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + Ellipsis
}

// TruncateWidth truncates a string to a maximum display width, accounting
// for wide (CJK, emoji) characters.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= len(Ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// StringWidth returns the display width of a string.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// RuneLen returns the number of runes in the NFC form of s.
func RuneLen(s string) int {
	return len([]rune(NormalizeNFC(s)))
}

// SingleLine collapses all runs of whitespace, including newlines, into a
// single space and trims the ends.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
