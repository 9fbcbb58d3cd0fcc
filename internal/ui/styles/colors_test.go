// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// COLOR DEFINITION TESTS
// =============================================================================

func TestAdaptiveColorsDefined(t *testing.T) {
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"Purple", Purple},
		{"Pink", Pink},
		{"Cyan", Cyan},
		{"Rose", Rose},
		{"Surface", Surface},
		{"TextPrimary", TextPrimary},
		{"UserBubbleBg", UserBubbleBg},
		{"AssistantBubbleFg", AssistantBubbleFg},
		{"DotListening", DotListening},
		{"DotThinking", DotThinking},
		{"DotAnswering", DotAnswering},
		{"DotIdle", DotIdle},
	}

	for _, c := range colors {
		if !strings.HasPrefix(c.color.Light, "#") || !strings.HasPrefix(c.color.Dark, "#") {
			t.Errorf("%s should define hex light and dark values, got %+v", c.name, c.color)
		}
	}
}

func TestDotColorsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range []lipgloss.AdaptiveColor{DotListening, DotThinking, DotAnswering, DotIdle} {
		if seen[c.Dark] {
			t.Errorf("dot color %s used twice", c.Dark)
		}
		seen[c.Dark] = true
	}
}

// =============================================================================
// NOTICE RENDERING TESTS
// =============================================================================

func TestRenderNotices(t *testing.T) {
	tests := []struct {
		name      string
		render    func(string) string
		indicator string
	}{
		{"success", RenderSuccess, "[OK]"},
		{"error", RenderError, "[X]"},
		{"warning", RenderWarning, "[!]"},
		{"info", RenderInfo, "[i]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.render("Chat history cleared")
			if !strings.Contains(out, tt.indicator) {
				t.Errorf("missing indicator %q in %q", tt.indicator, out)
			}
			if !strings.Contains(out, "Chat history cleared") {
				t.Errorf("missing message in %q", out)
			}
		})
	}
}
