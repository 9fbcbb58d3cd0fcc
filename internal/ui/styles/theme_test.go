// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/spectre-tui/internal/model"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme_Modes(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("NewTheme(dark) should be dark")
	}
	if dark.GlamourStyle() != "dark" {
		t.Errorf("GlamourStyle() = %q, want dark", dark.GlamourStyle())
	}

	light := NewTheme("LIGHT")
	if light.IsDark {
		t.Error("NewTheme(LIGHT) should be light")
	}
	if light.GlamourStyle() != "light" {
		t.Errorf("GlamourStyle() = %q, want light", light.GlamourStyle())
	}
	if lipgloss.HasDarkBackground() {
		t.Error("NewTheme(light) should pin lip gloss to a light background")
	}

	if NewTheme("auto") == nil || NewTheme("bogus") == nil {
		t.Error("NewTheme should never return nil")
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme("dark")

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"Sidebar", theme.Sidebar},
		{"SessionItemSelected", theme.SessionItemSelected},
		{"UserBubble", theme.UserBubble},
		{"AssistantBubble", theme.AssistantBubble},
		{"InputContainer", theme.InputContainer},
		{"LoginBox", theme.LoginBox},
		{"DialogBox", theme.DialogBox},
		{"DialogDanger", theme.DialogDanger},
	}

	for _, s := range styles {
		if !strings.Contains(s.style.Render("test"), "test") {
			t.Errorf("%s style should render its content", s.name)
		}
	}
}

// =============================================================================
// STATUS DOT TESTS
// =============================================================================

func TestDotColor(t *testing.T) {
	tests := []struct {
		ind  model.Indicator
		want lipgloss.AdaptiveColor
	}{
		{model.IndicatorIdle, DotIdle},
		{model.IndicatorListening, DotListening},
		{model.IndicatorThinking, DotThinking},
		{model.IndicatorAnswering, DotAnswering},
	}
	for _, tt := range tests {
		if got := DotColor(tt.ind); got != tt.want {
			t.Errorf("DotColor(%v) = %v, want %v", tt.ind, got, tt.want)
		}
	}
}

func TestDot(t *testing.T) {
	theme := NewTheme("dark")
	if !strings.Contains(theme.Dot(model.IndicatorThinking), "●") {
		t.Error("Dot should render the dot glyph")
	}
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		width       int
		want        LayoutMode
		showSidebar bool
	}{
		{40, LayoutNarrow, false},
		{59, LayoutNarrow, false},
		{60, LayoutMedium, true},
		{99, LayoutMedium, true},
		{100, LayoutWide, true},
		{200, LayoutWide, true},
	}

	theme := NewTheme("dark")
	for _, tt := range tests {
		theme.SetSize(tt.width, 30)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.want)
		}
		if got := theme.ShowSidebar(); got != tt.showSidebar {
			t.Errorf("width %d: ShowSidebar() = %v, want %v", tt.width, got, tt.showSidebar)
		}
	}
}
