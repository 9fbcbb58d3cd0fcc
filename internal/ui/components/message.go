// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer renders assistant replies with glamour. The underlying
// renderer is rebuilt only when the wrap width changes.
type MarkdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for a glamour standard style
// ("dark" or "light").
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	return &MarkdownRenderer{style: style}
}

// Render returns text as styled markdown wrapped at width. On any glamour
// error the text is returned unchanged.
func (m *MarkdownRenderer) Render(text string, width int) string {
	if m == nil {
		return text
	}
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		m.renderer = r
		m.width = width
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageBubble renders one chat message: user messages right-aligned,
// assistant messages left-aligned.
type MessageBubble struct {
	Message       model.ChatMessage
	Width         int
	ShowTimestamp bool
	Markdown      *MarkdownRenderer // nil renders plain text
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble with timestamps on.
func NewMessageBubble(msg model.ChatMessage, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	t := b.theme
	width := maxInt(b.Width, 24)
	maxBubble := maxInt(width*4/5, 20) // bubble width including border

	name := t.AssistantName.Render(b.Message.Role.DisplayName())
	style := t.AssistantBubble
	align := lipgloss.Left
	if b.Message.Role == model.RoleUser {
		name = t.UserName.Render(b.Message.Role.DisplayName())
		style = t.UserBubble
		align = lipgloss.Right
	}

	header := name
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		header += " " + t.Timestamp.Render(b.Message.Clock())
	}

	// border and padding take 4 columns
	textWidth := maxBubble - 4
	content := b.Message.Content
	if content == "" {
		content = "..."
	}
	if b.Message.Role == model.RoleAssistant && b.Markdown != nil {
		content = b.Markdown.Render(content, textWidth)
	}

	if lipgloss.Width(content) > textWidth {
		style = style.Width(textWidth + 2)
	}
	bubble := style.Render(content)

	block := lipgloss.JoinVertical(align, header, bubble)
	return lipgloss.PlaceHorizontal(width, align, block)
}

// RenderMessages renders a transcript separated by blank lines.
func RenderMessages(msgs []model.ChatMessage, theme *styles.Theme, width int, showTimestamps bool, md *MarkdownRenderer) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		b := NewMessageBubble(m, theme)
		b.Width = width
		b.ShowTimestamp = showTimestamps
		b.Markdown = md
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "\n\n")
}
