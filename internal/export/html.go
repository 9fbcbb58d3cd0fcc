// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/jeranaias/spectre-tui/internal/model"
)

var (
	codeBlockRegex  = regexp.MustCompile("```([a-zA-Z0-9_+-]*)\n([\\s\\S]*?)```")
	inlineCodeRegex = regexp.MustCompile("`([^`\n]+)`")
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter renders a session as a standalone page with embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a session to HTML.
func (e *HTMLExporter) Export(s model.ChatSession) ([]byte, error) {
	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", html.EscapeString(s.Title))
	sb.WriteString("    <meta name=\"generator\" content=\"spectre\">\n")
	fmt.Fprintf(&sb, "    <meta name=\"date\" content=\"%s\">\n", s.CreatedAt.Format(time.RFC3339))
	sb.WriteString(pageCSS)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", theme)
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString("        <header class=\"header\">\n")
	fmt.Fprintf(&sb, "            <h1>%s</h1>\n", html.EscapeString(s.Title))
	if e.options.IncludeMetadata {
		sb.WriteString("            <div class=\"metadata\">\n")
		fmt.Fprintf(&sb, "                <span><strong>Created:</strong> %s</span>\n", formatTimestamp(s.CreatedAt))
		fmt.Fprintf(&sb, "                <span><strong>Messages:</strong> %d</span>\n", s.MessageCount())
		sb.WriteString("            </div>\n")
	}
	sb.WriteString("        </header>\n")

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, m := range s.Messages {
		sb.WriteString(e.renderMessage(m))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	fmt.Fprintf(&sb, "            <p>Exported from <strong>Spectre AI</strong> on %s</p>\n",
		e.options.now().Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderMessage(m model.ChatMessage) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "            <div class=\"message %s-message\">\n", html.EscapeString(m.Role.String()))
	sb.WriteString("                <div class=\"message-header\">\n")
	fmt.Fprintf(&sb, "                    <span class=\"role-label\">%s</span>\n", html.EscapeString(m.Role.DisplayName()))
	if e.options.IncludeTimestamps && !m.Timestamp.IsZero() {
		fmt.Fprintf(&sb, "                    <span class=\"timestamp\">%s</span>\n", m.Clock())
	}
	sb.WriteString("                </div>\n")
	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(formatContent(m.Content))
	sb.WriteString("\n                </div>\n")
	sb.WriteString("            </div>\n")

	return sb.String()
}

// formatContent escapes content and turns fenced code, inline code and
// blank-line separated paragraphs into HTML.
func formatContent(content string) string {
	content = html.EscapeString(strings.TrimSpace(content))

	var blocks []string
	content = codeBlockRegex.ReplaceAllStringFunc(content, func(match string) string {
		parts := codeBlockRegex.FindStringSubmatch(match)
		langLabel := ""
		if parts[1] != "" {
			langLabel = fmt.Sprintf("<div class=\"code-lang\">%s</div>", parts[1])
		}
		blocks = append(blocks, fmt.Sprintf("<div class=\"code-block\">%s<pre><code class=\"language-%s\">%s</code></pre></div>",
			langLabel, parts[1], strings.TrimRight(parts[2], "\n")))
		return fmt.Sprintf("\n\n\x00%d\x00\n\n", len(blocks)-1)
	})

	var out []string
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if strings.HasPrefix(para, "\x00") && strings.HasSuffix(para, "\x00") {
			out = append(out, para)
			continue
		}
		para = inlineCodeRegex.ReplaceAllString(para, "<code class=\"inline-code\">$1</code>")
		out = append(out, "<p>"+strings.ReplaceAll(para, "\n", "<br>\n")+"</p>")
	}

	result := strings.Join(out, "\n")
	for i, block := range blocks {
		result = strings.Replace(result, fmt.Sprintf("\x00%d\x00", i), block, 1)
	}
	return result
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const pageCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        .dark-theme {
            --bg-primary: #111827;
            --bg-secondary: #1F2937;
            --text-primary: #F9FAFB;
            --text-muted: #9CA3AF;
            --border-color: #374151;
            --user-bg: #7C3AED;
            --user-fg: #FFFFFF;
            --assistant-bg: #1F2937;
            --code-bg: #0B1120;
        }

        .light-theme {
            --bg-primary: #FFFFFF;
            --bg-secondary: #F9FAFB;
            --text-primary: #111827;
            --text-muted: #6B7280;
            --border-color: #E5E7EB;
            --user-bg: #7C3AED;
            --user-fg: #FFFFFF;
            --assistant-bg: #F3F4F6;
            --code-bg: #F3F4F6;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container { max-width: 860px; margin: 0 auto; }
        .header { padding: 24px 0; border-bottom: 1px solid var(--border-color); }
        .header h1 { font-size: 26px; margin-bottom: 8px; }
        .metadata { display: flex; gap: 16px; font-size: 14px; color: var(--text-muted); }

        .conversation { display: flex; flex-direction: column; gap: 16px; padding: 24px 0; }
        .message { max-width: 80%; }
        .user-message { align-self: flex-end; }
        .assistant-message { align-self: flex-start; }
        .message-header { font-size: 13px; color: var(--text-muted); margin-bottom: 4px; }
        .timestamp { margin-left: 8px; }
        .message-content { padding: 12px 16px; border-radius: 16px; }
        .message-content p + p { margin-top: 8px; }
        .user-message .message-content { background: var(--user-bg); color: var(--user-fg); }
        .assistant-message .message-content { background: var(--assistant-bg); border: 1px solid var(--border-color); }

        .code-block { margin: 8px 0; background: var(--code-bg); border-radius: 8px; overflow-x: auto; }
        .code-lang { font-size: 12px; color: var(--text-muted); padding: 4px 12px 0; }
        .code-block pre { padding: 12px; font-family: ui-monospace, monospace; font-size: 14px; }
        .inline-code { font-family: ui-monospace, monospace; background: var(--code-bg); padding: 1px 4px; border-radius: 4px; }

        .footer { padding: 16px 0; font-size: 13px; color: var(--text-muted); border-top: 1px solid var(--border-color); }
    </style>
`
