// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - sessions, export, logout and clear.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/spectre-tui/internal/export"
	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/session"
	"github.com/jeranaias/spectre-tui/internal/util"
)

// =============================================================================
// SESSIONS
// =============================================================================

// sessionSummary is the JSON shape of one row of "spectre sessions --json".
type sessionSummary struct {
	Index     int       `json:"index"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  int       `json:"messages"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HandleSessions lists the saved sessions, most recent first as stored.
//
//	spectre sessions [--search <text>] [--json]
func HandleSessions(env *Env, args Args) error {
	p := NewArgParser(args.Raw, "json")

	store, err := env.LoadSessions()
	if err != nil {
		return err
	}

	all := store.Sessions()
	list := all
	query := strings.TrimSpace(p.Flag("search"))
	if query != "" {
		list = store.Search(query)
	}

	rows := make([]sessionSummary, 0, len(list))
	for _, s := range list {
		rows = append(rows, sessionSummary{
			Index:     indexOf(all, s.ID) + 1,
			ID:        s.ID,
			Title:     s.Title,
			Messages:  s.MessageCount(),
			Active:    s.ID == store.ActiveID(),
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	if p.BoolFlag("json") {
		enc := json.NewEncoder(env.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	return writeSessionTable(env.Out, rows, query, time.Now())
}

func writeSessionTable(w io.Writer, rows []sessionSummary, query string, now time.Time) error {
	if len(rows) == 0 {
		fmt.Fprintln(w)
		if query != "" {
			fmt.Fprintf(w, "No sessions match %q.\n", query)
		} else {
			fmt.Fprintln(w, "No chat history yet.")
		}
		fmt.Fprintln(w)
		return nil
	}

	titleWidth := GetTerminalWidth() - 34
	if titleWidth > 40 {
		titleWidth = 40
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Chat Sessions"))
	fmt.Fprintln(w, RenderSeparator(titleWidth+34))
	fmt.Fprintf(w, "  %-4s %-*s %6s  %s\n", "#", titleWidth, "Title", "Msgs", "Updated")

	for _, r := range rows {
		marker := " "
		if r.Active {
			marker = "*"
		}
		title := util.TruncateWidth(util.SingleLine(r.Title), titleWidth)
		pad := titleWidth - util.StringWidth(title)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(w, "%s %-4d %s%s %6d  %s\n",
			marker, r.Index, title, strings.Repeat(" ", pad), r.Messages, formatTimeAgo(r.UpdatedAt, now))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d session(s)\n", len(rows))
	fmt.Fprintln(w, DimStyle.Render("  spectre export <#>   print a session as Markdown"))
	fmt.Fprintln(w)
	return nil
}

// formatTimeAgo renders t relative to now for the sessions table.
func formatTimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Local().Format("2006-01-02")
	}
}

func indexOf(sessions []model.ChatSession, id string) int {
	for i, s := range sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// resolveSession finds a session by 1-based list index, full id, or a
// unique id prefix.
func resolveSession(store *session.Store, ref string) (model.ChatSession, error) {
	ref = strings.TrimSpace(ref)
	all := store.Sessions()

	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(all) {
			return all[n-1], nil
		}
		return model.ChatSession{}, &NotFoundError{Resource: "session", ID: ref}
	}

	if s, ok := store.Get(ref); ok {
		return s, nil
	}

	var match *model.ChatSession
	for i := range all {
		if strings.HasPrefix(all[i].ID, ref) {
			if match != nil {
				return model.ChatSession{}, &UsageError{Message: fmt.Sprintf("session id prefix %q is ambiguous", ref)}
			}
			match = &all[i]
		}
	}
	if match == nil {
		return model.ChatSession{}, &NotFoundError{Resource: "session", ID: ref}
	}
	return *match, nil
}

// =============================================================================
// EXPORT
// =============================================================================

// HandleExport prints a session, or writes it to --out. The format comes
// from --format, then from the --out extension, and defaults to Markdown.
//
//	spectre export <n|id> [--format md|json|html] [--out file] [--meta]
func HandleExport(env *Env, args Args) error {
	p := NewArgParser(args.Raw, "meta")
	ref := p.Positional(0)
	if ref == "" {
		return &UsageError{Message: "session required", Usage: "spectre export <n|id> [--format md|json|html] [--out file] [--meta]"}
	}

	out := p.Flag("out")
	format := p.Flag("format")
	if format == "" && out != "" {
		format = export.FormatForPath(out)
	}
	opts := export.DefaultOptions()
	opts.IncludeMetadata = p.BoolFlag("meta")
	opts.Theme = env.Config.UI.Theme
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return &UsageError{Message: err.Error(), Usage: "spectre export <n|id> [--format md|json|html]"}
	}

	store, err := env.LoadSessions()
	if err != nil {
		return err
	}
	s, err := resolveSession(store, ref)
	if err != nil {
		return err
	}

	if out != "" {
		if err := export.ToFile(s, exporter, out); err != nil {
			return &CommandError{Command: "export", Action: "write", Err: err}
		}
		fmt.Fprintf(env.Err, "%s wrote %s\n", SuccessStyle.Render("[ok]"), util.ExpandHome(out))
		return nil
	}

	data, err := exporter.Export(s)
	if err != nil {
		return &CommandError{Command: "export", Action: "render", Err: err}
	}
	_, err = env.Out.Write(data)
	return err
}

// =============================================================================
// LOGOUT / CLEAR
// =============================================================================

// HandleLogout removes the stored user and chat history.
func HandleLogout(env *Env, _ Args) error {
	user, ok, err := env.Gate.Current()
	if err != nil {
		return &CommandError{Command: "logout", Action: "load user", Err: err}
	}
	if err := env.Gate.Logout(); err != nil {
		return &CommandError{Command: "logout", Action: "remove", Err: err}
	}
	if ok {
		fmt.Fprintf(env.Out, "Logged out %s. Chat history removed.\n", user.Username)
	} else {
		fmt.Fprintln(env.Out, "Not logged in. Chat history removed.")
	}
	return nil
}

// HandleClear deletes every session after confirmation, leaving one new
// empty session.
//
//	spectre clear [--confirm]
func HandleClear(env *Env, args Args) error {
	p := NewArgParser(args.Raw, "confirm", "yes", "y")
	confirmed := p.BoolFlag("confirm") || p.BoolFlag("yes") || p.BoolFlag("y")

	store, err := env.OpenSessions()
	if err != nil {
		return err
	}

	ok, err := RequireConfirmation(env.In, env.Out, confirmed,
		fmt.Sprintf("delete all %d chat session(s)", store.Len()))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(env.Out, "Cancelled.")
		return nil
	}

	if err := store.Clear(); err != nil {
		return &CommandError{Command: "clear", Action: "save", Err: err}
	}
	fmt.Fprintln(env.Out, SuccessStyle.Render("Chat history cleared."))
	return nil
}
