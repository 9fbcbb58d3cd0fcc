// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - The "spectre repl" line-mode chat client.
//
// Same session store and send flow as the TUI, driven from a prompt with
// readline-style editing and input history.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/spectre-tui/internal/auth"
	"github.com/jeranaias/spectre-tui/internal/commands"
	"github.com/jeranaias/spectre-tui/internal/config"
	"github.com/jeranaias/spectre-tui/internal/export"
	"github.com/jeranaias/spectre-tui/internal/messenger"
	"github.com/jeranaias/spectre-tui/internal/model"
	"github.com/jeranaias/spectre-tui/internal/session"
	"github.com/jeranaias/spectre-tui/internal/util"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader is the part of liner.State the repl uses.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
	Close() error
}

// replHistoryFile holds the input history between runs.
const replHistoryFile = "repl_history"

// replayCount is how many messages of the active session are shown on start.
const replayCount = 6

// ChatCLI is the line-mode chat client.
type ChatCLI struct {
	line        LineReader
	historyFile string

	gate         *auth.Gate
	openStore    func() (*session.Store, error)
	newMessenger func(*session.Store) *messenger.Messenger
	store        *session.Store
	messenger    *messenger.Messenger
	out          io.Writer

	commands  *commands.Registry
	parser    *commands.Parser
	completer *commands.Completer
}

// NewChatCLI creates a client reading from line. An empty historyFile
// disables input history. The session store is opened by Run once a user
// is signed in.
func NewChatCLI(line LineReader, historyFile string, gate *auth.Gate, openStore func() (*session.Store, error), newMessenger func(*session.Store) *messenger.Messenger, out io.Writer) *ChatCLI {
	c := &ChatCLI{
		line:         line,
		historyFile:  historyFile,
		gate:         gate,
		openStore:    openStore,
		newMessenger: newMessenger,
		out:          out,
	}
	c.registerCommands()
	c.loadHistory()
	return c
}

// HandleREPL runs the line-mode client against the configured backend.
func HandleREPL(env *Env, _ Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if dir, err := config.ConfigDir(); err == nil {
		historyFile = filepath.Join(dir, replHistoryFile)
	}

	c := NewChatCLI(line, historyFile, env.Gate, env.OpenSessions, env.NewMessenger, env.Out)
	line.SetCompleter(c.Complete)
	defer c.Close()

	return c.Run(context.Background())
}

func (c *ChatCLI) loadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// saveHistory writes the input history with owner-only permissions.
func (c *ChatCLI) saveHistory() {
	if c.historyFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// readInput prompts and records non-blank input in the history.
func (c *ChatCLI) readInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// =============================================================================
// MAIN LOOP
// =============================================================================

// Run logs in if needed, then reads and sends messages until /exit, Ctrl+C
// or end of input.
func (c *ChatCLI) Run(ctx context.Context) error {
	user, ok, err := c.gate.Current()
	if err != nil {
		return err
	}
	if !ok {
		user, err = c.login()
		if err != nil {
			if isEndOfInput(err) {
				fmt.Fprintln(c.out)
				return nil
			}
			return err
		}
	}

	store, err := c.openStore()
	if err != nil {
		return err
	}
	c.store = store
	c.messenger = c.newMessenger(store)

	fmt.Fprintf(c.out, "%s  %s\n", TitleStyle.Render("Spectre AI"), DimStyle.Render("signed in as "+user.Username))
	fmt.Fprintln(c.out, DimStyle.Render("Type /help for commands, /exit to quit."))
	c.replay()

	for {
		input, err := c.readInput("spectre> ")
		if err != nil {
			fmt.Fprintln(c.out)
			if isEndOfInput(err) {
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing, err := c.handleSlashCommand(input)
			if err != nil {
				fmt.Fprintf(c.out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return nil
		}

		c.send(ctx, input)
	}
}

func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted)
}

// login asks for the two form fields until both are filled in.
func (c *ChatCLI) login() (model.User, error) {
	fmt.Fprintln(c.out, TitleStyle.Render("Welcome to Spectre AI"))
	fmt.Fprintln(c.out, DimStyle.Render("Sign in to continue."))
	for {
		username, err := c.line.Prompt("Username: ")
		if err != nil {
			return model.User{}, err
		}
		email, err := c.line.Prompt("Email: ")
		if err != nil {
			return model.User{}, err
		}
		if err := auth.Validate(username, email); err != nil {
			fmt.Fprintf(c.out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			continue
		}
		return c.gate.Login(username, email)
	}
}

// send runs the whole send flow synchronously and prints the reply.
func (c *ChatCLI) send(ctx context.Context, text string) {
	if c.store.ActiveID() == "" {
		if _, err := c.store.Create(); err != nil {
			fmt.Fprintf(c.out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			return
		}
	}
	fmt.Fprintln(c.out, DimStyle.Render(model.LabelThinking))
	reply, err := c.messenger.Send(ctx, text)
	if err != nil {
		fmt.Fprintf(c.out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		return
	}
	c.printMessage(reply)
}

func (c *ChatCLI) printMessage(m model.ChatMessage) {
	style := AssistantStyle
	if m.Role == model.RoleUser {
		style = UserStyle
	}
	fmt.Fprintf(c.out, "%s %s\n%s\n\n",
		style.Render(m.Role.DisplayName()),
		DimStyle.Render(m.Clock()),
		m.Content)
}

// replay prints the tail of the active session.
func (c *ChatCLI) replay() {
	active, ok := c.store.Active()
	if !ok {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n\n", LabelStyle.Render("Session:"), active.Title)
	msgs := active.Messages
	if len(msgs) > replayCount {
		fmt.Fprintln(c.out, DimStyle.Render(fmt.Sprintf("... %d earlier message(s)", len(msgs)-replayCount)))
		msgs = msgs[len(msgs)-replayCount:]
	}
	for _, m := range msgs {
		c.printMessage(m)
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// registerCommands builds the slash command table.
func (c *ChatCLI) registerCommands() {
	r := commands.NewRegistry()

	r.Register(&commands.Command{
		Name:        "/new",
		Description: "Start a new chat",
		Category:    "Chats",
		Handler:     c.cmdNew,
	})
	r.Register(&commands.Command{
		Name:        "/list",
		Aliases:     []string{"/ls"},
		Description: "List chats (* marks the active one)",
		Category:    "Chats",
		Handler:     func([]string, string) error { c.printList(); return nil },
	})
	r.Register(&commands.Command{
		Name:        "/switch",
		Usage:       "/switch <n>",
		Description: "Switch to chat n from /list",
		Category:    "Chats",
		Args: []commands.ArgDef{{
			Name:        "n",
			Required:    true,
			Type:        commands.ArgTypeNumber,
			Description: "chat number",
			Completer:   c.sessionNumbers,
		}},
		Handler: c.cmdSwitch,
	})
	r.Register(&commands.Command{
		Name:        "/title",
		Usage:       "/title <text>",
		Description: "Rename the active chat",
		Category:    "Chats",
		Args:        []commands.ArgDef{{Name: "text", Required: true, Description: "new title"}},
		Handler:     c.cmdTitle,
	})
	r.Register(&commands.Command{
		Name:        "/delete",
		Description: "Delete the active chat",
		Category:    "Chats",
		Handler:     c.cmdDelete,
	})
	r.Register(&commands.Command{
		Name:        "/clear",
		Description: "Delete all chats",
		Category:    "Chats",
		Handler:     c.cmdClear,
	})
	r.Register(&commands.Command{
		Name:        "/export",
		Usage:       "/export [file]",
		Description: "Print the active chat as Markdown, or save it (.md, .json, .html)",
		Category:    "Chats",
		Args:        []commands.ArgDef{{Name: "file", Type: commands.ArgTypeFile}},
		Handler:     c.cmdExport,
	})

	r.Register(&commands.Command{
		Name:        "/mic",
		Description: "Toggle the microphone indicator",
		Category:    "Assistant",
		Handler: func([]string, string) error {
			fmt.Fprintln(c.out, c.messenger.ToggleListening().Label())
			return nil
		},
	})
	r.Register(&commands.Command{
		Name:        "/speaker",
		Description: "Toggle the speaker indicator",
		Category:    "Assistant",
		Handler: func([]string, string) error {
			fmt.Fprintln(c.out, c.messenger.ToggleSpeaking().Label())
			return nil
		},
	})
	r.Register(&commands.Command{
		Name:        "/status",
		Description: "Show the assistant status",
		Category:    "Assistant",
		Handler: func([]string, string) error {
			fmt.Fprintln(c.out, c.messenger.Status().Label())
			return nil
		},
	})

	r.Register(&commands.Command{
		Name:        "/help",
		Aliases:     []string{"/?"},
		Description: "Show this list",
		Category:    "General",
		Handler:     func([]string, string) error { return r.WriteHelp(c.out) },
	})
	r.Register(&commands.Command{
		Name:        "/logout",
		Description: "Sign out and remove chat history",
		Category:    "General",
		Handler:     c.cmdLogout,
	})
	r.Register(&commands.Command{
		Name:        "/exit",
		Aliases:     []string{"/quit", "/q"},
		Description: "Quit",
		Category:    "General",
		Handler:     func([]string, string) error { return commands.ErrQuit },
	})

	c.commands = r
	c.parser = commands.NewParser(r)
	c.completer = commands.NewCompleter(r)
}

// Complete offers tab completions for the current line.
func (c *ChatCLI) Complete(line string) []string {
	return c.completer.Lines(line)
}

// handleSlashCommand runs one command. It returns false when the loop
// should end.
func (c *ChatCLI) handleSlashCommand(input string) (bool, error) {
	err := c.parser.Run(input)
	switch {
	case errors.Is(err, commands.ErrQuit):
		return false, nil
	case errors.Is(err, commands.ErrUnknownCommand):
		return true, &UsageError{Message: err.Error(), Usage: "/help"}
	}
	return true, err
}

func (c *ChatCLI) cmdNew([]string, string) error {
	s, err := c.store.Create()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Started %s.\n", s.Title)
	return nil
}

func (c *ChatCLI) cmdSwitch(args []string, _ string) error {
	n, err := ParseIntWithValidation(args[0], "chat number")
	if err != nil {
		return err
	}
	all := c.store.Sessions()
	if n > len(all) {
		return &NotFoundError{Resource: "chat", ID: args[0]}
	}
	if err := c.store.Select(all[n-1].ID); err != nil {
		return err
	}
	c.replay()
	return nil
}

// sessionNumbers lists the numbers /switch accepts.
func (c *ChatCLI) sessionNumbers() []string {
	if c.store == nil {
		return nil
	}
	n := c.store.Len()
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

func (c *ChatCLI) cmdTitle(args []string, _ string) error {
	return c.store.Update(c.store.ActiveID(), session.TitlePatch(strings.Join(args, " ")))
}

func (c *ChatCLI) cmdDelete([]string, string) error {
	if c.messenger.Busy() {
		return messenger.ErrBusy
	}
	if err := c.store.Delete(c.store.ActiveID()); err != nil {
		return err
	}
	c.replay()
	return nil
}

func (c *ChatCLI) cmdClear([]string, string) error {
	ans, err := c.line.Prompt("Delete all chats? [y/N]: ")
	if err != nil {
		return nil
	}
	if ok, _ := ParseBoolString(ans); !ok {
		fmt.Fprintln(c.out, "Cancelled.")
		return nil
	}
	if err := c.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, SuccessStyle.Render("Chat history cleared."))
	return nil
}

// cmdExport prints the active chat as Markdown, or writes it to the named
// file in the format its extension implies.
func (c *ChatCLI) cmdExport(args []string, _ string) error {
	active, ok := c.store.Active()
	if !ok {
		return messenger.ErrNoActiveSession
	}
	if len(args) == 0 {
		data, err := export.NewMarkdownExporter(nil).Export(active)
		if err != nil {
			return err
		}
		_, err = c.out.Write(data)
		return err
	}

	path := args[0]
	exporter, err := export.ForFormat(export.FormatForPath(path), nil)
	if err != nil {
		return err
	}
	if err := export.ToFile(active, exporter, path); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Wrote %s\n", util.ExpandHome(path))
	return nil
}

func (c *ChatCLI) cmdLogout([]string, string) error {
	if err := c.gate.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Logged out. Chat history removed.")
	return commands.ErrQuit
}

func (c *ChatCLI) printList() {
	activeID := c.store.ActiveID()
	for i, s := range c.store.Sessions() {
		marker := " "
		if s.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %2d  %s %s\n", marker, i+1,
			util.TruncateWidth(util.SingleLine(s.Title), 40),
			DimStyle.Render(fmt.Sprintf("(%d)", s.MessageCount())))
	}
}
