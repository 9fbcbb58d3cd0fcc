// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (set at build time via ldflags on package main)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command represents a CLI command.
type Command int

const (
	// CmdTUI launches the interactive terminal interface (default)
	CmdTUI Command = iota
	// CmdREPL runs the line-mode chat client
	CmdREPL
	// CmdSessions lists the saved chat sessions
	CmdSessions
	// CmdExport prints one session as Markdown
	CmdExport
	// CmdLogout removes the stored user and chat history
	CmdLogout
	// CmdClear wipes the chat history, leaving one fresh session
	CmdClear
	// CmdConfig shows or edits the configuration file
	CmdConfig
	// CmdVersion shows version information
	CmdVersion
	// CmdHelp shows help information
	CmdHelp
	// CmdUnknown is returned for an unrecognized command word
	CmdUnknown
)

// String returns the command word.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdREPL:
		return "repl"
	case CmdSessions:
		return "sessions"
	case CmdExport:
		return "export"
	case CmdLogout:
		return "logout"
	case CmdClear:
		return "clear"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds the parsed global flags and the command's own arguments.
type Args struct {
	// ConfigPath overrides ~/.spectre/config.toml
	ConfigPath string
	// Endpoint overrides endpoint.url
	Endpoint string
	// Backend overrides storage.backend
	Backend string

	// Raw is everything after the command word
	Raw []string

	// Unknown is the unrecognized command word, for CmdUnknown
	Unknown string
}

// =============================================================================
// USAGE
// =============================================================================

const usageText = `spectre - terminal chat client

Usage:
  spectre [global flags] [command] [args]

Commands:
  tui                      Launch the interactive interface (default)
  repl                     Line-mode chat against the active session
  sessions [--search q] [--json]
                           List saved chat sessions
  export <n|id>            Print a session as Markdown
         [--format md|json|html] [--out file] [--meta]
  logout                   Remove the stored user and chat history
  clear [--confirm]        Delete all chat sessions
  config [show|get|set|path]
                           Show or edit the configuration
  version                  Show version information
  help                     Show this help

Global flags:
  --config <path>          Use a specific config file (.toml or .json)
  --endpoint <url>         Chat endpoint (overrides endpoint.url)
  --backend <kind>         Storage backend: file, sqlite, redis, memory

Environment:
  SPECTRE_ENDPOINT, SPECTRE_BACKEND, SPECTRE_STORAGE_DIR, SPECTRE_LOG_LEVEL
  and the rest of the SPECTRE_* settings; .env files are read from
  ~/.spectre and the working directory.

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "spectre version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses command-line arguments (without the program name) and
// returns the command and args.
func Parse(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	parsedArgs.Raw = remaining[1:]

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "repl", "chat":
		return CmdREPL, parsedArgs
	case "sessions", "session", "ls":
		return CmdSessions, parsedArgs
	case "export":
		return CmdExport, parsedArgs
	case "logout":
		return CmdLogout, parsedArgs
	case "clear":
		return CmdClear, parsedArgs
	case "config":
		return CmdConfig, parsedArgs
	case "version", "-V", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		parsedArgs.Unknown = remaining[0]
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Global flags may appear anywhere on the line.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	takeValue := func(i *int, dst *string) {
		if *i+1 < len(args) {
			*i++
			*dst = args[*i]
		}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--config", "-c":
			takeValue(&i, &parsedArgs.ConfigPath)
		case "--endpoint":
			takeValue(&i, &parsedArgs.Endpoint)
		case "--backend":
			takeValue(&i, &parsedArgs.Backend)
		default:
			switch {
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			case strings.HasPrefix(arg, "--endpoint="):
				parsedArgs.Endpoint = strings.TrimPrefix(arg, "--endpoint=")
			case strings.HasPrefix(arg, "--backend="):
				parsedArgs.Backend = strings.TrimPrefix(arg, "--backend=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}
