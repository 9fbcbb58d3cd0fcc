// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands for
// spectre.
//
// # Key Types
//
//   - Command: Enumeration of the spectre commands
//   - Args: Global flags (--config, --endpoint, --backend) plus the raw
//     arguments that follow the command word
//   - Env: Configuration, logger, storage backend, login gate and chat
//     client shared by every command
//   - ChatCLI: The liner-based line-mode chat client
//   - ArgParser: Flag and positional parsing for a command's own arguments
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	cfg, err := cli.LoadConfig(args, os.Stderr)
//	env, err := cli.Bootstrap(cfg, nil)
//	defer env.Close()
//	err = cli.Run(cmd, args, env)
//	os.Exit(cli.GetExitCode(err))
//
// # Commands
//
//   - tui: Interactive interface (default, run by package main)
//   - repl: Line-mode chat with input history
//   - sessions: List sessions, optionally filtered with --search
//   - export: Print one session as Markdown
//   - logout: Remove the stored user and chat history
//   - clear: Delete all sessions after confirmation
//   - config: Show or edit the configuration
package cli
