// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands implements the slash commands of the line-mode client.
//
// A Registry holds the commands, a Parser turns a line such as
// `/title "Trip plans"` into a validated call of the command's Handler, and
// a Completer offers tab completion for command names and arguments.
//
// # Usage
//
//	reg := commands.NewRegistry()
//	reg.Register(&commands.Command{
//	    Name:    "/exit",
//	    Aliases: []string{"/quit", "/q"},
//	    Handler: func([]string, string) error { return commands.ErrQuit },
//	})
//
//	err := commands.NewParser(reg).Run("/q")
//	// errors.Is(err, commands.ErrQuit) == true
//
// Completions for a line editor:
//
//	lines := commands.NewCompleter(reg).Lines("/ex")
//	// Returns ["/exit"]
package commands
