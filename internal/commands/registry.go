// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"sort"
	"strings"
)

// ErrQuit is returned by a handler to end the command loop.
var ErrQuit = errors.New("quit")

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Handler runs a command with its parsed arguments. raw is everything after
// the command name, unsplit.
type Handler func(args []string, raw string) error

// Command is a slash command.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/q")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/switch <n>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler executes the command
	Handler Handler

	// Hidden commands don't appear in help or completion
	Hidden bool

	// Category groups commands in help
	Category string
}

// ArgType determines how an argument is completed and validated.
type ArgType int

const (
	// ArgTypeString is free text
	ArgTypeString ArgType = iota
	// ArgTypeNumber is a positive integer
	ArgTypeNumber
	// ArgTypeFile is a file path
	ArgTypeFile
	// ArgTypeEnum is one of Values
	ArgTypeEnum
)

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Values      []string
	Description string

	// Completer supplies candidate values when Values is not fixed
	Completer func() []string
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds the commands of one command loop.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]string
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]string),
	}
}

// Register adds cmd, replacing any command with the same name.
func (r *Registry) Register(cmd *Command) {
	name := strings.ToLower(cmd.Name)
	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, name)
	}
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[strings.ToLower(alias)] = name
	}
}

// Get finds a command by name or alias, ignoring case.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if target, ok := r.aliases[name]; ok {
		return r.commands[target]
	}
	return nil
}

// All returns the commands in registration order.
func (r *Registry) All() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Categories returns the category names in first-registration order.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, cmd := range r.All() {
		if !seen[cmd.Category] {
			seen[cmd.Category] = true
			out = append(out, cmd.Category)
		}
	}
	return out
}

// ByCategory groups visible commands by category.
func (r *Registry) ByCategory() map[string][]*Command {
	out := make(map[string][]*Command)
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		out[cmd.Category] = append(out[cmd.Category], cmd)
	}
	return out
}

// Names returns every visible name and alias, sorted.
func (r *Registry) Names() []string {
	var names []string
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		names = append(names, cmd.Name)
		names = append(names, cmd.Aliases...)
	}
	sort.Strings(names)
	return names
}
