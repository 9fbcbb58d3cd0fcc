// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"io"
	"strings"
)

// helpColumn is the width of the usage column in help output.
const helpColumn = 18

// WriteHelp lists the visible commands grouped by category.
func (r *Registry) WriteHelp(w io.Writer) error {
	groups := r.ByCategory()

	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, category := range r.Categories() {
		cmds := groups[category]
		if len(cmds) == 0 {
			continue
		}
		if category != "" {
			fmt.Fprintf(&b, "\n%s:\n", category)
		}
		for _, cmd := range cmds {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			desc := cmd.Description
			if len(cmd.Aliases) > 0 {
				desc += " (also " + strings.Join(cmd.Aliases, ", ") + ")"
			}
			fmt.Fprintf(&b, "  %-*s %s\n", helpColumn, usage, desc)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
