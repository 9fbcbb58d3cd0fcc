// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation prompts for destructive commands.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// RequireConfirmation asks before a destructive action.
//
// With --confirm it proceeds without prompting. Without a terminal it
// refuses rather than guessing, so scripts must pass --confirm.
//
//	ok, err := RequireConfirmation(env.In, env.Out, confirm, "clear all chat history")
//	if err != nil {
//	    return err
//	}
//	if !ok {
//	    fmt.Fprintln(env.Out, "Cancelled.")
//	    return nil
//	}
func RequireConfirmation(in io.Reader, out io.Writer, confirmFlag bool, action string) (bool, error) {
	if confirmFlag {
		return true, nil
	}

	if err := RequiresTTY(action); err != nil {
		return false, fmt.Errorf("confirmation required: %w; use --confirm", err)
	}

	return PromptYesNo(in, out, fmt.Sprintf("Are you sure you want to %s?", action)), nil
}

// PromptYesNo prints question and reads a y/N answer. Anything but "y" or
// "yes" is a no.
func PromptYesNo(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", WarningStyle.Render(question))

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes"
}
