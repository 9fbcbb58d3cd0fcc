// spectre - terminal chat client for the Spectre assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/spectre-tui/internal/cli"
	"github.com/jeranaias/spectre-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(cli.GetExitCode(run(os.Args[1:])))
}

func run(argv []string) error {
	cmd, args := cli.Parse(argv)

	// Commands that need no configuration or storage
	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return nil
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return nil
	}

	cfg, err := cli.LoadConfig(args, os.Stderr)
	if err != nil {
		return report(err)
	}

	env, err := cli.Bootstrap(cfg, nil)
	if err != nil {
		return report(err)
	}
	defer env.Close()

	if cmd == cli.CmdTUI {
		return report(runTUI(env))
	}
	return report(cli.Run(cmd, args, env))
}

// runTUI runs the full-screen interface until the user quits.
func runTUI(env *cli.Env) error {
	logger := env.Logger.Named("tui")

	m, err := app.New(app.Deps{
		Gate:         env.Gate,
		OpenStore:    env.OpenSessions,
		NewMessenger: env.NewMessenger,
		Logger:       logger,
		UI:           env.Config.UI,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	logger.Info("interface started", zap.String("version", Version))
	if _, err := p.Run(); err != nil {
		logger.Error("interface stopped", zap.Error(err))
		return fmt.Errorf("error running spectre: %w", err)
	}
	logger.Info("interface closed")
	return nil
}

// report prints err to stderr and passes it through for the exit code.
func report(err error) error {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", cli.ErrorStyle.Render("Error:"), err)
	}
	return err
}
