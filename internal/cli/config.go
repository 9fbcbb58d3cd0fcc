// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The "spectre config" command.

package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jeranaias/spectre-tui/internal/config"
	"github.com/jeranaias/spectre-tui/internal/util"
)

// HandleConfig shows or edits the configuration.
//
//	spectre config [show]          effective config (env and flags applied)
//	spectre config get <key>       one effective value
//	spectre config set <key> <v>   edit the config file
//	spectre config path            where the file lives
//	spectre config keys            every settable key
func HandleConfig(args Args, cfg *config.Config, out io.Writer) error {
	p := NewArgParser(args.Raw)
	sub := strings.ToLower(p.Positional(0))

	switch sub {
	case "", "show":
		fmt.Fprintln(out, cfg.String())
		return nil

	case "get":
		key := p.Positional(1)
		if key == "" {
			return &UsageError{Message: "no config key provided", Usage: "spectre config get <key>"}
		}
		v, err := cfg.Get(key)
		if err != nil {
			return &UsageError{Message: err.Error(), Usage: "spectre config keys"}
		}
		fmt.Fprintln(out, maskIfSecret(key, fmt.Sprint(v)))
		return nil

	case "set":
		key, value := p.Positional(1), strings.Join(p.PositionalFrom(2), " ")
		if key == "" || value == "" {
			return &UsageError{Message: "key and value required", Usage: "spectre config set <key> <value>"}
		}
		path, err := configFilePath(args)
		if err != nil {
			return &ConfigError{Err: err}
		}
		if err := setInFile(path, key, value); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s = %s\n", SuccessStyle.Render("[OK]"), key, maskIfSecret(key, value))
		return nil

	case "path":
		path, err := configFilePath(args)
		if err != nil {
			return &ConfigError{Err: err}
		}
		fmt.Fprintln(out, path)
		return nil

	case "keys":
		keys := config.GetAllKeys()
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintln(out, k)
		}
		return nil

	default:
		return &UsageError{Message: fmt.Sprintf("unknown config subcommand %q", sub), Usage: "spectre config [show|get|set|path|keys]"}
	}
}

// configFilePath is --config when given, otherwise ~/.spectre/config.toml.
func configFilePath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return util.ExpandHome(args.ConfigPath), nil
	}
	return config.ConfigPathTOML()
}

// setInFile edits the file itself rather than the effective config, so
// environment overrides are never written back.
func setInFile(path, key, value string) error {
	cfg := config.Default()
	isJSON := strings.HasSuffix(strings.ToLower(path), ".json")

	if _, err := os.Stat(path); err == nil {
		load := config.LoadTOML
		if isJSON {
			load = config.LoadJSON
		}
		if err := load(cfg, path); err != nil {
			return &ConfigError{Err: err}
		}
	}
	cfg.Migrate()

	if err := cfg.Set(key, value); err != nil {
		return &UsageError{Message: err.Error(), Usage: "spectre config keys"}
	}
	cfg.Migrate()
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Err: fmt.Errorf("invalid configuration value: %w", err)}
	}

	save := config.SaveTOML
	if isJSON {
		save = config.SaveJSON
	}
	if err := save(cfg, path); err != nil {
		return &CommandError{Command: "config", Action: "save", Err: err}
	}
	return nil
}

func maskIfSecret(key, value string) string {
	if strings.Contains(strings.ToLower(key), "password") && value != "" {
		return "[REDACTED]"
	}
	return value
}
