// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// env.go - Shared wiring for every command: configuration, logging,
// persistence and the chat client.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jeranaias/spectre-tui/internal/auth"
	"github.com/jeranaias/spectre-tui/internal/chatapi"
	"github.com/jeranaias/spectre-tui/internal/config"
	"github.com/jeranaias/spectre-tui/internal/logging"
	"github.com/jeranaias/spectre-tui/internal/messenger"
	"github.com/jeranaias/spectre-tui/internal/session"
	"github.com/jeranaias/spectre-tui/internal/storage"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// LoadConfig resolves the configuration for a command line. A broken file
// in the default location is reported on warn and replaced by defaults; an
// explicit --config that fails to load is an error.
func LoadConfig(args Args, warn io.Writer) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, &ConfigError{Err: err}
		}
		if err != nil {
			fmt.Fprintf(warn, "%s %v (using defaults)\n", WarningStyle.Render("[config]"), err)
		}
	}

	if err := applyFlagOverrides(cfg, args); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

// applyFlagOverrides layers --endpoint and --backend over the loaded config.
func applyFlagOverrides(cfg *config.Config, args Args) error {
	if args.Endpoint == "" && args.Backend == "" {
		return nil
	}
	if args.Endpoint != "" {
		cfg.Endpoint.URL = args.Endpoint
	}
	if args.Backend != "" {
		cfg.Storage.Backend = args.Backend
	}
	cfg.Migrate()
	return cfg.Validate()
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

// Env holds the services a command needs. Build it with Bootstrap and
// release it with Close.
type Env struct {
	Config *config.Config
	Logger *zap.Logger

	Backend storage.Backend
	Users   *storage.UserRepository
	History *storage.SessionRepository
	Gate    *auth.Gate
	Client  *chatapi.Client

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Bootstrap opens the configured backend and builds the services on top of
// it. A nil logger means the log file from cfg.
func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Env, error) {
	if logger == nil {
		l, err := logging.New(logging.Options{Level: cfg.Log.Level, Path: cfg.LogPath()})
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		logger = l
	}

	opts, err := cfg.StorageOptions()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	backend, err := storage.Open(opts)
	if err != nil {
		logger.Error("failed to open storage", zap.String("backend", string(opts.Kind)), zap.Error(err))
		return nil, fmt.Errorf("failed to open %s storage: %w", opts.Kind, err)
	}
	logger.Info("storage opened", zap.String("backend", string(opts.Kind)))

	users := storage.NewUserRepository(backend)
	history := storage.NewSessionRepository(backend)

	return &Env{
		Config:  cfg,
		Logger:  logger,
		Backend: backend,
		Users:   users,
		History: history,
		Gate:    auth.NewGate(users, history, auth.WithLogger(logger.Named("auth"))),
		Client:  chatapi.NewClientWithConfig(cfg.ClientConfig(Version)),
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}, nil
}

// OpenSessions loads the chat history into a session store. Opening creates
// the initial session when nothing was persisted yet.
func (e *Env) OpenSessions() (*session.Store, error) {
	store, err := session.Open(e.History, session.WithLogger(e.Logger.Named("session")))
	if err != nil {
		return nil, &CommandError{Command: "sessions", Action: "load", Err: err}
	}
	return store, nil
}

// LoadSessions loads the chat history for reading. Unlike OpenSessions it
// never writes, so an absent history stays absent.
func (e *Env) LoadSessions() (*session.Store, error) {
	store, err := session.Open(e.History,
		session.WithLogger(e.Logger.Named("session")),
		session.WithoutInitialSession())
	if err != nil {
		return nil, &CommandError{Command: "sessions", Action: "load", Err: err}
	}
	return store, nil
}

// NewMessenger builds the send flow over store.
func (e *Env) NewMessenger(store *session.Store) *messenger.Messenger {
	return messenger.New(store, e.Client, messenger.WithLogger(e.Logger.Named("messenger")))
}

// Close releases the backend and flushes the logger.
func (e *Env) Close() error {
	err := e.Backend.Close()
	_ = e.Logger.Sync()
	return err
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes a non-TUI command against env.
func Run(cmd Command, args Args, env *Env) error {
	switch cmd {
	case CmdREPL:
		return HandleREPL(env, args)
	case CmdSessions:
		return HandleSessions(env, args)
	case CmdExport:
		return HandleExport(env, args)
	case CmdLogout:
		return HandleLogout(env, args)
	case CmdClear:
		return HandleClear(env, args)
	case CmdConfig:
		return HandleConfig(args, env.Config, env.Out)
	case CmdVersion:
		PrintVersion(env.Out)
		return nil
	case CmdHelp:
		PrintUsage(env.Out)
		return nil
	case CmdUnknown:
		return &UsageError{Message: fmt.Sprintf("unknown command %q", args.Unknown), Usage: "spectre help"}
	default:
		return errors.New("command needs the terminal interface")
	}
}
