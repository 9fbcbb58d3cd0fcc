// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command echoserver runs a local stand-in for the spectre chat backend.
//
// Every message sent to POST /api/chat/send is answered with "Echo: <text>".
// Settings come from the environment (or a .env file):
//
//	SPECTRE_ECHO_ADDR   listen address (default 127.0.0.1:5000)
//	SPECTRE_ECHO_RATE   sustained requests per second per IP (default 5)
//	SPECTRE_ECHO_BURST  burst size per IP (default 20)
//	SPECTRE_LOG_LEVEL   debug, info, warn, error (default info)
//
// A single positional argument overrides the listen address.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jeranaias/spectre-tui/internal/logging"
	"github.com/jeranaias/spectre-tui/internal/server"
)

type settings struct {
	Addr     string  `env:"SPECTRE_ECHO_ADDR" envDefault:"127.0.0.1:5000"`
	Rate     float64 `env:"SPECTRE_ECHO_RATE" envDefault:"5"`
	Burst    int     `env:"SPECTRE_ECHO_BURST" envDefault:"20"`
	LogLevel string  `env:"SPECTRE_LOG_LEVEL" envDefault:"info"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "echoserver: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env file: %v\n", err)
	}

	var cfg settings
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	if len(args) > 0 {
		cfg.Addr = args[0]
	}

	logger, err := logging.Console(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	srv := server.New(cfg.Addr,
		server.WithLogger(logger),
		server.WithRateLimiter(server.NewRateLimiter(cfg.Rate, cfg.Burst)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("signal received", zap.String("addr", srv.Addr()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
