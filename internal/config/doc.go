// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for spectre.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - EndpointConfig: Chat endpoint URL and request timeout
//   - StorageConfig: Persistence backend selection (file, sqlite, redis, memory)
//   - UIConfig: Theme, timestamps, markdown rendering, sidebar width
//   - LogConfig: Diagnostic log level and path
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SPECTRE_*), including ones read from .env
//   - ~/.spectre/config.toml
//   - ~/.spectre/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts, err := cfg.StorageOptions()
//	backend, err := storage.Open(opts)
package config
