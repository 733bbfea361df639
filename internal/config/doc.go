// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for aura.
//
// Configuration is a single TOML file with sensible defaults, environment
// variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Chat backend address, timeout and model
//   - StorageConfig: Durable session id storage driver
//   - LogConfig: Log level, format and file rotation
//   - UIConfig: Terminal UI preferences
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command line flags (applied by the cli package)
//   - Environment variables (AURA_*)
//   - ~/.aura/config.toml (or $AURA_HOME/config.toml)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := backend.NewClient(&backend.ClientConfig{BaseURL: cfg.Backend.URL})
package config
