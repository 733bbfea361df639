// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the aura command line.

Without arguments in a terminal, aura opens the full-screen chat interface.
Every other command shares the same configuration, session store and
backend client, built once by the root command before the subcommand runs.

# Commands

  - tui: full-screen chat interface (the default in a terminal)
  - ask: send one message and print the reply
  - chat: line-mode chat with input history
  - sessions, history, load, new: session management
  - export: write a transcript as Markdown, JSON or YAML
  - status: check the backend
  - config: show, path, init, get, set, keys

# Persistent Flags

	--config      config file (default ~/.aura/config.toml)
	--api-url     backend base URL
	--log-level   log level; also echoes logs to stderr for line commands
	--ephemeral   keep the active session in memory only
*/
package cli
