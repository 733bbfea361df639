// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides conversation export functionality for aura.
//
// A session's history is wrapped in a Transcript and rendered by an
// Exporter to Markdown, JSON or YAML.
//
// # Key Types
//
//   - Transcript: a session's messages plus export metadata
//   - Exporter: format-specific renderer
//   - Options: Export configuration options
//
// # Supported Formats
//
//   - Markdown: Human-readable with YAML frontmatter
//   - JSON: Machine-readable, {role, content} messages
//   - YAML: Machine-readable, same shape as JSON
//
// # Usage
//
//	exporter, err := export.ForFormat("md", nil)
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(export.NewTranscript(id, conv), exporter, nil)
package export
