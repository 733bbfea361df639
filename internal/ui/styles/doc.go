// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the aura TUI.
//
// Colors are Lip Gloss AdaptiveColors so they follow the terminal's
// light or dark background. Theme bundles the styles for each screen
// region and tracks the layout size.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	theme.SetSize(width, height)
//	header := theme.Header.Render("Aura AI")
package styles
