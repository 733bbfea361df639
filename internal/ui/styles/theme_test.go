// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_ExplicitModes(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("NewTheme(\"dark\").IsDark = false, want true")
	}
	if got := dark.GlamourStyle(); got != "dark" {
		t.Errorf("GlamourStyle() = %q, want %q", got, "dark")
	}

	light := NewTheme("light")
	if light.IsDark {
		t.Error("NewTheme(\"light\").IsDark = true, want false")
	}
	if got := light.GlamourStyle(); got != "light" {
		t.Errorf("GlamourStyle() = %q, want %q", got, "light")
	}
}

func TestTheme_LayoutMode(t *testing.T) {
	tests := []struct {
		width   int
		mode    LayoutMode
		sidebar int
	}{
		{40, LayoutNarrow, 0},
		{59, LayoutNarrow, 0},
		{60, LayoutMedium, 24},
		{99, LayoutMedium, 24},
		{100, LayoutWide, 32},
		{200, LayoutWide, 32},
	}

	theme := NewTheme("dark")
	for _, tt := range tests {
		theme.SetSize(tt.width, 30)
		if got := theme.GetLayoutMode(); got != tt.mode {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.mode)
		}
		if got := theme.SidebarWidth(); got != tt.sidebar {
			t.Errorf("width %d: SidebarWidth() = %d, want %d", tt.width, got, tt.sidebar)
		}
	}
}

func TestRenderHelpers_IncludeIndicators(t *testing.T) {
	tests := []struct {
		name      string
		got       string
		indicator string
	}{
		{"success", RenderSuccess("saved"), StatusIndicators.Success},
		{"error", RenderError("failed"), StatusIndicators.Error},
		{"warning", RenderWarning("careful"), StatusIndicators.Warning},
		{"info", RenderInfo("note"), StatusIndicators.Info},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.got, tt.indicator) {
			t.Errorf("%s: %q does not contain %q", tt.name, tt.got, tt.indicator)
		}
	}
}
