// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - Full-screen chat interface.

package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/ui/chat"
	"github.com/jeranaias/aura-tui/internal/ui/styles"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:         "tui",
		Short:       "Open the full-screen chat interface",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationOwnsTerminal: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
}

// runTUI runs the Bubble Tea program until the user quits or ctx ends.
func runTUI(ctx context.Context, opts *rootOptions) error {
	if err := RequiresTTY("open the chat interface"); err != nil {
		return err
	}

	// The observer sends into the program, which exists only after the
	// controller does. No snapshot is published before Run starts Init.
	var program *tea.Program
	ctrl, client, store, err := opts.newController(
		session.WithObserver(chat.Forward(func(msg tea.Msg) { program.Send(msg) })),
	)
	if err != nil {
		return err
	}
	defer store.Close()

	theme := styles.NewTheme(opts.cfg.UI.Theme)
	m := chat.New(ctx, ctrl, theme, chat.Options{
		RenderMarkdown: opts.cfg.UI.RenderMarkdown,
		HideSidebar:    !opts.cfg.UI.ShowSidebar,
		BackendURL:     client.BaseURL(),
	})

	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	log.Info().Str("backend", client.BaseURL()).Msg("tui started")

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run chat interface")
	}
	log.Info().Str("session_id", ctrl.SessionID()).Msg("tui exited")
	return nil
}
