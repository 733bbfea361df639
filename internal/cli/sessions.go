// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Session management commands.
//
// Commands:
//   sessions            List the backend's sessions
//   history [id]        Print a session's messages (default: active session)
//   load <id>           Make a session the active one
//   new                 Forget the active session

package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aura-tui/internal/model"
	"github.com/jeranaias/aura-tui/internal/storage"
	"github.com/jeranaias/aura-tui/internal/util"
)

// errNoSession is returned when a command needs a session id and none is
// given or remembered.
var errNoSession = errors.New("no session id given and no active session")

// activeSessionID returns args[0] when present, else the stored id.
func activeSessionID(args []string, store storage.Store) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	id, ok, err := store.Get(storage.SessionIDKey)
	if err != nil {
		return "", errors.Wrap(err, "read active session")
	}
	if !ok || id == "" {
		return "", errNoSession
	}
	return id, nil
}

// =============================================================================
// SESSIONS
// =============================================================================

func newSessionsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"ls"},
		Short:   "List recent chats",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := opts.newClient().ListSessions(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "list sessions")
			}
			active, _, _ := store.Get(storage.SessionIDKey)

			out := cmd.OutOrStdout()
			if asJSON {
				return NewJSONResponse("sessions", sessions).Print(out)
			}
			if len(sessions) == 0 {
				fmt.Fprintln(out, DimStyle.Render("No chats yet"))
				return nil
			}
			fmt.Fprintln(out, TitleStyle.Render("Recent Chats"))
			for _, s := range sessions {
				marker := "  "
				if s.SessionID == active {
					marker = "* "
				}
				line := marker + ValueStyle.Render(util.SingleLine(s.Label()))
				if s.CreatedAt != "" {
					line += "  " + DimStyle.Render(s.CreatedAt)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")
	return cmd
}

// =============================================================================
// HISTORY
// =============================================================================

// historyResult is the --json payload of history.
type historyResult struct {
	SessionID string             `json:"session_id"`
	Messages  model.Conversation `json:"messages"`
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON bool
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "Print the messages of a chat",
		Long:  "Print the messages of a chat. Without an id, the active session is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := activeSessionID(args, store)
			if err != nil {
				return err
			}
			conv, err := opts.newClient().History(cmd.Context(), id)
			if err != nil {
				return errors.Wrapf(err, "load history of %s", id)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return NewJSONResponse("history", historyResult{SessionID: id, Messages: conv}).Print(out)
			}
			renderer := newMarkdownRenderer(!raw && opts.cfg.UI.RenderMarkdown)
			for i, msg := range conv {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, RenderRole(msg.Role))
				fmt.Fprintln(out, renderMarkdown(renderer, msg.Content))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the messages as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "print replies without Markdown rendering")
	return cmd
}

// =============================================================================
// LOAD / NEW
// =============================================================================

func newLoadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <session-id>",
		Short: "Make a chat the active session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, store, err := opts.newController()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := ctrl.LoadSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			n := len(ctrl.State().Conversation)
			fmt.Fprintln(cmd.OutOrStdout(), RenderSuccess(fmt.Sprintf("Active session is now %s (%d messages)", args[0], n)))
			return nil
		},
	}
}

func newNewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Forget the active session so the next message starts a new chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _, store, err := opts.newController()
			if err != nil {
				return err
			}
			defer store.Close()

			ctrl.NewChat()
			fmt.Fprintln(cmd.OutOrStdout(), RenderSuccess("Started a new chat"))
			return nil
		},
	}
}
