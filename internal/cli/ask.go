// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single message command.
//
// Command: ask <message>
//
// Sends one message within the remembered session (or a new one with --new)
// and prints the reply.
//
// Examples:
//   aura ask "What is the capital of France?"
//   echo "Summarize our chat" | aura ask -
//   aura ask --new --json "Start over"

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aura-tui/internal/session"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// newMarkdownRenderer returns a glamour renderer sized to the terminal, or
// nil when output is not a terminal or rendering is disabled.
func newMarkdownRenderer(enabled bool) *glamour.TermRenderer {
	if !enabled || !IsStdoutTTY() {
		return nil
	}
	width := GetTerminalWidth() - 4
	if width > MaxRenderWidth {
		width = MaxRenderWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("markdown renderer unavailable")
		return nil
	}
	return r
}

// renderMarkdown renders content with r, returning it unchanged when r is
// nil or rendering fails.
func renderMarkdown(r *glamour.TermRenderer, content string) string {
	if r == nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// askResult is the --json payload of ask.
type askResult struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		newChat bool
		raw     bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message and print the reply",
		Long: `Send one message within the remembered session and print the reply.
Use "-" as the message to read it from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := messageFromArgs(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctrl, _, store, err := opts.newController()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if newChat {
				ctrl.NewChat()
			} else if err := ctrl.Initialize(ctx); err != nil {
				// The reply only needs the restored history; a failed
				// session list is not worth aborting for.
				log.Debug().Err(err).Msg("initialize")
			}

			sendErr := ctrl.SendMessage(ctx, text)
			if sendErr != nil && (errors.Is(sendErr, session.ErrEmptyMessage) || errors.Is(sendErr, session.ErrBusy)) {
				return sendErr
			}

			state := ctrl.State()
			result := askResult{SessionID: state.SessionID}
			if last, ok := state.Conversation.LastAssistant(); ok {
				result.Reply = last.Content
			}

			out := cmd.OutOrStdout()
			if asJSON {
				resp := NewJSONResponse("ask", result)
				if sendErr != nil {
					resp = NewJSONErrorResponse("ask", result, sendErr)
				}
				if err := resp.Print(out); err != nil {
					return err
				}
				return sendErr
			}

			if sendErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), RenderError(result.Reply))
				return sendErr
			}
			fmt.Fprintln(out, renderMarkdown(newMarkdownRenderer(!raw && opts.cfg.UI.RenderMarkdown), result.Reply))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&newChat, "new", "n", false, "start a new session instead of continuing")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the reply without Markdown rendering")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// messageFromArgs joins the arguments, reading stdin for a lone "-".
func messageFromArgs(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "read stdin")
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	return strings.Join(args, " "), nil
}
