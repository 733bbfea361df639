// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive line-mode chat.
//
// Command: chat
//
// A REPL over the same session controller the TUI uses, for terminals where
// a full-screen interface is unwelcome.
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /new, /n            Start a new chat
//   /sessions, /s       List recent chats
//   /load <id>          Switch to a chat
//   /history            Reprint the current conversation
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aura-tui/internal/config"
	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader reads one line of user input.
type lineReader interface {
	ReadInput(prompt string) (string, error)
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI whose history is kept in historyFile.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.LoadHistory()
	return c
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

func newChatCmd(opts *rootOptions) *cobra.Command {
	var newChat bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat line by line in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := RequiresTTY("start an interactive chat"); err != nil {
				return err
			}

			ctrl, _, store, err := opts.newController()
			if err != nil {
				return err
			}
			defer store.Close()

			dir, err := config.ConfigDir()
			if err != nil {
				dir = os.TempDir()
			}
			input := NewChatCLI(filepath.Join(dir, "chat_history"))
			defer input.Close()

			r := &repl{
				ctrl:     ctrl,
				in:       input,
				out:      cmd.OutOrStdout(),
				renderer: newMarkdownRenderer(opts.cfg.UI.RenderMarkdown),
			}
			return r.run(cmd.Context(), newChat)
		},
	}
	cmd.Flags().BoolVarP(&newChat, "new", "n", false, "start a new session instead of continuing")
	return cmd
}

// =============================================================================
// REPL
// =============================================================================

// repl drives a session controller from line input.
type repl struct {
	ctrl     *session.Controller
	in       lineReader
	out      io.Writer
	renderer *glamour.TermRenderer
}

// run loops until EOF, /quit or ctx ends.
func (r *repl) run(ctx context.Context, newChat bool) error {
	fmt.Fprintln(r.out, TitleStyle.Render("Aura AI"))
	fmt.Fprintln(r.out, DimStyle.Render("Type /help for commands, Ctrl+D to exit."))

	if newChat {
		r.ctrl.NewChat()
	} else {
		if err := r.ctrl.Initialize(ctx); err != nil {
			log.Debug().Err(err).Msg("initialize")
		}
		if id := r.ctrl.SessionID(); id != "" {
			fmt.Fprintf(r.out, "%s\n", DimStyle.Render("Continuing session "+id))
			r.printHistory()
		}
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := r.in.ReadInput("> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(r.out)
				return nil
			}
			return errors.Wrap(err, "read input")
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := r.handleCommand(ctx, line); quit {
				return nil
			}
			continue
		}
		r.send(ctx, line)
	}
}

func (r *repl) send(ctx context.Context, text string) {
	fmt.Fprintln(r.out, DimStyle.Render("Aura is thinking..."))
	err := r.ctrl.SendMessage(ctx, text)

	last, ok := r.ctrl.State().Conversation.LastAssistant()
	if err != nil {
		log.Warn().Err(err).Msg("send failed")
		if ok {
			fmt.Fprintln(r.out, RenderError(last.Content))
		}
		return
	}
	if ok {
		fmt.Fprintln(r.out, RenderRole(last.Role))
		fmt.Fprintln(r.out, renderMarkdown(r.renderer, last.Content))
	}
}

// handleCommand runs a slash command and reports whether to exit.
func (r *repl) handleCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		r.printHelp()

	case "/new", "/n":
		r.ctrl.NewChat()
		fmt.Fprintln(r.out, RenderSuccess("Started a new chat"))

	case "/sessions", "/s":
		if err := r.ctrl.RefreshSessionList(ctx); err != nil {
			fmt.Fprintln(r.out, RenderError("Failed to fetch chats: "+err.Error()))
			return false
		}
		r.printSessions()

	case "/load", "/l":
		if len(fields) < 2 {
			fmt.Fprintln(r.out, RenderError("Usage: /load <session-id>"))
			return false
		}
		if err := r.ctrl.LoadSession(ctx, fields[1]); err != nil {
			fmt.Fprintln(r.out, RenderError("Failed to load chat: "+err.Error()))
			return false
		}
		fmt.Fprintln(r.out, RenderSuccess("Loaded chat "+fields[1]))
		r.printHistory()

	case "/history":
		r.printHistory()

	default:
		fmt.Fprintln(r.out, RenderError("Unknown command "+fields[0]+" (try /help)"))
	}
	return false
}

func (r *repl) printHelp() {
	cmds := [][2]string{
		{"/new", "Start a new chat"},
		{"/sessions", "List recent chats"},
		{"/load <id>", "Switch to a chat"},
		{"/history", "Reprint the current conversation"},
		{"/quit", "Exit"},
	}
	for _, c := range cmds {
		fmt.Fprintf(r.out, "  %s %s\n", RenderLabel(c[0]), DimStyle.Render(c[1]))
	}
}

func (r *repl) printSessions() {
	state := r.ctrl.State()
	if len(state.Sessions) == 0 {
		fmt.Fprintln(r.out, DimStyle.Render("No chats yet"))
		return
	}
	for _, s := range state.Sessions {
		marker := "  "
		if s.SessionID == state.SessionID {
			marker = "* "
		}
		fmt.Fprintf(r.out, "%s%s %s\n", marker, ValueStyle.Render(util.SingleLine(s.Label())), DimStyle.Render(s.CreatedAt))
	}
}

func (r *repl) printHistory() {
	for _, msg := range r.ctrl.State().Conversation {
		fmt.Fprintln(r.out, RenderRole(msg.Role))
		fmt.Fprintln(r.out, renderMarkdown(r.renderer, msg.Content))
	}
}
