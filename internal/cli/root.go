// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// root.go - Root command, persistent flags and shared wiring.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aura-tui/internal/backend"
	"github.com/jeranaias/aura-tui/internal/config"
	"github.com/jeranaias/aura-tui/internal/logging"
	"github.com/jeranaias/aura-tui/internal/session"
	"github.com/jeranaias/aura-tui/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// annotationOwnsTerminal marks commands that take over the screen; their
// logs never go to stderr.
const annotationOwnsTerminal = "owns-terminal"

// rootOptions holds the persistent flags and the state built from them
// before any subcommand runs.
type rootOptions struct {
	configPath string
	apiURL     string
	logLevel   string
	ephemeral  bool

	cfg       *config.Config
	logCloser io.Closer
}

// NewRootCommand builds the aura command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootOptions{})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "aura",
		Short: "Terminal client for the Aura AI chat backend",
		Long: `aura talks to an Aura AI chat backend. Run it without arguments in a
terminal to open the chat interface, or use one of the commands below
from scripts.

The active session id is remembered between runs, so "aura ask" and
"aura chat" continue the conversation the TUI left off.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{annotationOwnsTerminal: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !IsTTY() || !IsStdoutTTY() {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), opts)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("aura %s\n  commit: %s\n  built:  %s\n", Version, GitCommit, BuildDate))

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.aura/config.toml)")
	flags.StringVar(&opts.apiURL, "api-url", "", "backend base URL (overrides config and AURA_API_URL)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "do not remember the active session between runs")

	root.AddCommand(
		newTUICmd(opts),
		newAskCmd(opts),
		newChatCmd(opts),
		newSessionsCmd(opts),
		newHistoryCmd(opts),
		newLoadCmd(opts),
		newNewCmd(opts),
		newExportCmd(opts),
		newStatusCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &rootOptions{}
	if err := opts.execute(ctx, newRootCommand(opts)); err != nil {
		fmt.Fprintln(os.Stderr, RenderError(err.Error()))
		return 1
	}
	return 0
}

// =============================================================================
// SETUP
// =============================================================================

// setup loads the configuration, applies flag overrides and starts logging.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if o.apiURL != "" {
		cfg.Backend.URL = o.apiURL
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	o.cfg = cfg

	logFile, err := cfg.LogFile()
	if err != nil {
		return err
	}
	logOpts := logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       logFile,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}
	// An explicit --log-level also echoes to stderr, unless the command
	// draws on the terminal.
	if o.logLevel != "" && cmd.Annotations[annotationOwnsTerminal] != "true" {
		logOpts.Console = cmd.ErrOrStderr()
	}
	closer, err := logging.Init(logOpts)
	if err != nil {
		return errors.Wrap(err, "init logging")
	}
	o.logCloser = closer

	log.Debug().
		Str("command", cmd.CommandPath()).
		Str("backend", cfg.Backend.URL).
		Str("storage", cfg.Storage.Driver).
		Bool("ephemeral", o.ephemeral).
		Msg("starting")
	return nil
}

// execute runs cmd and closes the log file afterwards. Cobra skips post-run
// hooks when RunE fails, so the close cannot live there.
func (o *rootOptions) execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if closeErr := o.teardown(); err == nil {
		err = closeErr
	}
	return err
}

func (o *rootOptions) teardown() error {
	if o.logCloser == nil {
		return nil
	}
	err := o.logCloser.Close()
	o.logCloser = nil
	return err
}

// loadConfig reads --config when given, else the default location.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.Load()
	}
	if _, err := os.Stat(o.configPath); err != nil {
		return nil, errors.Wrapf(err, "config file %s", o.configPath)
	}
	return config.LoadFromPath(o.configPath)
}

// configFile returns the path config commands read and write.
func (o *rootOptions) configFile() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.ConfigPath()
}

// =============================================================================
// DEPENDENCIES
// =============================================================================

// newClient builds the backend client from the loaded configuration.
func (o *rootOptions) newClient() *backend.Client {
	return backend.NewClient(&backend.ClientConfig{
		BaseURL:           o.cfg.Backend.URL,
		Timeout:           o.cfg.Backend.Timeout(),
		Model:             o.cfg.Backend.Model,
		RequestsPerSecond: o.cfg.Backend.RequestsPerSecond,
		UserAgent:         "aura/" + Version,
	})
}

// openStore opens the durable session store, or a memory store with
// --ephemeral.
func (o *rootOptions) openStore() (storage.Store, error) {
	if o.ephemeral {
		return storage.NewMemoryStore(), nil
	}
	dir, err := o.cfg.DataDir()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(storage.Options{Driver: o.cfg.Storage.Driver, Dir: dir})
	if err != nil {
		return nil, errors.Wrap(err, "open session store")
	}
	return store, nil
}

// newController wires a controller over a fresh client and store. The
// caller closes the store.
func (o *rootOptions) newController(opts ...session.Option) (*session.Controller, *backend.Client, storage.Store, error) {
	store, err := o.openStore()
	if err != nil {
		return nil, nil, nil, err
	}
	client := o.newClient()
	return session.NewController(client, store, opts...), client, store, nil
}
