// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend and local state overview.
//
// Command: status

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/aura-tui/internal/backend"
	"github.com/jeranaias/aura-tui/internal/storage"
)

// statusCheckTimeout bounds the backend probe.
const statusCheckTimeout = 5 * time.Second

// statusInfo is the --json payload of status.
type statusInfo struct {
	Backend        string `json:"backend"`
	BackendRunning bool   `json:"backend_running"`
	BackendError   string `json:"backend_error,omitempty"`
	StorageDriver  string `json:"storage_driver"`
	ActiveSession  string `json:"active_session,omitempty"`
	Version        string `json:"version"`
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the backend and show the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			client := opts.newClient()
			info := statusInfo{
				Backend:       client.BaseURL(),
				StorageDriver: opts.cfg.Storage.Driver,
				Version:       Version,
			}
			if opts.ephemeral {
				info.StorageDriver = storage.DriverMemory
			}
			if id, ok, err := store.Get(storage.SessionIDKey); err == nil && ok {
				info.ActiveSession = id
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), statusCheckTimeout)
			defer cancel()
			checkErr := client.CheckRunning(ctx)
			if checkErr != nil {
				info.BackendError = checkErr.Error()
			} else {
				info.BackendRunning = true
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return NewJSONResponse("status", info).Print(out)
			}

			fmt.Fprintln(out, TitleStyle.Render("Aura AI"))
			backendLine := RenderSuccess("running")
			if !info.BackendRunning {
				hint := "not reachable"
				if backend.IsNotRunning(checkErr) {
					hint = "not running"
				}
				backendLine = RenderError(hint)
			}
			fmt.Fprintf(out, "%s%s %s\n", RenderLabel("Backend"), ValueStyle.Render(info.Backend), backendLine)
			fmt.Fprintf(out, "%s%s\n", RenderLabel("Storage"), ValueStyle.Render(info.StorageDriver))
			active := info.ActiveSession
			if active == "" {
				active = "(none)"
			}
			fmt.Fprintf(out, "%s%s\n", RenderLabel("Session"), ValueStyle.Render(active))
			fmt.Fprintf(out, "%s%s\n", RenderLabel("Version"), ValueStyle.Render(info.Version))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the status as JSON")
	return cmd
}
