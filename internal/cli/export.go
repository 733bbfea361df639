// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export.go - Transcript export.
//
// Command: export [session-id]
//
// Examples:
//   aura export                          Export the active session as Markdown
//   aura export abc123 --format json     Export a session as JSON
//   aura export --format yaml -o -       Write YAML to stdout

package cli

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aura-tui/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format   string
		output   string
		open     bool
		noHeader bool
	)

	cmd := &cobra.Command{
		Use:   "export [session-id]",
		Short: "Export a chat transcript to a file",
		Long: fmt.Sprintf(`Export a chat transcript. Without an id, the active session is used.
Formats: %s. Use --output - to write to stdout.`, strings.Join(export.Formats, ", ")),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportOpts := export.DefaultOptions()
			exportOpts.OutputDir = output
			exportOpts.OpenAfterExport = open
			exportOpts.IncludeMetadata = !noHeader

			exporter, err := export.ForFormat(format, exportOpts)
			if err != nil {
				return err
			}

			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := activeSessionID(args, store)
			if err != nil {
				return err
			}

			client := opts.newClient()
			conv, err := client.History(cmd.Context(), id)
			if err != nil {
				return errors.Wrapf(err, "load history of %s", id)
			}

			transcript := export.NewTranscript(id, conv)
			// Created-at only comes from the session list; missing it is fine.
			if sessions, err := client.ListSessions(cmd.Context()); err == nil {
				for _, s := range sessions {
					if s.SessionID == id {
						transcript.CreatedAt = s.CreatedAt
						break
					}
				}
			}

			if output == "-" {
				return export.Write(cmd.OutOrStdout(), transcript, exporter)
			}
			path, err := export.ExportToFile(transcript, exporter, exportOpts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderSuccess(fmt.Sprintf("Exported %d messages to %s", len(conv), path)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "md", "output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory, or - for stdout")
	cmd.Flags().BoolVar(&open, "open", false, "open the file after exporting")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the metadata header")
	return cmd
}
