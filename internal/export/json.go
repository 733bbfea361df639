// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/aura-tui/internal/model"
)

// document is the structured shape shared by the JSON and YAML exporters.
// Messages use the backend's {role, content} form.
type document struct {
	SessionID  string          `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Title      string          `json:"title" yaml:"title"`
	CreatedAt  string          `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	ExportedAt string          `json:"exported_at" yaml:"exported_at"`
	Messages   []model.Message `json:"messages" yaml:"messages"`
}

func newDocument(t *Transcript) document {
	return document{
		SessionID:  t.SessionID,
		Title:      t.Title,
		CreatedAt:  t.CreatedAt,
		ExportedAt: t.ExportedAt.Format(time.RFC3339),
		Messages:   t.Messages,
	}
}

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts to JSON. The output always carries the
// complete message list; Options do not filter it.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(newDocument(t), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
