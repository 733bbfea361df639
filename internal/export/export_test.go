// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/aura-tui/internal/model"
)

func sampleTranscript() *Transcript {
	conv := model.Conversation{
		model.NewUserMessage("How do I print in Go?"),
		model.NewAssistantMessage("Use fmt:\n\n```go\nfmt.Println(\"hi\")\n```"),
	}
	t := NewTranscript("s1", conv)
	t.CreatedAt = "2025-01-01 10:00:00"
	t.ExportedAt = time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	return t
}

func TestNewTranscript(t *testing.T) {
	conv := model.Conversation{model.NewUserMessage("hello there")}
	tr := NewTranscript("s1", conv)

	assert.Equal(t, "s1", tr.SessionID)
	assert.Equal(t, "hello there", tr.Title)
	assert.False(t, tr.ExportedAt.IsZero())

	conv[0].Content = "changed"
	assert.Equal(t, "hello there", tr.Messages[0].Content, "transcript does not alias the conversation")
}

func TestExporters_RejectEmpty(t *testing.T) {
	for _, format := range Formats {
		exp, err := ForFormat(format, nil)
		require.NoError(t, err)

		_, err = exp.Export(NewTranscript("s1", nil))
		assert.Error(t, err, format)

		_, err = exp.Export(nil)
		assert.Error(t, err, format)
	}
}

func TestForFormat(t *testing.T) {
	tests := map[string]string{
		"md":       ".md",
		"Markdown": ".md",
		"json":     ".json",
		"yaml":     ".yaml",
		"yml":      ".yaml",
	}
	for format, ext := range tests {
		exp, err := ForFormat(format, nil)
		require.NoError(t, err, format)
		if got := exp.FileExtension(); got != ext {
			t.Errorf("ForFormat(%q).FileExtension() = %q, want %q", format, got, ext)
		}
	}

	_, err := ForFormat("html", nil)
	assert.Error(t, err)
}

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleTranscript())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\ntitle: How do I print in Go?\n"))
	assert.Contains(t, md, "session_id: s1\n")
	assert.Contains(t, md, "created: \"2025-01-01 10:00:00\"\n")
	assert.Contains(t, md, "messages: 2\n")
	assert.Contains(t, md, "### You\n\nHow do I print in Go?")
	assert.Contains(t, md, "### Aura\n\nUse fmt:")
	assert.Contains(t, md, "```go\nfmt.Println(\"hi\")\n```")
	assert.Contains(t, md, "*Exported from aura on January 2, 2025 at 3:04 PM*")
	assert.Equal(t, "text/markdown", NewMarkdownExporter(nil).MimeType())
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	out, err := NewMarkdownExporter(&Options{}).Export(sampleTranscript())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "# How do I print in Go?"))
}

func TestMarkdownExporter_YAMLInjection(t *testing.T) {
	tr := sampleTranscript()
	tr.Title = "evil\ninjected: true"

	out, err := NewMarkdownExporter(nil).Export(tr)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "\ninjected: true\n")
	assert.Contains(t, string(out), "\n# evil injected: true\n\n")
	assert.Contains(t, string(out), `title: "evil\ninjected: true"`)
}

func TestRoleLabel(t *testing.T) {
	tests := map[model.Role]string{
		model.RoleUser:      "You",
		model.RoleAssistant: "Aura",
		"system":            "System",
		"":                  "Unknown",
	}
	for role, want := range tests {
		if got := roleLabel(role); got != want {
			t.Errorf("roleLabel(%q) = %q, want %q", role, got, want)
		}
	}
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(sampleTranscript())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "s1", doc["session_id"])
	assert.Equal(t, "2025-01-02T15:04:05Z", doc["exported_at"])

	msgs := doc["messages"].([]interface{})
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"role": "user", "content": "How do I print in Go?"}, first)
}

func TestYAMLExporter(t *testing.T) {
	out, err := NewYAMLExporter(nil).Export(sampleTranscript())
	require.NoError(t, err)

	var doc struct {
		SessionID string `yaml:"session_id"`
		Messages  []struct {
			Role    string `yaml:"role"`
			Content string `yaml:"content"`
		} `yaml:"messages"`
	}
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "s1", doc.SessionID)
	require.Len(t, doc.Messages, 2)
	assert.Equal(t, "assistant", doc.Messages[1].Role)
	assert.Contains(t, doc.Messages[1].Content, "fmt.Println")
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTranscript(), NewJSONExporter(nil)))
	assert.True(t, json.Valid(buf.Bytes()))

	err := Write(&buf, NewTranscript("", nil), NewJSONExporter(nil))
	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	tr := sampleTranscript()

	path, err := ExportToFile(tr, NewMarkdownExporter(nil), &Options{OutputDir: dir, IncludeMetadata: true})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "aura_s1_20250102_150405.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# How do I print in Go?")
}

func TestFilenameSanitization(t *testing.T) {
	tests := []struct {
		input    string
		mustNot  []string
		mustHave []string
	}{
		{"Test/Path\\Name:With*Special?Chars", []string{"/", "\\", ":", "*", "?"}, []string{"-"}},
		{"Test<HTML>Tags|Pipe", []string{"<", ">", "|"}, []string{"-"}},
		{"Test With Spaces\tAnd\nNewlines\r", []string{" ", "\t", "\n", "\r"}, []string{"_"}},
		{"Test\x00\x01\x1fControl\x7fChars", []string{"\x00", "\x01", "\x1f", "\x7f"}, []string{"-"}},
	}

	for _, tt := range tests {
		result := sanitizeFilename(tt.input)
		for _, char := range tt.mustNot {
			if strings.Contains(result, char) {
				t.Errorf("sanitizeFilename(%q) contains forbidden character %q, got %q", tt.input, char, result)
			}
		}
		for _, char := range tt.mustHave {
			if !strings.Contains(result, char) {
				t.Errorf("sanitizeFilename(%q) should contain %q, got %q", tt.input, char, result)
			}
		}
	}

	if got := sanitizeFilename(""); got != "conversation" {
		t.Errorf("sanitizeFilename(\"\") = %q, want %q", got, "conversation")
	}
	if got := len([]rune(sanitizeFilename(strings.Repeat("a", 80)))); got != 50 {
		t.Errorf("sanitized length = %d, want 50", got)
	}
}
