// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/backportrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Path:         "src/app.js",
					Type:         "text",
					Status:       "new",
					IsNew:        true,
					Replacements: 2,
				})
			},
			wantLogs: []string{
				"✓ src/app.js                          text     new",
			},
		},
		{
			name: "start_sync",
			op: func(t *testing.T, logger *Logger) {
				logger.StartSync(context.Background(), SyncOperation{
					Source:   "main",
					Target:   "release",
					FileList: "backport.txt",
					Backend:  "git",
					Files:    3,
				})
			},
			wantLogs: []string{
				"[syncing backport.txt]",
				"◆ main → release (git, 3 files)",
			},
		},
		{
			name: "start_sync_dry_run",
			op: func(t *testing.T, logger *Logger) {
				logger.StartSync(context.Background(), SyncOperation{
					Source:   "main",
					Target:   "release",
					FileList: "backport.txt",
					Backend:  "go-git",
					Files:    1,
					DryRun:   true,
				})
			},
			wantLogs: []string{
				"[syncing backport.txt] (dry run)",
				"◆ main → release (go-git, 1 files)",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("backporting files")
			},
			wantLogs: []string{
				"backportrc • backporting files",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.Nop())

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestFileOperationFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "new_text_file",
			op: FileOperation{
				Path:   "test.txt",
				Type:   "text",
				Status: "new",
				IsNew:  true,
			},
			want: "    ✓ test.txt                            text     new            ",
		},
		{
			name: "modified_binary_file",
			op: FileOperation{
				Path:       "logo.png",
				Type:       "binary",
				Status:     "modified",
				IsModified: true,
			},
			want: "    ⟳ logo.png                            binary   modified       ",
		},
		{
			name: "failed_file",
			op: FileOperation{
				Path:     "gone.js",
				Type:     "text",
				Status:   "failed",
				IsFailed: true,
				IsNew:    true,
			},
			want: "    ✗ gone.js                             text     failed         ",
		},
		{
			name: "skipped_file",
			op: FileOperation{
				Path:      "dist/app.js",
				Type:      "text",
				Status:    "skipped",
				IsSkipped: true,
			},
			want: "    - dist/app.js                         text     skipped        ",
		},
		{
			name: "unchanged_file",
			op: FileOperation{
				Path:   "test.txt",
				Type:   "text",
				Status: "unchanged",
			},
			want: "    • test.txt                            text     unchanged      ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(io.Discard, zerolog.Nop())
			assert.Equal(t, tt.want, logger.formatFileOperation(tt.op), "formatted output should match")
		})
	}
}

func TestOperationsResetPerSync(t *testing.T) {
	ctx := context.Background()
	logger := New(io.Discard, zerolog.Nop())

	logger.StartSync(ctx, SyncOperation{Source: "main", Target: "release"})
	logger.LogFileOperation(ctx, FileOperation{Path: "a.js"})
	logger.LogFileOperation(ctx, FileOperation{Path: "b.js"})
	assert.Len(t, logger.Operations(), 2)

	logger.EndSync(ctx)
	assert.Empty(t, logger.Operations())
}

func TestSummary(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	t.Run("with_failures", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf, zerolog.Nop())

		logger.Summary(&status.Report{
			Processed: 2,
			Skipped:   1,
			Failures: []status.Failure{
				{Path: "b.js", Section: "Section A", Err: errors.New("file not found at revision")},
				{Path: "loose.md", Err: errors.New("permission denied")},
			},
			Sections: []status.SectionCount{
				{Name: "Section A", Processed: 1, Total: 2},
				{Name: "Section B", Processed: 1, Total: 1},
			},
		})

		out := buf.String()
		assert.Contains(t, out, "Section A")
		assert.Contains(t, out, "Section B")
		assert.Contains(t, out, "✗ b.js [Section A]: file not found at revision")
		assert.Contains(t, out, "✗ loose.md: permission denied")
		assert.Contains(t, out, "❌ 2 processed, 1 skipped, 2 failed")
	})

	t.Run("clean_run_without_sections", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf, zerolog.Nop())

		logger.Summary(&status.Report{Processed: 3})

		out := buf.String()
		assert.NotContains(t, out, "Section")
		assert.Contains(t, out, "✅ 3 processed, 0 skipped, 0 failed")
	})

	t.Run("stage_failure", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf, zerolog.Nop())

		logger.Summary(&status.Report{Processed: 1, StageErr: errors.New("index.lock exists")})
		assert.Contains(t, buf.String(), "staging failed: index.lock exists")
	})

	t.Run("dry_run", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := New(buf, zerolog.Nop())

		logger.Summary(&status.Report{Processed: 1, DryRun: true})
		assert.Contains(t, buf.String(), "dry run, nothing written")
	})
}
