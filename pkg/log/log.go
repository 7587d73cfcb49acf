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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	typeWidth   = 8  // Width for file type
	statusWidth = 15 // Width for status text
)

// 🎯 FileOperation represents one listed file for logging
type FileOperation struct {
	Path         string // File path
	Section      string // Section from the file list
	Type         string // Content type (text/binary)
	Status       string // Operation status
	IsNew        bool   // Whether this is a new file
	IsModified   bool   // Whether the file was modified
	IsSkipped    bool   // Whether an ignore pattern excluded the file
	IsFailed     bool   // Whether fetching or writing failed
	Replacements int    // Number of replacements made
}

// 📦 SyncOperation describes one backport run for logging
type SyncOperation struct {
	Source   string // Branch content is read from
	Target   string // Branch the working tree is on
	FileList string // Path of the file list
	Backend  string // Version-control backend name
	Files    int    // Number of listed files
	DryRun   bool   // Whether writes are suppressed
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *SyncOperation
	operations []FileOperation
}

// 🏭 New creates a new logger. Console lines go to console; every line is
// mirrored as a structured event on zlog.
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	// Determine symbol and color
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case op.IsSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	// Format type with color
	typeColor := color.FgBlue
	if op.Type == "binary" {
		typeColor = color.FgMagenta
	}

	// Build the line
	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(typeColor).Sprint(fmt.Sprintf("%-*s", typeWidth, op.Type)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to operations list
	l.operations = append(l.operations, op)

	// Format and print
	fmt.Fprintln(l.console, l.formatFileOperation(op))

	// Log to zerolog
	l.zlog.Info().
		Str("file", op.Path).
		Str("section", op.Section).
		Str("type", op.Type).
		Str("status", op.Status).
		Bool("is_new", op.IsNew).
		Bool("is_modified", op.IsModified).
		Bool("is_skipped", op.IsSkipped).
		Bool("is_failed", op.IsFailed).
		Int("replacements", op.Replacements).
		Msg("file operation")
}

// 📝 StartSync starts a new backport run
func (l *Logger) StartSync(ctx context.Context, op SyncOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	mode := ""
	if op.DryRun {
		mode = " " + color.New(color.FgYellow).Sprint("(dry run)")
	}

	// Print sync header
	fmt.Fprintf(l.console, "[syncing %s]%s\n",
		color.New(color.FgCyan).Sprint(op.FileList), mode)

	fmt.Fprintf(l.console, "%s %s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Source),
		color.New(color.Faint).Sprint("→"),
		color.New(color.FgYellow).Sprint(op.Target),
		color.New(color.Faint).Sprintf("(%s, %d files)", op.Backend, op.Files))

	// Log to zerolog
	l.zlog.Info().
		Str("source", op.Source).
		Str("target", op.Target).
		Str("file_list", op.FileList).
		Str("backend", op.Backend).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Msg("starting sync")
}

// 📝 EndSync ends the current backport run
func (l *Logger) EndSync(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	l.zlog.Info().
		Str("source", l.currentOp.Source).
		Str("target", l.currentOp.Target).
		Int("files", len(l.operations)).
		Msg("sync complete")

	l.currentOp = nil
	l.operations = nil
}

// Operations returns the file operations logged since StartSync.
func (l *Logger) Operations() []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]FileOperation, len(l.operations))
	copy(out, l.operations)
	return out
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("backportrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 🏷️ level decides how a message line looks and which zerolog level mirrors it
type level struct {
	prefix string
	color  color.Attribute
	zl     zerolog.Level
}

var (
	levelInfo    = level{prefix: "ℹ️  ", color: color.FgCyan, zl: zerolog.InfoLevel}
	levelSuccess = level{prefix: "✅ ", color: color.FgGreen, zl: zerolog.InfoLevel}
	levelWarning = level{prefix: "⚠️  ", color: color.FgYellow, zl: zerolog.WarnLevel}
	levelError   = level{prefix: "❌ ", color: color.FgRed, zl: zerolog.ErrorLevel}
)

func (l *Logger) message(lv level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s%s\n", lv.prefix, color.New(lv.color).Sprint(msg))
	l.zlog.WithLevel(lv.zl).Msg(msg)
}

func (l *Logger) Info(msg string)    { l.message(levelInfo, msg) }
func (l *Logger) Success(msg string) { l.message(levelSuccess, msg) }
func (l *Logger) Warning(msg string) { l.message(levelWarning, msg) }
func (l *Logger) Error(msg string)   { l.message(levelError, msg) }

func (l *Logger) Infof(format string, args ...any) {
	l.message(levelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...any) {
	l.message(levelSuccess, fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...any) {
	l.message(levelWarning, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.message(levelError, fmt.Sprintf(format, args...))
}
