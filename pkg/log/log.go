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

// Package log renders job progress on the console and mirrors every line
// to zerolog.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	formatWidth  = 6  // Width for table format
	statusWidth  = 15 // Width for status text
	appName      = "csvexpand"
	rowsTemplate = "(%d rows, %d cells changed)"
)

// 🎯 OutputOperation represents one written output file
type OutputOperation struct {
	Path          string // Output path
	Format        string // Table format (csv/xlsx/json)
	Status        string // Operation status
	IsNew         bool   // Whether the file did not exist before
	IsModified    bool   // Whether an existing file changed
	IsFailed      bool   // Whether the template could not be expanded
	Rows          int    // Rows written, header included
	Substitutions int    // Cells changed by substitution
}

// 📦 JobOperation represents one expansion job for logging
type JobOperation struct {
	Keyword      string // Placeholder keyword
	List         string // Replacement list name or file
	Replacements int    // Number of replacement values
	OutputDir    string // Destination directory
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *JobOperation
	operations []OutputOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(level)
	return NewWithLogger(console, zlog)
}

// 🏭 NewWithLogger creates a logger that mirrors to an existing zerolog logger
func NewWithLogger(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 Ctx gets the logger from context, or a discarding logger when unset
func Ctx(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return NewWithLogger(io.Discard, zerolog.Nop())
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatOutputOperation formats an output operation for display
func (l *Logger) formatOutputOperation(op OutputOperation) string {
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
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	// Format type with color
	var formatColor color.Attribute
	switch op.Format {
	case "xlsx":
		formatColor = color.FgGreen
	case "json":
		formatColor = color.FgYellow
	default:
		formatColor = color.FgBlue
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(formatColor).Sprint(fmt.Sprintf("%-*s", formatWidth, op.Format)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))

	if op.Rows > 0 {
		line += color.New(color.Faint).Sprintf(rowsTemplate, op.Rows, op.Substitutions)
	}

	return line
}

// 📝 LogOutputOperation logs an output operation
func (l *Logger) LogOutputOperation(ctx context.Context, op OutputOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Add to operations list
	l.operations = append(l.operations, op)

	// Format and print
	fmt.Fprintln(l.console, l.formatOutputOperation(op))

	// Log to zerolog
	l.zlog.Info().
		Str("file", op.Path).
		Str("format", op.Format).
		Str("status", op.Status).
		Bool("is_new", op.IsNew).
		Bool("is_modified", op.IsModified).
		Bool("is_failed", op.IsFailed).
		Int("rows", op.Rows).
		Int("substitutions", op.Substitutions).
		Msg("output operation")
}

// 📝 StartJobOperation starts a new expansion job
func (l *Logger) StartJobOperation(ctx context.Context, op JobOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	// Print job header
	fmt.Fprintf(l.console, "[expanding into %s]\n",
		color.New(color.FgCyan).Sprint(op.OutputDir))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Keyword),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%s (%d)", op.List, op.Replacements))

	// Log to zerolog
	l.zlog.Info().
		Str("keyword", op.Keyword).
		Str("list", op.List).
		Int("replacements", op.Replacements).
		Str("output_dir", op.OutputDir).
		Msg("starting expansion job")
}

// 📝 EndJobOperation ends the current job and returns the outputs it logged
func (l *Logger) EndJobOperation(ctx context.Context) []OutputOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return nil
	}

	ops := l.operations
	failed := 0
	for _, op := range ops {
		if op.IsFailed {
			failed++
		}
	}

	// Log summary
	l.zlog.Info().
		Str("keyword", l.currentOp.Keyword).
		Int("files", len(ops)).
		Int("failed", failed).
		Msg("expansion job complete")

	l.currentOp = nil
	l.operations = nil

	return ops
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
	appText := color.New(color.Bold, color.FgCyan).Sprint(appName)
	fmt.Fprintf(l.console, "\n%s %s\n\n", appText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}
