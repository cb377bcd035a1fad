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
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/boxsync/pkg/remote"
)

// 🎨 Display configuration
const (
	itemIndent  = 4  // spaces to indent item entries
	idWidth     = 14 // width for the remote identifier
	nameWidth   = 35 // base width for the display name
	statusWidth = 8  // width for status text
)

// 🎯 ItemOperation is one download outcome as shown to the user
type ItemOperation struct {
	ID     string // remote identifier
	Name   string // remote display name, may be empty
	Path   string // local path when saved
	Bytes  int64  // bytes written when saved
	Failed bool   // whether the download failed
	Err    error  // cause when failed
}

// 📦 FolderOperation is the header for a batch of downloads
type FolderOperation struct {
	Label       string // folder identifier or job name
	Matched     int    // items selected for download
	Destination string // local directory
}

// 📊 SummaryRow is one line of the end-of-run table
type SummaryRow struct {
	Name    string
	Listed  int
	Matched int
	Saved   int
	Failed  int
	Bytes   int64
}

// 🎯 Logger writes human output to the console and mirrors it to zerolog
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *FolderOperation
	operations []ItemOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// NewWithZerolog creates a logger that mirrors to an existing zerolog logger
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, a silent one if none was attached
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return NewWithZerolog(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatItemOperation formats a download outcome for display
func (l *Logger) formatItemOperation(op ItemOperation) string {
	symbol := '✓'
	symbolColor := color.FgGreen
	status := "saved"
	detail := op.Path
	if op.Failed {
		symbol = '✗'
		symbolColor = color.FgRed
		status = "failed"
		detail = ""
		if op.Err != nil {
			detail = op.Err.Error()
		}
	}

	name := op.Name
	if name == "" {
		name = "?"
	}

	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", itemIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", idWidth, op.ID)),
		fmt.Sprintf("%-*s", nameWidth, name),
		color.New(symbolColor).Sprint(fmt.Sprintf("%-*s", statusWidth, status)),
		detail)
}

// 📝 LogItemOperation prints one download outcome
func (l *Logger) LogItemOperation(ctx context.Context, op ItemOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatItemOperation(op))

	ev := l.zlog.Info()
	if op.Failed {
		ev = l.zlog.Warn().AnErr("cause", op.Err)
	}
	ev.Str("id", op.ID).
		Str("name", op.Name).
		Str("path", op.Path).
		Int64("bytes", op.Bytes).
		Bool("failed", op.Failed).
		Msg("item download")
}

// 📝 LogEntry prints one listed folder entry
func (l *Logger) LogEntry(ctx context.Context, e remote.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kindColor := color.FgBlue
	if e.IsFolder() {
		kindColor = color.FgCyan
	}
	fmt.Fprintf(l.console, "%s %s %s\n",
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", 7, e.Kind)),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", idWidth, e.ID)),
		e.Name)
}

// 📝 StartFolderOperation starts a new batch of downloads
func (l *Logger) StartFolderOperation(ctx context.Context, op FolderOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[syncing %s]\n",
		color.New(color.FgCyan).Sprint(op.Destination))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Label),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d items", op.Matched))

	l.zlog.Info().
		Str("label", op.Label).
		Int("matched", op.Matched).
		Str("destination", op.Destination).
		Msg("starting downloads")
}

// 📝 EndFolderOperation ends the current batch
func (l *Logger) EndFolderOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	failed := 0
	for _, op := range l.operations {
		if op.Failed {
			failed++
		}
	}

	l.zlog.Info().
		Str("label", l.currentOp.Label).
		Int("items", len(l.operations)).
		Int("failed", failed).
		Msg("downloads complete")

	l.currentOp = nil
	l.operations = nil
}

// 📊 Summary renders the end-of-run table
func (l *Logger) Summary(rows []SummaryRow) error {
	data := pterm.TableData{{"Name", "Listed", "Matched", "Saved", "Failed", "Bytes"}}
	for _, r := range rows {
		data = append(data, []string{
			r.Name,
			strconv.Itoa(r.Listed),
			strconv.Itoa(r.Matched),
			strconv.Itoa(r.Saved),
			strconv.Itoa(r.Failed),
			humanBytes(r.Bytes),
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
	fmt.Fprintln(l.console, out)
	return nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
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
	name := color.New(color.Bold, color.FgCyan).Sprint("boxsync")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
