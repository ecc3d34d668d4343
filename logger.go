// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package flute

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for flute and all its sub-packages.
// By default, flute produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the default
// silent logger.
//
// Log levels used by flute:
//   - [slog.LevelDebug]: per-frame diagnostics (preroll/paint, cache sweeps, queue flushes)
//   - [slog.LevelInfo]: lifecycle events (backend selected, views created or disposed)
//   - [slog.LevelWarn]: recovered failures (native delete errors, rasterisation failures)
//
// Example:
//
//	flute.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages call this instead of
// holding their own copy so SetLogger takes effect everywhere at once.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
