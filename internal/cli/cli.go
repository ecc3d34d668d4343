// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cli implements the flute command-line interface.
//
// Commands load a TOML scene (see internal/scenefile), build its layer tree
// and drive the compositor over it:
//   - render: rasterize frames to PNG with the software backend
//   - ops: list the drawing operations a frame produces
//   - tree: print the layer tree as text, DOT or SVG
//   - animate: tween the scene over many frames and report cache statistics
//   - view: show the scene in a window with the ebiten backend
//   - fonts: resolve fallback fonts for a string
//
// Logging goes through charmbracelet/log. The library logger is bridged to
// the same handler, so --verbose shows per-frame compositor diagnostics.
package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/flute"
)

const appName = "flute"

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds the state shared by every command.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer
}

// New creates a CLI printing results to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		Out:    out,
	}
}

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          appName,
	})
}

// SetLogLevel changes the level of the CLI and library logs.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// bridge routes the library's slog output through the CLI logger.
func (c *CLI) bridge() {
	flute.SetLogger(slog.New(c.Logger))
}

// RootCommand returns the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "flute composites retained layer trees",
		Long:         `flute builds layer trees from TOML scene files and runs them through the compositor, raster cache and platform view embedder.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			c.bridge()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.SetOut(c.Out)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.opsCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.fontsCommand())

	return root
}
