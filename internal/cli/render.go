// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/flute/raster"
)

type renderOpts struct {
	output string
	frames int
	views  bool
	stats  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{frames: 1}

	cmd := &cobra.Command{
		Use:   "render <scene.toml>",
		Short: "Rasterize a scene to PNG",
		Long: `Render composites the scene with the software backend and writes the last frame as PNG.

Rendering more than one frame exercises the raster cache: pictures seen on
enough consecutive frames are rasterized once and blitted afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <scene>.png)")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", opts.frames, "number of frames to composite")
	cmd.Flags().BoolVar(&opts.views, "views", false, "print the platform view composition as JSON")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print cache and collection statistics")

	return cmd
}

func (c *CLI) runRender(path string, opts renderOpts) error {
	if opts.frames < 1 {
		return fmt.Errorf("frames must be positive, got %d", opts.frames)
	}
	start := time.Now()
	s, err := c.openScene(path, raster.Rasterizer)
	if err != nil {
		return err
	}

	w, h := s.scene.Frame.Width, s.scene.Frame.Height
	var canvas *raster.Canvas
	for range opts.frames {
		canvas = raster.NewCanvas(w, h)
		canvas.Clear(s.scene.Background())
		comp, err := s.frame(canvas)
		if err != nil {
			return err
		}
		if opts.views && len(comp.Views) > 0 {
			data, err := comp.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, string(data))
		}
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	}
	if err := writePNG(out, canvas.Snapshot()); err != nil {
		return err
	}

	printSuccess(c.Out, "Rendered %s (%dx%d, %d frames)", out, w, h, opts.frames)
	c.Logger.Debug("render done", "elapsed", time.Since(start).Round(time.Millisecond))
	if opts.stats {
		printStats(c.Out, "Statistics", s.stats())
	}
	return nil
}

func writePNG(path string, img *raster.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return img.EncodePNG(f)
}
