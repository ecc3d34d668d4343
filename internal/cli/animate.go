// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/gogpu/flute/layer"
	"github.com/gogpu/flute/raster"
)

var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"outBounce":  ease.OutBounce,
}

type animateOpts struct {
	frames   int
	duration float32
	easing   string
	slide    float64
	outDir   string
}

func (c *CLI) animateCommand() *cobra.Command {
	opts := animateOpts{frames: 60, duration: 1, easing: "outCubic", slide: 20}

	cmd := &cobra.Command{
		Use:   "animate <scene.toml>",
		Short: "Tween a scene over many frames and report statistics",
		Long: `Animate fades every opacity layer in from transparent and slides every
offset layer in from below, compositing one frame per step on the retained
layer tree. Pictures keep their matrices while their parents animate, so the
raster cache serves them from cached rasters after the access threshold.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnimate(args[0], opts)
		},
	}

	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	slices.Sort(names)

	cmd.Flags().IntVarP(&opts.frames, "frames", "n", opts.frames, "number of frames")
	cmd.Flags().Float32Var(&opts.duration, "duration", opts.duration, "animation length in seconds")
	cmd.Flags().StringVar(&opts.easing, "ease", opts.easing, "easing function: "+strings.Join(names, ", "))
	cmd.Flags().Float64Var(&opts.slide, "slide", opts.slide, "distance offset layers slide in from")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "write every frame as PNG into `dir`")

	return cmd
}

// track applies one tween to a layer property.
type track struct {
	tween *gween.Tween
	apply func(v float32)
}

func (c *CLI) runAnimate(path string, opts animateOpts) error {
	fn, ok := easings[opts.easing]
	if !ok {
		return fmt.Errorf("unknown easing %q", opts.easing)
	}
	if opts.frames < 1 || opts.duration <= 0 {
		return fmt.Errorf("frames and duration must be positive")
	}
	s, err := c.openScene(path, raster.Rasterizer)
	if err != nil {
		return err
	}
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return err
		}
	}

	tracks := tweens(s.tree.Root, opts, fn)
	if len(tracks) == 0 {
		printWarning(c.Out, "%s has no opacity or offset layers to animate", path)
	}

	dt := opts.duration / float32(opts.frames)
	w, h := s.scene.Frame.Width, s.scene.Frame.Height
	for i := range opts.frames {
		for _, t := range tracks {
			v, _ := t.tween.Update(dt)
			t.apply(v)
		}
		canvas := raster.NewCanvas(w, h)
		canvas.Clear(s.scene.Background())
		if _, err := s.frame(canvas); err != nil {
			return err
		}
		if opts.outDir != "" {
			out := filepath.Join(opts.outDir, fmt.Sprintf("frame_%03d.png", i))
			if err := writePNG(out, canvas.Snapshot()); err != nil {
				return err
			}
		}
	}

	printSuccess(c.Out, "Animated %d layers over %d frames", len(tracks), opts.frames)
	printStats(c.Out, "Statistics", s.stats())
	return nil
}

// tweens builds a track for every opacity and offset layer under root.
func tweens(root layer.Layer, opts animateOpts, fn ease.TweenFunc) []track {
	var tracks []track
	for l := range layer.All(root) {
		switch l := l.(type) {
		case *layer.OpacityLayer:
			target := float32(l.Alpha)
			l.Alpha = 0
			tracks = append(tracks, track{
				tween: gween.New(0, target, opts.duration, fn),
				apply: func(v float32) { l.Alpha = uint8(min(max(v, 0), 255)) },
			})
		case *layer.OffsetLayer:
			target := float32(l.Offset.Y)
			l.Offset.Y += opts.slide
			tracks = append(tracks, track{
				tween: gween.New(float32(l.Offset.Y), target, opts.duration, fn),
				apply: func(v float32) { l.Offset.Y = float64(v) },
			})
		}
	}
	return tracks
}
