// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/gogpu/flute/backend/ebitengine"
)

func (c *CLI) viewCommand() *cobra.Command {
	var scale float64

	cmd := &cobra.Command{
		Use:   "view <scene.toml>",
		Short: "Show a scene in a window",
		Long:  `View composites the scene every frame with the ebiten backend until the window is closed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openScene(args[0], ebitengine.Rasterizer)
			if err != nil {
				return err
			}
			g := &viewer{cli: c, session: s}
			w, h := g.Layout(0, 0)
			ebiten.SetWindowSize(int(float64(w)*scale), int(float64(h)*scale))
			ebiten.SetWindowTitle(appName + " - " + args[0])
			if err := ebiten.RunGame(g); err != nil {
				return err
			}
			printStats(c.Out, "Statistics", s.stats())
			return nil
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 1, "window scale factor")

	return cmd
}

// viewer is an ebiten.Game that composites the session each frame.
type viewer struct {
	cli     *CLI
	session *session
	err     error
}

// Update implements ebiten.Game.
func (v *viewer) Update() error {
	return v.err
}

// Draw implements ebiten.Game.
func (v *viewer) Draw(screen *ebiten.Image) {
	canvas := ebitengine.NewCanvasForImage(screen)
	canvas.Clear(v.session.scene.Background())
	if _, err := v.session.frame(canvas); err != nil {
		v.cli.Logger.Error("frame failed", "err", err)
		v.err = err
	}
}

// Layout implements ebiten.Game.
func (v *viewer) Layout(_, _ int) (int, int) {
	return v.session.scene.Frame.Width, v.session.scene.Frame.Height
}
