// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/flute/raster"
)

func (c *CLI) opsCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "ops <scene.toml>",
		Short: "List the drawing operations of one frame",
		Long:  `Ops prerolls and paints the scene into a recording canvas and lists every state and drawing operation in order.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openScene(args[0], raster.Rasterizer)
			if err != nil {
				return err
			}
			pic := s.tree.Flatten(s.tree.Bounds())
			ops := pic.Ops()
			if plain {
				fmt.Fprintln(c.Out, strings.Join(ops, "\n"))
				return nil
			}
			printTitle(c.Out, fmt.Sprintf("%d ops, %d draws", len(ops), pic.OpCount()))
			printOps(c.Out, ops)
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print one op per line without styling")

	return cmd
}
