// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/gogpu/flute/layer"
	"github.com/gogpu/flute/raster"
)

type treeOpts struct {
	dot bool
	svg string
}

func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree <scene.toml>",
		Short: "Print the layer tree",
		Long: `Tree prerolls the scene and prints its layer tree with paint bounds.

With --dot the tree is printed in Graphviz DOT format; with --svg it is
laid out by Graphviz and written as SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openScene(args[0], raster.Rasterizer)
			if err != nil {
				return err
			}
			s.tree.Flatten(s.tree.Bounds())

			switch {
			case opts.svg != "":
				svg, err := renderSVG(cmd.Context(), toDOT(s.tree.Root))
				if err != nil {
					return err
				}
				if err := os.WriteFile(opts.svg, svg, 0o644); err != nil {
					return err
				}
				printSuccess(c.Out, "Wrote %s", opts.svg)
			case opts.dot:
				fmt.Fprint(c.Out, toDOT(s.tree.Root))
			default:
				fmt.Fprint(c.Out, layer.Describe(s.tree.Root))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print Graphviz DOT")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "write an SVG rendering of the tree to `file`")

	return cmd
}

// toDOT converts the subtree at root to Graphviz DOT, one node per layer.
func toDOT(root layer.Layer) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layers {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=11];\n")

	var (
		next    int
		parents []int
	)
	layer.Walk(root, func(l layer.Layer, depth int) bool {
		id := next
		next++
		parents = append(parents[:depth], id)

		fill := "white"
		switch {
		case l.Kind() == layer.KindPicture:
			fill = "lightyellow"
		case l.Kind() == layer.KindPlatformView:
			fill = "lightblue"
		case !l.NeedsPainting():
			fill = "lightgray"
		}
		fmt.Fprintf(&buf, "  n%d [label=%s, fillcolor=%s];\n", id, strconv.Quote(layer.Label(l)), fill)
		if depth > 0 {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", parents[depth-1], id)
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

// renderSVG lays out a DOT graph with Graphviz.
func renderSVG(ctx context.Context, dot string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
