// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"slices"
	"strings"
	"sync/atomic"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

var nextPictureID atomic.Uint64

// Picture is an immutable list of recorded commands.
type Picture struct {
	id       uint64
	cull     geom.Rect
	bounds   geom.Rect
	commands []Command
	opCount  int
}

var _ gfx.Picture = (*Picture)(nil)

// CullRect returns the rect the picture was recorded with. Layers use it as
// the picture's paint bounds.
func (p *Picture) CullRect() geom.Rect {
	return p.cull
}

// DrawBounds returns the tighter bounds of what was actually drawn.
func (p *Picture) DrawBounds() geom.Rect {
	return p.bounds
}

// ID returns the process-unique picture id.
func (p *Picture) ID() uint64 {
	return p.id
}

// OpCount returns the number of drawing commands.
func (p *Picture) OpCount() int {
	return p.opCount
}

// Commands returns a copy of the recorded commands.
func (p *Picture) Commands() []Command {
	return slices.Clone(p.commands)
}

// Len returns the total number of commands, state commands included.
func (p *Picture) Len() int {
	return len(p.commands)
}

// Playback replays the commands onto c inside a save/restore pair, so an
// unbalanced recording cannot leak state into c.
func (p *Picture) Playback(c gfx.Canvas) {
	save := c.Save()
	for _, cmd := range p.commands {
		cmd.Apply(c)
	}
	c.RestoreToCount(save)
}

// Ops returns one op listing entry per command.
func (p *Picture) Ops() []string {
	return opsOf(p.commands)
}

// String returns the op listing, one command per line.
func (p *Picture) String() string {
	return strings.Join(p.Ops(), "\n")
}

func opsOf(cmds []Command) []string {
	ops := make([]string, len(cmds))
	for i, cmd := range cmds {
		ops[i] = cmd.String()
	}
	return ops
}
