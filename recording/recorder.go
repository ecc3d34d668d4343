// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// Recorder captures canvas operations as commands. It tracks the save stack,
// the current transform and a conservative device-space clip the way a
// rasterizing canvas would, so SaveCount and TotalMatrix behave identically.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	cull     geom.Rect
	commands []Command
	stack    []recorderState

	matrix geom.Matrix4
	clip   geom.Rect
	bounds geom.Rect
	draws  int
}

// recorderState stores the state for Save/Restore.
type recorderState struct {
	matrix geom.Matrix4
	clip   geom.Rect
}

var _ gfx.Canvas = (*Recorder)(nil)

// BeginRecording starts recording a picture whose content is limited to cull.
func BeginRecording(cull geom.Rect) *Recorder {
	r := &Recorder{}
	r.reset(cull)
	return r
}

// Record runs fn on a fresh recorder and returns the picture.
func Record(cull geom.Rect, fn func(c gfx.Canvas)) *Picture {
	r := BeginRecording(cull)
	fn(r)
	return r.EndRecording()
}

func (r *Recorder) reset(cull geom.Rect) {
	r.cull = cull
	r.commands = make([]Command, 0, 32)
	r.stack = r.stack[:0]
	r.matrix = geom.Identity()
	r.clip = cull
	r.bounds = geom.Empty()
	r.draws = 0
}

// EndRecording returns the recorded picture and resets the recorder to an
// empty state with the same cull rect.
func (r *Recorder) EndRecording() *Picture {
	pic := &Picture{
		id:       nextPictureID.Add(1),
		cull:     r.cull,
		bounds:   r.bounds,
		commands: r.commands,
		opCount:  r.draws,
	}
	r.reset(r.cull)
	return pic
}

// Commands returns the commands recorded so far. The slice must not be
// modified.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Ops returns the op listing of the commands recorded so far.
func (r *Recorder) Ops() []string {
	return opsOf(r.commands)
}

// Bounds returns the device-space bounds of everything drawn so far,
// limited by the clips in effect at each draw.
func (r *Recorder) Bounds() geom.Rect {
	return r.bounds
}

func (r *Recorder) record(cmd Command) {
	r.commands = append(r.commands, cmd)
	if cmd.Type().IsDraw() {
		r.draws++
	}
}

func (r *Recorder) push() {
	r.stack = append(r.stack, recorderState{matrix: r.matrix, clip: r.clip})
}

// addBounds accumulates the device bounds of local under the current state.
func (r *Recorder) addBounds(local geom.Rect, p *gfx.Paint) {
	if p != nil && p.Style() == gfx.StyleStroke {
		local = local.Inflate(max(p.StrokeWidth(), 1) / 2)
	}
	dev := geom.TransformRect(r.matrix, local).Intersect(r.clip)
	r.bounds = r.bounds.Union(dev)
}

// --------------------------------------------------------------------------
// gfx.NodeCanvas
// --------------------------------------------------------------------------

// Save implements gfx.NodeCanvas.
func (r *Recorder) Save() int {
	n := r.SaveCount()
	r.push()
	r.record(SaveCommand{})
	return n
}

// SaveLayer implements gfx.NodeCanvas.
func (r *Recorder) SaveLayer(bounds *geom.Rect, p *gfx.Paint) {
	r.push()
	r.clipToLayer(bounds)
	r.record(SaveLayerCommand{Bounds: cloneRect(bounds), Paint: p})
}

// SaveLayerWithFilter implements gfx.NodeCanvas.
func (r *Recorder) SaveLayerWithFilter(bounds *geom.Rect, p *gfx.Paint, backdrop *gfx.ImageFilter) {
	r.push()
	r.clipToLayer(bounds)
	r.record(SaveLayerCommand{Bounds: cloneRect(bounds), Paint: p, Backdrop: backdrop})
}

// clipToLayer limits drawing inside a bounded layer to its bounds.
func (r *Recorder) clipToLayer(bounds *geom.Rect) {
	if bounds != nil {
		r.clip = r.clip.Intersect(geom.TransformRect(r.matrix, *bounds))
	}
}

// Restore implements gfx.NodeCanvas.
func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.matrix = top.matrix
	r.clip = top.clip
	r.record(RestoreCommand{})
}

// RestoreToCount implements gfx.NodeCanvas.
func (r *Recorder) RestoreToCount(count int) {
	for r.SaveCount() > max(count, 1) {
		r.Restore()
	}
}

// SaveCount implements gfx.NodeCanvas.
func (r *Recorder) SaveCount() int {
	return len(r.stack) + 1
}

// Translate implements gfx.NodeCanvas.
func (r *Recorder) Translate(dx, dy float64) {
	r.matrix = r.matrix.Translate(dx, dy)
	r.record(TranslateCommand{DX: dx, DY: dy})
}

// Transform implements gfx.NodeCanvas.
func (r *Recorder) Transform(m geom.Matrix4) {
	r.matrix = r.matrix.Multiply(m)
	r.record(TransformCommand{Matrix: m})
}

// ClipRect implements gfx.NodeCanvas.
func (r *Recorder) ClipRect(rect geom.Rect, op gfx.ClipOp, antiAlias bool) {
	if op == gfx.ClipIntersect {
		r.clip = r.clip.Intersect(geom.TransformRect(r.matrix, rect))
	}
	r.record(ClipRectCommand{Rect: rect, Op: op, AntiAlias: antiAlias})
}

// ClipRRect implements gfx.NodeCanvas.
func (r *Recorder) ClipRRect(rr geom.RRect, antiAlias bool) {
	r.clip = r.clip.Intersect(geom.TransformRect(r.matrix, rr.Bounds()))
	r.record(ClipRRectCommand{RRect: rr, AntiAlias: antiAlias})
}

// ClipPath implements gfx.NodeCanvas.
func (r *Recorder) ClipPath(p gfx.Path, antiAlias bool) {
	r.clip = r.clip.Intersect(geom.TransformRect(r.matrix, gfx.PathBounds(p)))
	r.record(ClipPathCommand{Path: clonePath(p), AntiAlias: antiAlias})
}

// --------------------------------------------------------------------------
// gfx.Canvas
// --------------------------------------------------------------------------

// TotalMatrix implements gfx.Canvas.
func (r *Recorder) TotalMatrix() geom.Matrix4 {
	return r.matrix
}

// DrawPaint implements gfx.Canvas.
func (r *Recorder) DrawPaint(p *gfx.Paint) {
	r.bounds = r.bounds.Union(r.clip)
	r.record(DrawPaintCommand{Paint: p})
}

// DrawRect implements gfx.Canvas.
func (r *Recorder) DrawRect(rect geom.Rect, p *gfx.Paint) {
	r.addBounds(rect, p)
	r.record(DrawRectCommand{Rect: rect, Paint: p})
}

// DrawRRect implements gfx.Canvas.
func (r *Recorder) DrawRRect(rr geom.RRect, p *gfx.Paint) {
	r.addBounds(rr.Bounds(), p)
	r.record(DrawRRectCommand{RRect: rr, Paint: p})
}

// DrawPath implements gfx.Canvas.
func (r *Recorder) DrawPath(path gfx.Path, p *gfx.Paint) {
	r.addBounds(gfx.PathBounds(path), p)
	r.record(DrawPathCommand{Path: clonePath(path), Paint: p})
}

// DrawShadow implements gfx.Canvas.
func (r *Recorder) DrawShadow(path gfx.Path, c gfx.Color, elevation float64, transparentOccluder bool, dpr float64) {
	r.addBounds(gfx.ShadowBounds(gfx.PathBounds(path), elevation, dpr, r.matrix), nil)
	r.record(DrawShadowCommand{
		Path:                clonePath(path),
		Color:               c,
		Elevation:           elevation,
		TransparentOccluder: transparentOccluder,
		DevicePixelRatio:    dpr,
	})
}

// DrawPicture implements gfx.Canvas.
func (r *Recorder) DrawPicture(pic gfx.Picture) {
	r.addBounds(pic.CullRect(), nil)
	r.record(DrawPictureCommand{Picture: pic})
}

// DrawImage implements gfx.Canvas.
func (r *Recorder) DrawImage(img gfx.Image, at geom.Offset, p *gfx.Paint) {
	r.addBounds(geom.LTWH(at.X, at.Y, float64(img.Width()), float64(img.Height())), p)
	r.record(DrawImageCommand{Image: img, At: at, Paint: p})
}

func cloneRect(r *geom.Rect) *geom.Rect {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func clonePath(p gfx.Path) gfx.Path {
	if p == nil {
		return nil
	}
	return p.Clone()
}
