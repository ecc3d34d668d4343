// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"fmt"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/gfx"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdSave CommandType = iota
	CmdSaveLayer
	CmdRestore
	CmdTranslate
	CmdTransform
	CmdClipRect
	CmdClipRRect
	CmdClipPath

	// Drawing commands
	CmdDrawPaint
	CmdDrawRect
	CmdDrawRRect
	CmdDrawPath
	CmdDrawShadow
	CmdDrawPicture
	CmdDrawImage
)

var commandTypeNames = [...]string{
	CmdSave:        "save",
	CmdSaveLayer:   "saveLayer",
	CmdRestore:     "restore",
	CmdTranslate:   "translate",
	CmdTransform:   "transform",
	CmdClipRect:    "clipRect",
	CmdClipRRect:   "clipRRect",
	CmdClipPath:    "clipPath",
	CmdDrawPaint:   "drawPaint",
	CmdDrawRect:    "drawRect",
	CmdDrawRRect:   "drawRRect",
	CmdDrawPath:    "drawPath",
	CmdDrawShadow:  "drawShadow",
	CmdDrawPicture: "drawPicture",
	CmdDrawImage:   "drawImage",
}

// String returns the operation name used in op listings.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "unknown"
}

// IsDraw reports whether the command produces pixels.
func (c CommandType) IsDraw() bool {
	return c >= CmdDrawPaint
}

// Command is a recorded canvas operation.
type Command interface {
	Type() CommandType

	// String formats the command as an op listing entry.
	String() string

	// Apply issues the command on c.
	Apply(c gfx.Canvas)
}

// --------------------------------------------------------------------------
// State Commands
// --------------------------------------------------------------------------

// SaveCommand pushes the canvas state.
type SaveCommand struct{}

func (SaveCommand) Type() CommandType  { return CmdSave }
func (SaveCommand) String() string     { return "save" }
func (SaveCommand) Apply(c gfx.Canvas) { c.Save() }

// SaveLayerCommand starts an offscreen layer.
type SaveLayerCommand struct {
	// Bounds is nil when the layer is unbounded.
	Bounds   *geom.Rect
	Paint    *gfx.Paint
	Backdrop *gfx.ImageFilter
}

func (SaveLayerCommand) Type() CommandType { return CmdSaveLayer }

func (s SaveLayerCommand) String() string {
	if s.Backdrop != nil {
		return fmt.Sprintf("saveLayer(%v, backdrop=%v)", s.Paint, s.Backdrop)
	}
	return fmt.Sprintf("saveLayer(%v)", s.Paint)
}

func (s SaveLayerCommand) Apply(c gfx.Canvas) {
	if s.Backdrop != nil {
		c.SaveLayerWithFilter(s.Bounds, s.Paint, s.Backdrop)
		return
	}
	c.SaveLayer(s.Bounds, s.Paint)
}

// RestoreCommand pops the canvas state.
type RestoreCommand struct{}

func (RestoreCommand) Type() CommandType  { return CmdRestore }
func (RestoreCommand) String() string     { return "restore" }
func (RestoreCommand) Apply(c gfx.Canvas) { c.Restore() }

// TranslateCommand translates the current transform.
type TranslateCommand struct {
	DX, DY float64
}

func (TranslateCommand) Type() CommandType { return CmdTranslate }

func (t TranslateCommand) String() string {
	return fmt.Sprintf("translate(%g, %g)", t.DX, t.DY)
}

func (t TranslateCommand) Apply(c gfx.Canvas) { c.Translate(t.DX, t.DY) }

// TransformCommand concatenates a matrix onto the current transform.
type TransformCommand struct {
	Matrix geom.Matrix4
}

func (TransformCommand) Type() CommandType { return CmdTransform }

func (t TransformCommand) String() string {
	return fmt.Sprintf("transform(%v)", t.Matrix)
}

func (t TransformCommand) Apply(c gfx.Canvas) { c.Transform(t.Matrix) }

// ClipRectCommand clips to a rectangle.
type ClipRectCommand struct {
	Rect      geom.Rect
	Op        gfx.ClipOp
	AntiAlias bool
}

func (ClipRectCommand) Type() CommandType { return CmdClipRect }

func (cr ClipRectCommand) String() string {
	return "clipRect(" + cr.Rect.String() + clipSuffix(cr.Op, cr.AntiAlias) + ")"
}

func (cr ClipRectCommand) Apply(c gfx.Canvas) { c.ClipRect(cr.Rect, cr.Op, cr.AntiAlias) }

// ClipRRectCommand clips to a rounded rectangle.
type ClipRRectCommand struct {
	RRect     geom.RRect
	AntiAlias bool
}

func (ClipRRectCommand) Type() CommandType { return CmdClipRRect }

func (cr ClipRRectCommand) String() string {
	return "clipRRect(" + cr.RRect.Rect.String() + clipSuffix(gfx.ClipIntersect, cr.AntiAlias) + ")"
}

func (cr ClipRRectCommand) Apply(c gfx.Canvas) { c.ClipRRect(cr.RRect, cr.AntiAlias) }

// ClipPathCommand clips to a path.
type ClipPathCommand struct {
	Path      gfx.Path
	AntiAlias bool
}

func (ClipPathCommand) Type() CommandType { return CmdClipPath }

func (cp ClipPathCommand) String() string {
	return "clipPath(" + gfx.PathBounds(cp.Path).String() + clipSuffix(gfx.ClipIntersect, cp.AntiAlias) + ")"
}

func (cp ClipPathCommand) Apply(c gfx.Canvas) { c.ClipPath(cp.Path, cp.AntiAlias) }

func clipSuffix(op gfx.ClipOp, aa bool) string {
	s := ""
	if op != gfx.ClipIntersect {
		s += ", " + op.String()
	}
	if aa {
		s += ", aa"
	}
	return s
}

// --------------------------------------------------------------------------
// Drawing Commands
// --------------------------------------------------------------------------

// DrawPaintCommand fills the clip with a paint.
type DrawPaintCommand struct {
	Paint *gfx.Paint
}

func (DrawPaintCommand) Type() CommandType    { return CmdDrawPaint }
func (d DrawPaintCommand) String() string     { return fmt.Sprintf("drawPaint(%v)", d.Paint) }
func (d DrawPaintCommand) Apply(c gfx.Canvas) { c.DrawPaint(d.Paint) }

// DrawRectCommand draws a rectangle.
type DrawRectCommand struct {
	Rect  geom.Rect
	Paint *gfx.Paint
}

func (DrawRectCommand) Type() CommandType { return CmdDrawRect }

func (d DrawRectCommand) String() string {
	return fmt.Sprintf("drawRect(%v, %v)", d.Rect, d.Paint)
}

func (d DrawRectCommand) Apply(c gfx.Canvas) { c.DrawRect(d.Rect, d.Paint) }

// DrawRRectCommand draws a rounded rectangle.
type DrawRRectCommand struct {
	RRect geom.RRect
	Paint *gfx.Paint
}

func (DrawRRectCommand) Type() CommandType { return CmdDrawRRect }

func (d DrawRRectCommand) String() string {
	return fmt.Sprintf("drawRRect(%v, %v)", d.RRect.Rect, d.Paint)
}

func (d DrawRRectCommand) Apply(c gfx.Canvas) { c.DrawRRect(d.RRect, d.Paint) }

// DrawPathCommand draws a path.
type DrawPathCommand struct {
	Path  gfx.Path
	Paint *gfx.Paint
}

func (DrawPathCommand) Type() CommandType { return CmdDrawPath }

func (d DrawPathCommand) String() string {
	return fmt.Sprintf("drawPath(%v, %v)", gfx.PathBounds(d.Path), d.Paint)
}

func (d DrawPathCommand) Apply(c gfx.Canvas) { c.DrawPath(d.Path, d.Paint) }

// DrawShadowCommand draws the shadow of a path.
type DrawShadowCommand struct {
	Path                gfx.Path
	Color               gfx.Color
	Elevation           float64
	TransparentOccluder bool
	DevicePixelRatio    float64
}

func (DrawShadowCommand) Type() CommandType { return CmdDrawShadow }

func (d DrawShadowCommand) String() string {
	return fmt.Sprintf("drawShadow(%v, %v, %g, transparent=%t)",
		gfx.PathBounds(d.Path), d.Color, d.Elevation, d.TransparentOccluder)
}

func (d DrawShadowCommand) Apply(c gfx.Canvas) {
	c.DrawShadow(d.Path, d.Color, d.Elevation, d.TransparentOccluder, d.DevicePixelRatio)
}

// DrawPictureCommand draws a nested picture.
type DrawPictureCommand struct {
	Picture gfx.Picture
}

func (DrawPictureCommand) Type() CommandType { return CmdDrawPicture }

func (d DrawPictureCommand) String() string {
	return fmt.Sprintf("drawPicture(#%d)", d.Picture.ID())
}

func (d DrawPictureCommand) Apply(c gfx.Canvas) { c.DrawPicture(d.Picture) }

// DrawImageCommand draws an image with its top-left corner at At.
type DrawImageCommand struct {
	Image gfx.Image
	At    geom.Offset
	Paint *gfx.Paint
}

func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

func (d DrawImageCommand) String() string {
	return fmt.Sprintf("drawImage(%dx%d @ %g,%g)", d.Image.Width(), d.Image.Height(), d.At.X, d.At.Y)
}

func (d DrawImageCommand) Apply(c gfx.Canvas) { c.DrawImage(d.Image, d.At, d.Paint) }
