// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"fmt"
	"image/color"
)

// Color is a 32-bit color in 0xAARRGGBB order.
type Color uint32

// Common colors.
const (
	Transparent Color = 0x00000000
	Black       Color = 0xFF000000
	White       Color = 0xFFFFFFFF
)

// ARGB packs the four channels into a Color.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// Red returns the red channel.
func (c Color) Red() uint8 { return uint8(c >> 16) }

// Green returns the green channel.
func (c Color) Green() uint8 { return uint8(c >> 8) }

// Blue returns the blue channel.
func (c Color) Blue() uint8 { return uint8(c) }

// Opacity returns alpha as a value in [0, 1].
func (c Color) Opacity() float64 { return float64(c.Alpha()) / 255 }

// WithAlpha returns c with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	return c&0x00FFFFFF | Color(a)<<24
}

// NRGBA converts to a non-premultiplied standard library color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: c.Alpha()}
}

// ColorOf converts any standard library color.
func ColorOf(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(n.A, n.R, n.G, n.B)
}

// String formats the color as ARGB(a,r,g,b).
func (c Color) String() string {
	return fmt.Sprintf("ARGB(%d,%d,%d,%d)", c.Alpha(), c.Red(), c.Green(), c.Blue())
}

// BlendMode is a Porter-Duff or separable blend mode.
type BlendMode uint8

// Blend modes.
const (
	BlendClear BlendMode = iota
	BlendSrc
	BlendDst
	BlendSrcOver
	BlendDstOver
	BlendSrcIn
	BlendDstIn
	BlendSrcOut
	BlendDstOut
	BlendSrcATop
	BlendDstATop
	BlendXor
	BlendPlus
	BlendModulate
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendMultiply
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

var blendModeNames = [...]string{
	"clear", "src", "dst", "srcOver", "dstOver", "srcIn", "dstIn", "srcOut",
	"dstOut", "srcATop", "dstATop", "xor", "plus", "modulate", "screen",
	"overlay", "darken", "lighten", "colorDodge", "colorBurn", "hardLight",
	"softLight", "difference", "exclusion", "multiply", "hue", "saturation",
	"color", "luminosity",
}

// String returns the mode name.
func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", m)
}

// FilterQuality selects image sampling quality.
type FilterQuality uint8

// Filter qualities.
const (
	FilterNone FilterQuality = iota
	FilterLow
	FilterMedium
	FilterHigh
)

// String returns the quality name.
func (q FilterQuality) String() string {
	switch q {
	case FilterNone:
		return "none"
	case FilterLow:
		return "low"
	case FilterMedium:
		return "medium"
	case FilterHigh:
		return "high"
	default:
		return fmt.Sprintf("FilterQuality(%d)", q)
	}
}

// ClipBehavior controls how a clipping layer clips its children.
type ClipBehavior uint8

// Clip behaviors.
const (
	// ClipNone does not clip.
	ClipNone ClipBehavior = iota

	// ClipHardEdge clips without anti-aliasing.
	ClipHardEdge

	// ClipAntiAlias clips with anti-aliasing.
	ClipAntiAlias

	// ClipAntiAliasWithSaveLayer clips with anti-aliasing and isolates the
	// children in a save layer so edges do not bleed.
	ClipAntiAliasWithSaveLayer
)

// AntiAlias reports whether the clip should be anti-aliased.
func (b ClipBehavior) AntiAlias() bool {
	return b == ClipAntiAlias || b == ClipAntiAliasWithSaveLayer
}

// String returns the behavior name.
func (b ClipBehavior) String() string {
	switch b {
	case ClipNone:
		return "none"
	case ClipHardEdge:
		return "hardEdge"
	case ClipAntiAlias:
		return "antiAlias"
	case ClipAntiAliasWithSaveLayer:
		return "antiAliasWithSaveLayer"
	default:
		return fmt.Sprintf("ClipBehavior(%d)", b)
	}
}

// ClipOp combines a new clip with the current one.
type ClipOp uint8

// Clip operations.
const (
	ClipIntersect ClipOp = iota
	ClipDifference
)

// String returns the operation name.
func (op ClipOp) String() string {
	if op == ClipDifference {
		return "difference"
	}
	return "intersect"
}

// TileMode controls sampling outside a shader or filter's source.
type TileMode uint8

// Tile modes.
const (
	TileClamp TileMode = iota
	TileRepeated
	TileMirror
	TileDecal
)

// String returns the mode name.
func (m TileMode) String() string {
	switch m {
	case TileClamp:
		return "clamp"
	case TileRepeated:
		return "repeated"
	case TileMirror:
		return "mirror"
	case TileDecal:
		return "decal"
	default:
		return fmt.Sprintf("TileMode(%d)", m)
	}
}

// PaintStyle selects filling or stroking.
type PaintStyle uint8

// Paint styles.
const (
	StyleFill PaintStyle = iota
	StyleStroke
)

// String returns the style name.
func (s PaintStyle) String() string {
	if s == StyleStroke {
		return "stroke"
	}
	return "fill"
}
