// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gfx

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gogpu/flute/geom"
	"github.com/gogpu/flute/managed"
)

// MaxGradientStops bounds the number of stops a gradient may carry.
const MaxGradientStops = 8

// Gradient errors.
var (
	ErrTooManyStops  = errors.New("gfx: too many gradient stops")
	ErrStopsMismatch = errors.New("gfx: gradient colors and stops differ in length")
	ErrTooFewStops   = errors.New("gfx: gradient needs at least two colors")
)

// ShaderKind selects the variant of a ShaderDesc.
type ShaderKind uint8

// Shader kinds.
const (
	ShaderColor ShaderKind = iota
	ShaderLinearGradient
	ShaderRadialGradient
)

// String returns the kind name.
func (k ShaderKind) String() string {
	switch k {
	case ShaderColor:
		return "color"
	case ShaderLinearGradient:
		return "linearGradient"
	case ShaderRadialGradient:
		return "radialGradient"
	default:
		return fmt.Sprintf("ShaderKind(%d)", k)
	}
}

// ShaderDesc describes a shader. Gradients store their stops inline so the
// description stays comparable.
type ShaderDesc struct {
	Kind ShaderKind

	// Color.
	Color Color

	// Linear gradients run From→To. Radial gradients use From as the center.
	From, To geom.Offset
	Radius   float64

	Colors [MaxGradientStops]Color
	Stops  [MaxGradientStops]float64
	Count  int
	Tile   TileMode
}

// GradientStops returns the used prefix of Colors and Stops.
func (d ShaderDesc) GradientStops() ([]Color, []float64) {
	return d.Colors[:d.Count], d.Stops[:d.Count]
}

// String describes the shader.
func (d ShaderDesc) String() string {
	switch d.Kind {
	case ShaderColor:
		return fmt.Sprintf("color(%v)", d.Color)
	case ShaderLinearGradient:
		return fmt.Sprintf("linearGradient(%v,%v -> %v,%v, %d stops)", d.From.X, d.From.Y, d.To.X, d.To.Y, d.Count)
	case ShaderRadialGradient:
		return fmt.Sprintf("radialGradient(%v,%v r=%v, %d stops)", d.From.X, d.From.Y, d.Radius, d.Count)
	default:
		return d.Kind.String()
	}
}

// Shader is a managed shader.
type Shader struct {
	res *Resources
	n   native[ShaderDesc, NativeShader]
}

func (r *Resources) newShader(d ShaderDesc) *Shader {
	obj := managed.New[ShaderDesc, NativeShader](d, managed.FactoryFunc[ShaderDesc, NativeShader](r.backend.NewNativeShader))
	return &Shader{res: r, n: native[ShaderDesc, NativeShader]{obj: obj}}
}

// NewColorShader paints a solid color.
func (r *Resources) NewColorShader(c Color) *Shader {
	return r.newShader(ShaderDesc{Kind: ShaderColor, Color: c})
}

// NewLinearGradient interpolates colors along from→to. A nil stops slice
// spaces the colors evenly.
func (r *Resources) NewLinearGradient(from, to geom.Offset, colors []Color, stops []float64, tile TileMode) (*Shader, error) {
	d := ShaderDesc{Kind: ShaderLinearGradient, From: from, To: to, Tile: tile}
	if err := fillStops(&d, colors, stops); err != nil {
		return nil, err
	}
	return r.newShader(d), nil
}

// NewRadialGradient interpolates colors outward from center.
func (r *Resources) NewRadialGradient(center geom.Offset, radius float64, colors []Color, stops []float64, tile TileMode) (*Shader, error) {
	d := ShaderDesc{Kind: ShaderRadialGradient, From: center, Radius: radius, Tile: tile}
	if err := fillStops(&d, colors, stops); err != nil {
		return nil, err
	}
	return r.newShader(d), nil
}

// NewColorShader is Default().NewColorShader.
func NewColorShader(c Color) *Shader {
	return Default().NewColorShader(c)
}

// NewLinearGradient is Default().NewLinearGradient.
func NewLinearGradient(from, to geom.Offset, colors []Color, stops []float64, tile TileMode) (*Shader, error) {
	return Default().NewLinearGradient(from, to, colors, stops, tile)
}

func fillStops(d *ShaderDesc, colors []Color, stops []float64) error {
	switch {
	case len(colors) < 2:
		return ErrTooFewStops
	case len(colors) > MaxGradientStops:
		return fmt.Errorf("%w: %d > %d", ErrTooManyStops, len(colors), MaxGradientStops)
	case stops != nil && len(stops) != len(colors):
		return ErrStopsMismatch
	}
	d.Count = len(colors)
	copy(d.Colors[:], colors)
	for i := range colors {
		if stops != nil {
			d.Stops[i] = stops[i]
		} else {
			d.Stops[i] = float64(i) / float64(len(colors)-1)
		}
	}
	return nil
}

// Desc returns the description.
func (s *Shader) Desc() ShaderDesc {
	return s.n.obj.Key()
}

// Native returns the backend object, creating or resurrecting it.
func (s *Shader) Native() NativeShader {
	return s.n.handle(func(h NativeShader) runtime.Cleanup {
		return managed.Track(s, h, s.res.collector)
	})
}

// State reports whether the native is absent, present or deleted.
func (s *Shader) State() managed.State {
	return s.n.obj.State()
}

// Delete frees the native now. The shader stays usable.
func (s *Shader) Delete() error {
	return s.n.delete()
}

// String describes the shader.
func (s *Shader) String() string {
	if s == nil {
		return "nil"
	}
	return s.Desc().String()
}
